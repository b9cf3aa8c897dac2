package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Phase is the session lifecycle state. The presentation layer renders purely
// as a function of it; there is no separate navigation flag.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseActive
	PhaseCompleting
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelecting:
		return "selecting_template"
	case PhaseActive:
		return "active"
	case PhaseCompleting:
		return "completing"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Tracker owns the session phase and the working set, and serializes all
// intents behind a single mutex: no two mutations ever interleave against the
// same session. Network work happens on the coordinator's goroutines and
// reports back through identity-guarded event callbacks.
type Tracker struct {
	mu      sync.Mutex
	phase   Phase
	session *models.Session
	handle  SessionSync
	syncErr *SyncError

	starter Starter
	log     *slog.Logger
}

// NewTracker creates a tracker in the Idle phase.
func NewTracker(starter Starter, log *slog.Logger) *Tracker {
	return &Tracker{phase: PhaseIdle, starter: starter, log: log}
}

// Phase returns the current lifecycle phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// BrowseTemplates moves Idle -> SelectingTemplate. No side effects.
func (t *Tracker) BrowseTemplates() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseIdle {
		return t.reject("browse_templates")
	}
	t.phase = PhaseSelecting
	return nil
}

// Back moves SelectingTemplate -> Idle, discarding any in-progress selection.
func (t *Tracker) Back() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseSelecting {
		return t.reject("back")
	}
	t.phase = PhaseIdle
	return nil
}

// StartOptions are the optional session attributes captured at start.
type StartOptions struct {
	WorkoutDayID *int64
	BodyWeight   *float64
	Location     string
	Notes        string
}

// StartWithExercises moves SelectingTemplate -> Active with the given working
// set and kicks off the coordinator's create-session call. The Active phase is
// entered optimistically; the remote id is reconciled when the call resolves.
func (t *Tracker) StartWithExercises(ctx context.Context, userID int64, exercises []*models.Exercise, opts StartOptions) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseSelecting {
		return t.reject("start_with_exercises")
	}
	if len(exercises) == 0 {
		return fmt.Errorf("working set is empty: %w", ErrInvalidInput)
	}

	s := &models.Session{
		LocalID:      uuid.New(),
		UserID:       userID,
		WorkoutDayID: opts.WorkoutDayID,
		StartTime:    time.Now().UTC(),
		Notes:        opts.Notes,
		BodyWeight:   opts.BodyWeight,
		Location:     opts.Location,
		Exercises:    exercises,
	}
	for _, ex := range exercises {
		if ex.NextSetNumber == 0 {
			ex.NextSetNumber = 1
		}
	}

	t.session = s
	t.phase = PhaseActive
	t.syncErr = nil
	t.handle = t.starter.Begin(ctx, BeginRequest{
		LocalID: s.LocalID,
		Create: models.CreateSessionRequest{
			UserID:       s.UserID,
			WorkoutDayID: s.WorkoutDayID,
			StartTime:    s.StartTime,
			BodyWeight:   s.BodyWeight,
			Location:     s.Location,
			Notes:        s.Notes,
		},
	}, Events{
		SessionCreated: t.onSessionCreated,
		SetSubmitted:   t.onSetSubmitted,
		Completed:      t.onCompleted,
		Failed:         t.onFailed,
	})
	t.log.Info("workout started", "session", s.LocalID, "exercises", len(exercises))
	return nil
}

// SetExerciseNotes updates free-text notes on a working-set exercise.
func (t *Tracker) SetExerciseNotes(exerciseID uuid.UUID, notes string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return t.reject("set_exercise_notes")
	}
	ex := t.session.FindExercise(exerciseID)
	if ex == nil {
		return fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	ex.Notes = notes
	return nil
}

// Finish moves Active -> Completing. The coordinator drains every queued set
// submission before issuing the complete call; the Completed event lands the
// session in the terminal phase. A failure returns to Active with the error
// retained; logged sets already exist remotely and must not be orphaned.
func (t *Tracker) Finish(notes string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return t.reject("finish")
	}
	if notes != "" {
		t.session.Notes = notes
	}
	t.phase = PhaseCompleting
	t.handle.Complete(notes)
	return nil
}

// Discard cancels the session from any phase and returns to Idle. All pending
// remote operations for the session are cancelled; their outcomes are ignored.
func (t *Tracker) Discard() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle != nil {
		t.handle.Discard()
	}
	if t.session != nil {
		t.log.Info("workout discarded", "session", t.session.LocalID, "phase", t.phase.String())
	}
	t.session = nil
	t.handle = nil
	t.syncErr = nil
	t.phase = PhaseIdle
	return nil
}

// Reset moves Completed -> Idle, releasing the finished working set.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseCompleted {
		return t.reject("reset")
	}
	t.session = nil
	t.handle = nil
	t.phase = PhaseIdle
	return nil
}

// LastSyncError returns the most recent terminal sync failure, if any. It is
// cleared when the session is discarded or a new one starts.
func (t *Tracker) LastSyncError() *SyncError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syncErr
}

// Snapshot returns the phase and a deep copy of the session draft for
// rendering. The copy shares nothing with the working set, so callers may hold
// it across intents.
func (t *Tracker) Snapshot() (Phase, *models.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return t.phase, nil
	}
	s := *t.session
	s.Exercises = make([]*models.Exercise, len(t.session.Exercises))
	for i, ex := range t.session.Exercises {
		e := *ex
		e.Sets = make([]*models.Set, len(ex.Sets))
		for j, set := range ex.Sets {
			c := *set
			e.Sets[j] = &c
		}
		s.Exercises[i] = &e
	}
	return t.phase, &s
}

// reject logs an illegal intent and returns ErrInvalidTransition. The state is
// left untouched: a stray dispatch is a UI bug, not a reason to corrupt state.
func (t *Tracker) reject(intent string) error {
	t.log.Warn("rejected intent", "intent", intent, "phase", t.phase.String())
	return fmt.Errorf("%s in phase %s: %w", intent, t.phase, ErrInvalidTransition)
}

// --- sync event handlers ---

// current reports whether the event belongs to the live session. Events from a
// discarded session must not mutate a successor's state, so the guard is on
// session identity rather than phase alone.
func (t *Tracker) current(local uuid.UUID) bool {
	return t.session != nil && t.session.LocalID == local
}

func (t *Tracker) onSessionCreated(local uuid.UUID, remoteID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(local) {
		return
	}
	t.session.RemoteID = remoteID
	t.log.Info("session created remotely", "session", local, "remote_id", remoteID)
}

func (t *Tracker) onSetSubmitted(local, exercise, set uuid.UUID, setNumber int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(local) {
		return
	}
	ex := t.session.FindExercise(exercise)
	if ex == nil {
		return
	}
	if s := ex.FindSet(set); s != nil {
		s.Synced = true
		s.SetNumber = setNumber
	}
}

func (t *Tracker) onCompleted(local uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(local) || t.phase != PhaseCompleting {
		return
	}
	now := time.Now().UTC()
	t.session.EndTime = &now
	t.phase = PhaseCompleted
	t.syncErr = nil
	t.log.Info("workout completed", "session", local)
}

func (t *Tracker) onFailed(local uuid.UUID, serr *SyncError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(local) {
		return
	}
	t.syncErr = serr
	// A failed complete call drops back to Active so the user can keep
	// logging locally and retry; it never falls through to Idle.
	if serr.Op == OpCompleteSession && t.phase == PhaseCompleting {
		t.phase = PhaseActive
	}
	t.log.Warn("sync operation failed", "session", local, "op", string(serr.Op), "retryable", serr.Retryable, "error", serr.Err)
}
