package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// laneBuffer is the per-exercise queue depth. Intents must never block on the
// network, so the buffer is sized well beyond any realistic burst of sets.
const laneBuffer = 128

type op struct {
	kind     workout.Op
	exercise uuid.UUID
	set      uuid.UUID
	entry    models.SubmitSetLogRequest
}

type lane struct {
	ch chan op
}

// session is the per-session sync handle. Cancellation is scoped to its own
// context: discarding it can never disturb a successor session.
type session struct {
	co     *Coordinator
	local  uuid.UUID
	ev     workout.Events
	ctx    context.Context
	cancel context.CancelFunc

	// created is closed once the create-session call has resolved, success or
	// terminal failure. Lanes block on it so no set log is ever sent with an
	// unassigned session id.
	created   chan struct{}
	remoteID  int64
	createErr *workout.SyncError

	mu    sync.Mutex
	lanes map[uuid.UUID]*lane
	wg    sync.WaitGroup
}

var _ workout.SessionSync = (*session)(nil)

func (s *session) createSession(req models.CreateSessionRequest) {
	var ws *models.WorkoutSession
	err := s.co.attempt(s.ctx, workout.OpCreateSession, func(ctx context.Context) error {
		var err error
		ws, err = s.co.remote.CreateSession(ctx, req)
		return err
	})
	if err != nil {
		if s.ctx.Err() == nil {
			s.createErr = &workout.SyncError{Op: workout.OpCreateSession, Retryable: isRetryable(err), Err: err}
			close(s.created)
			s.ev.Failed(s.local, s.createErr)
		} else {
			close(s.created)
		}
		return
	}
	s.remoteID = ws.ID
	close(s.created)
	s.ev.SessionCreated(s.local, ws.ID)
}

func (s *session) SubmitSet(exercise, set uuid.UUID, entry models.SubmitSetLogRequest) {
	s.enqueue(op{kind: workout.OpSubmitSetLog, exercise: exercise, set: set, entry: entry})
}

func (s *session) UpdateSet(exercise, set uuid.UUID, entry models.SubmitSetLogRequest) {
	s.enqueue(op{kind: workout.OpUpdateSetLog, exercise: exercise, set: set, entry: entry})
}

func (s *session) enqueue(o op) {
	if s.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	s.laneFor(o.exercise).ch <- o
}

// laneFor returns the FIFO lane for an exercise, starting its worker on first
// use. One worker per exercise keeps submissions ordered per (session,
// exercise) while letting different exercises proceed concurrently.
func (s *session) laneFor(exercise uuid.UUID) *lane {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lanes[exercise]
	if !ok {
		l = &lane{ch: make(chan op, laneBuffer)}
		s.lanes[exercise] = l
		go s.runLane(l)
	}
	return l
}

func (s *session) runLane(l *lane) {
	for {
		select {
		case <-s.ctx.Done():
			// Release any waiters; outcomes of cancelled ops are ignored.
			for {
				select {
				case <-l.ch:
					s.wg.Done()
				default:
					return
				}
			}
		case o := <-l.ch:
			s.process(o)
			s.wg.Done()
		}
	}
}

func (s *session) process(o op) {
	select {
	case <-s.ctx.Done():
		return
	case <-s.created:
	}
	if s.ctx.Err() != nil {
		return
	}
	if s.createErr != nil {
		s.ev.Failed(s.local, &workout.SyncError{
			Op:        o.kind,
			Retryable: s.createErr.Retryable,
			Err:       fmt.Errorf("session was never created: %w", s.createErr.Err),
		})
		return
	}

	err := s.co.attempt(s.ctx, o.kind, func(ctx context.Context) error {
		var err error
		if o.kind == workout.OpUpdateSetLog {
			_, err = s.co.remote.UpdateSetLog(ctx, s.remoteID, o.entry)
		} else {
			_, err = s.co.remote.SubmitSetLog(ctx, s.remoteID, o.entry)
		}
		return err
	})
	if s.ctx.Err() != nil {
		return
	}
	if err != nil {
		s.ev.Failed(s.local, &workout.SyncError{Op: o.kind, Retryable: isRetryable(err), Err: err})
		return
	}
	if o.kind == workout.OpSubmitSetLog {
		s.ev.SetSubmitted(s.local, o.exercise, o.set, o.entry.SetNumber)
	}
}

// Complete waits for every queued operation to be attempted, then issues the
// complete-session call. The state machine is in Completing by the time this
// runs, so no new submissions race the drain.
func (s *session) Complete(notes string) {
	go func() {
		s.wg.Wait()
		select {
		case <-s.ctx.Done():
			return
		case <-s.created:
		}
		if s.createErr != nil {
			s.ev.Failed(s.local, &workout.SyncError{
				Op:        workout.OpCompleteSession,
				Retryable: s.createErr.Retryable,
				Err:       fmt.Errorf("session was never created: %w", s.createErr.Err),
			})
			return
		}

		err := s.co.attempt(s.ctx, workout.OpCompleteSession, func(ctx context.Context) error {
			_, err := s.co.remote.CompleteSession(ctx, s.remoteID, models.CompleteSessionRequest{Notes: notes})
			return err
		})
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			s.ev.Failed(s.local, &workout.SyncError{Op: workout.OpCompleteSession, Retryable: isRetryable(err), Err: err})
			return
		}
		s.ev.Completed(s.local)
		s.cancel()
	}()
}

// Discard cancels every pending and in-flight operation for this session.
func (s *session) Discard() {
	s.cancel()
}
