package models

import (
	"time"

	"github.com/google/uuid"
)

// Set is one logged (or planned) set inside the active session's working set.
// Weight and reps are kept as the user typed them; they are validated and
// coerced to numbers only when the set is completed and handed to the sync
// coordinator.
type Set struct {
	ID        uuid.UUID
	Weight    string
	Reps      string
	Completed bool

	// SetNumber is assigned once, when the set is first submitted for sync.
	// Zero means the set has never been submitted.
	SetNumber int
	// Synced is set when the server has acknowledged the set log.
	Synced bool
}

// Exercise is one entry in the working set of the active session. Its ID is a
// local identifier valid only for the session's lifetime; ExerciseID is the
// remote catalog id used when persisting set logs. The two spaces never mix.
type Exercise struct {
	ID         uuid.UUID
	ExerciseID int64
	Name       string
	Sets       []*Set
	Notes      string

	// NextSetNumber is the per-exercise submission counter. Starts at 1.
	NextSetNumber int
}

// Complete reports whether every set of the exercise is completed. Derived,
// never stored.
func (e *Exercise) Complete() bool {
	if len(e.Sets) == 0 {
		return false
	}
	for _, s := range e.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}

// FindSet returns the set with the given local id, or nil.
func (e *Exercise) FindSet(id uuid.UUID) *Set {
	for _, s := range e.Sets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// TemplateExercise is one planned exercise inside a template.
type TemplateExercise struct {
	ExerciseID int64
	Name       string
	TargetSets int
	TargetReps string
}

// Template is a remotely stored workout plan. Immutable once loaded; only used
// to seed a fresh working set.
type Template struct {
	ID          int64
	Name        string
	Description string
	Exercises   []TemplateExercise
}

// Session is the local draft of the workout being tracked. LocalID identifies
// the draft for the whole of its lifetime; RemoteID stays zero until the
// create-session call resolves.
type Session struct {
	LocalID      uuid.UUID
	RemoteID     int64
	UserID       int64
	WorkoutDayID *int64
	StartTime    time.Time
	EndTime      *time.Time
	Notes        string
	BodyWeight   *float64
	Location     string
	Exercises    []*Exercise
}

// FindExercise returns the working-set exercise with the given local id, or nil.
func (s *Session) FindExercise(id uuid.UUID) *Exercise {
	for _, e := range s.Exercises {
		if e.ID == id {
			return e
		}
	}
	return nil
}
