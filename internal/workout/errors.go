package workout

import (
	"errors"
	"fmt"
)

// Sentinel errors for intent validation. Callers match with errors.Is.
var (
	// ErrNotFound means a referenced exercise or set is not in the working set.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means user-entered weight/reps failed validation. Input
	// errors are resolved at the boundary and never reach the sync coordinator.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition means the intent is illegal for the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Op identifies a remote operation kind issued by the sync coordinator.
type Op string

const (
	OpCreateSession   Op = "create_session"
	OpSubmitSetLog    Op = "submit_set_log"
	OpUpdateSetLog    Op = "update_set_log"
	OpCompleteSession Op = "complete_session"
)

// SyncError is a remote operation failure surfaced to the state machine after
// the coordinator's retry budget is spent (or immediately, if the failure is
// not retryable). The session stays in its phase and local data is preserved.
type SyncError struct {
	Op        Op
	Retryable bool
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s failed (retryable=%t): %v", e.Op, e.Retryable, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
