package workout

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Events carries the coordinator's asynchronous outcomes back into the state
// machine. Every callback includes the session's local id so the tracker can
// drop events from a session that has since been discarded.
type Events struct {
	SessionCreated func(local uuid.UUID, remoteID int64)
	SetSubmitted   func(local, exercise, set uuid.UUID, setNumber int)
	Completed      func(local uuid.UUID)
	Failed         func(local uuid.UUID, serr *SyncError)
}

// BeginRequest describes the session the coordinator should create remotely.
type BeginRequest struct {
	LocalID uuid.UUID
	Create  models.CreateSessionRequest
}

// SessionSync is the per-session handle the tracker drives. All methods are
// asynchronous and non-blocking; outcomes arrive via Events.
type SessionSync interface {
	// SubmitSet queues a set log for submission. Order is preserved per
	// exercise; nothing is sent until the create-session call has resolved.
	SubmitSet(exercise, set uuid.UUID, entry models.SubmitSetLogRequest)
	// UpdateSet queues an update for an already-numbered set. It is ordered
	// behind any pending submit for the same exercise, so it can never reach
	// the server before the set it amends.
	UpdateSet(exercise, set uuid.UUID, entry models.SubmitSetLogRequest)
	// Complete waits for every queued operation to be attempted, then issues
	// the complete-session call.
	Complete(notes string)
	// Discard cancels all pending and in-flight operations. Their outcomes are
	// ignored and produce no events.
	Discard()
}

// Starter creates sync sessions. Implemented by syncer.Coordinator.
type Starter interface {
	Begin(ctx context.Context, req BeginRequest, ev Events) SessionSync
}
