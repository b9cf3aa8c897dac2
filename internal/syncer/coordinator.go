// Package syncer translates committed local workout state into persistence
// API calls. It owns the ordering, buffering, retry, and cancellation
// discipline: one create-session call per session, per-exercise FIFO
// submission lanes gated on the create resolving, and bounded exponential
// backoff on retryable failures.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// Remote is the persistence service surface the coordinator drives.
// Implemented by *remote.Client.
type Remote interface {
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.WorkoutSession, error)
	SubmitSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error)
	UpdateSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error)
	CompleteSession(ctx context.Context, sessionID int64, req models.CompleteSessionRequest) (*models.WorkoutSession, error)
}

// Coordinator creates sync sessions. Safe for reuse across sessions; each
// Begin call returns an independent handle.
type Coordinator struct {
	remote Remote
	log    *slog.Logger

	maxAttempts int
	baseDelay   time.Duration
}

// Compile-time check: the coordinator drives the state machine's sync port.
var _ workout.Starter = (*Coordinator)(nil)

// New creates a Coordinator with the default retry budget (3 attempts,
// 1s/2s backoff between them).
func New(remote Remote, log *slog.Logger) *Coordinator {
	return &Coordinator{
		remote:      remote,
		log:         log,
		maxAttempts: 3,
		baseDelay:   time.Second,
	}
}

// retryable is satisfied by transport errors that classify themselves.
type retryable interface{ Retryable() bool }

func isRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// attempt runs call with bounded backoff retry. Non-retryable failures and
// context cancellation return immediately; retryable ones are retried up to
// the attempt budget.
func (c *Coordinator) attempt(ctx context.Context, op workout.Op, call func(context.Context) error) error {
	var lastErr error
	for i := 0; i < c.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.baseDelay << (i - 1)):
			}
		}
		err := call(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
		c.log.Warn("retryable failure", "op", string(op), "attempt", i+1, "error", err)
	}
	return lastErr
}

// Begin starts syncing a new session: the create-session call is issued
// immediately on its own goroutine and every other operation is buffered
// behind it.
func (c *Coordinator) Begin(ctx context.Context, req workout.BeginRequest, ev workout.Events) workout.SessionSync {
	sctx, cancel := context.WithCancel(ctx)
	s := &session{
		co:      c,
		local:   req.LocalID,
		ev:      ev,
		ctx:     sctx,
		cancel:  cancel,
		created: make(chan struct{}),
		lanes:   make(map[uuid.UUID]*lane),
	}
	go s.createSession(req.Create)
	return s
}
