package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyCompleted is returned when completing a session that already has
// an end time.
var ErrAlreadyCompleted = errors.New("session already completed")

// CreateSession inserts a workout session and returns it with its assigned id.
func (db *DB) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_sessions (user_id, day_id, start_time, notes, body_weight, location)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, day_id, start_time, end_time, notes, body_weight, location`,
		req.UserID, req.WorkoutDayID, req.StartTime, req.Notes, req.BodyWeight, req.Location,
	).Scan(&s.ID, &s.UserID, &s.WorkoutDayID, &s.StartTime, &s.EndTime, &s.Notes, &s.BodyWeight, &s.Location)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return &s, nil
}

// GetSession retrieves a session by id. Returns ErrNoRow if absent or owned
// by another user.
func (db *DB) GetSession(ctx context.Context, sessionID, userID int64) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, day_id, start_time, end_time, notes, body_weight, location
		 FROM workout_sessions
		 WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&s.ID, &s.UserID, &s.WorkoutDayID, &s.StartTime, &s.EndTime, &s.Notes, &s.BodyWeight, &s.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNoRow)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// ListSessions retrieves a user's sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, userID int64) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, day_id, start_time, end_time, notes, body_weight, location
		 FROM workout_sessions
		 WHERE user_id = $1
		 ORDER BY start_time DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.WorkoutDayID, &s.StartTime, &s.EndTime, &s.Notes, &s.BodyWeight, &s.Location); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// CompleteSession sets a session's end time and appends completion notes.
// Returns ErrAlreadyCompleted if the end time was already set, ErrNoRow if the
// session does not exist.
func (db *DB) CompleteSession(ctx context.Context, sessionID, userID int64, notes string, endTime time.Time) (*models.WorkoutSession, error) {
	s, err := db.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if s.EndTime != nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrAlreadyCompleted)
	}

	err = db.Pool.QueryRow(ctx,
		`UPDATE workout_sessions
		 SET end_time = $3, notes = CASE WHEN $4 = '' THEN notes ELSE $4 END
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, day_id, start_time, end_time, notes, body_weight, location`,
		sessionID, userID, endTime, notes,
	).Scan(&s.ID, &s.UserID, &s.WorkoutDayID, &s.StartTime, &s.EndTime, &s.Notes, &s.BodyWeight, &s.Location)
	if err != nil {
		return nil, fmt.Errorf("completing session: %w", err)
	}
	return s, nil
}
