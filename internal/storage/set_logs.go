package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateSet is returned when a set log with the same (session,
// exercise, set number) key already exists.
var ErrDuplicateSet = errors.New("duplicate set number")

// InsertSetLog records one set against a session. The (session, exercise,
// set number) key is unique; a conflict maps to ErrDuplicateSet so the API
// can reject it as non-retryable.
func (db *DB) InsertSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error) {
	var l models.SetLog
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO set_logs (session_id, exercise_id, set_number, reps, weight,
		 duration_sec, distance, rest_sec, rpe, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, session_id, exercise_id, set_number, reps, weight,
		 duration_sec, distance, rest_sec, rpe, notes, created_at`,
		sessionID, req.ExerciseID, req.SetNumber, req.Reps, req.Weight,
		req.DurationSec, req.Distance, req.RestSec, req.RPE, req.Notes,
	).Scan(&l.ID, &l.SessionID, &l.ExerciseID, &l.SetNumber, &l.Reps, &l.Weight,
		&l.DurationSec, &l.Distance, &l.RestSec, &l.RPE, &l.Notes, &l.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("set %d for exercise %d: %w", req.SetNumber, req.ExerciseID, ErrDuplicateSet)
		}
		return nil, fmt.Errorf("inserting set log: %w", err)
	}
	return &l, nil
}

// UpdateSetLog amends an existing set log in place, keyed by (session,
// exercise, set number). Returns ErrNoRow if no such set was logged.
func (db *DB) UpdateSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error) {
	var l models.SetLog
	err := db.Pool.QueryRow(ctx,
		`UPDATE set_logs
		 SET reps = $4, weight = $5, duration_sec = $6, distance = $7,
		     rest_sec = $8, rpe = $9, notes = $10
		 WHERE session_id = $1 AND exercise_id = $2 AND set_number = $3
		 RETURNING id, session_id, exercise_id, set_number, reps, weight,
		 duration_sec, distance, rest_sec, rpe, notes, created_at`,
		sessionID, req.ExerciseID, req.SetNumber, req.Reps, req.Weight,
		req.DurationSec, req.Distance, req.RestSec, req.RPE, req.Notes,
	).Scan(&l.ID, &l.SessionID, &l.ExerciseID, &l.SetNumber, &l.Reps, &l.Weight,
		&l.DurationSec, &l.Distance, &l.RestSec, &l.RPE, &l.Notes, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("set %d for exercise %d: %w", req.SetNumber, req.ExerciseID, ErrNoRow)
	}
	if err != nil {
		return nil, fmt.Errorf("updating set log: %w", err)
	}
	return &l, nil
}

// QuerySetLogs retrieves all set logs for a session in submission order.
func (db *DB) QuerySetLogs(ctx context.Context, sessionID int64) ([]models.SetLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, exercise_id, set_number, reps, weight,
		 duration_sec, distance, rest_sec, rpe, notes, created_at
		 FROM set_logs
		 WHERE session_id = $1
		 ORDER BY exercise_id ASC, set_number ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	defer rows.Close()

	var result []models.SetLog
	for rows.Next() {
		var l models.SetLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.ExerciseID, &l.SetNumber, &l.Reps, &l.Weight,
			&l.DurationSec, &l.Distance, &l.RestSec, &l.RPE, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
