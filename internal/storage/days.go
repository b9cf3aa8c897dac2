package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNoRow is returned when a lookup matches nothing.
var ErrNoRow = errors.New("no such row")

// ListWorkoutDays retrieves a user's workout days with their nested exercises.
func (db *DB) ListWorkoutDays(ctx context.Context, userID int64) ([]models.WorkoutDay, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, description, is_template
		 FROM workout_days
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout days: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutDay
	for rows.Next() {
		var d models.WorkoutDay
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsTemplate); err != nil {
			return nil, fmt.Errorf("scanning workout day: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		exs, err := db.dayExercises(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Exercises = exs
	}
	return result, nil
}

// GetWorkoutDay retrieves a single workout day with its nested exercises.
// Returns ErrNoRow if it does not exist or belongs to another user.
func (db *DB) GetWorkoutDay(ctx context.Context, dayID, userID int64) (*models.WorkoutDay, error) {
	var d models.WorkoutDay
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, is_template
		 FROM workout_days
		 WHERE id = $1 AND user_id = $2`,
		dayID, userID,
	).Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsTemplate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workout day %d: %w", dayID, ErrNoRow)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout day: %w", err)
	}

	exs, err := db.dayExercises(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Exercises = exs
	return &d, nil
}

func (db *DB) dayExercises(ctx context.Context, dayID int64) ([]models.DayExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT de.id, de.exercise_id, de.position, de.target_sets, de.target_reps,
		        e.id, e.name, e.description, e.category, e.muscle_group, e.equipment
		 FROM day_exercises de
		 JOIN exercises e ON e.id = de.exercise_id
		 WHERE de.day_id = $1
		 ORDER BY de.position ASC`,
		dayID)
	if err != nil {
		return nil, fmt.Errorf("querying day exercises: %w", err)
	}
	defer rows.Close()

	var result []models.DayExercise
	for rows.Next() {
		var de models.DayExercise
		if err := rows.Scan(&de.ID, &de.ExerciseID, &de.Position, &de.TargetSets, &de.TargetReps,
			&de.Exercise.ID, &de.Exercise.Name, &de.Exercise.Description,
			&de.Exercise.Category, &de.Exercise.MuscleGroup, &de.Exercise.Equipment); err != nil {
			return nil, fmt.Errorf("scanning day exercise: %w", err)
		}
		result = append(result, de)
	}
	return result, rows.Err()
}

// CreateWorkoutDay inserts a workout day with its planned exercises.
func (db *DB) CreateWorkoutDay(ctx context.Context, userID int64, req models.CreateDayRequest) (*models.WorkoutDay, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var dayID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_days (user_id, name, description, is_template)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, req.Name, req.Description, req.IsTemplate,
	).Scan(&dayID)
	if err != nil {
		return nil, fmt.Errorf("inserting workout day: %w", err)
	}

	for i, de := range req.Exercises {
		_, err := tx.Exec(ctx,
			`INSERT INTO day_exercises (day_id, exercise_id, position, target_sets, target_reps)
			 VALUES ($1, $2, $3, $4, $5)`,
			dayID, de.ExerciseID, i+1, de.TargetSets, de.TargetReps)
		if err != nil {
			return nil, fmt.Errorf("inserting day exercise: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing workout day: %w", err)
	}
	return db.GetWorkoutDay(ctx, dayID, userID)
}
