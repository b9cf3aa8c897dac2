package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ListExercises retrieves the full exercise catalog.
func (db *DB) ListExercises(ctx context.Context) ([]models.ExerciseData, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, category, muscle_group, equipment
		 FROM exercises
		 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseData
	for rows.Next() {
		var e models.ExerciseData
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.MuscleGroup, &e.Equipment); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateExercise inserts a catalog exercise and returns it with its id.
func (db *DB) CreateExercise(ctx context.Context, req models.CreateExerciseRequest) (*models.ExerciseData, error) {
	var e models.ExerciseData
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, description, category, muscle_group, equipment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, description, category, muscle_group, equipment`,
		req.Name, req.Description, req.Category, req.MuscleGroup, req.Equipment,
	).Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.MuscleGroup, &e.Equipment)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}
