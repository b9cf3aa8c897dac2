// Package template loads remotely stored workout templates and expands them
// into a fresh working set for the session state machine.
package template

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
)

// Source is the slice of the persistence API the loader needs.
// Implemented by *remote.Client.
type Source interface {
	ListWorkoutDays(ctx context.Context) ([]models.WorkoutDay, error)
	GetWorkoutDay(ctx context.Context, id int64) (*models.WorkoutDay, error)
}

// Loader fetches templates and caches them by id. Templates are immutable
// once loaded, so the cache never invalidates.
type Loader struct {
	source Source

	mu    sync.Mutex
	cache map[int64]*models.Template
}

// NewLoader creates a Loader over the given source.
func NewLoader(source Source) *Loader {
	return &Loader{source: source, cache: make(map[int64]*models.Template)}
}

// List returns all templates (workout days flagged as templates).
func (l *Loader) List(ctx context.Context) ([]*models.Template, error) {
	days, err := l.source.ListWorkoutDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	var out []*models.Template
	for _, d := range days {
		if !d.IsTemplate {
			continue
		}
		t := fromDay(&d)
		l.put(t)
		out = append(out, t)
	}
	return out, nil
}

// Load fetches a template by id, serving repeat calls from the cache. A
// missing or non-template day maps to workout.ErrNotFound.
func (l *Loader) Load(ctx context.Context, id int64) (*models.Template, error) {
	l.mu.Lock()
	if t, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return t, nil
	}
	l.mu.Unlock()

	day, err := l.source.GetWorkoutDay(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("template %d: %w", id, workout.ErrNotFound)
		}
		return nil, fmt.Errorf("loading template %d: %w", id, err)
	}
	if !day.IsTemplate {
		return nil, fmt.Errorf("day %d is not a template: %w", id, workout.ErrNotFound)
	}

	t := fromDay(day)
	l.put(t)
	return t, nil
}

func (l *Loader) put(t *models.Template) {
	l.mu.Lock()
	l.cache[t.ID] = t
	l.mu.Unlock()
}

func fromDay(day *models.WorkoutDay) *models.Template {
	t := &models.Template{
		ID:          day.ID,
		Name:        day.Name,
		Description: day.Description,
	}
	for _, de := range day.Exercises {
		t.Exercises = append(t.Exercises, models.TemplateExercise{
			ExerciseID: de.ExerciseID,
			Name:       de.Exercise.Name,
			TargetSets: de.TargetSets,
			TargetReps: de.TargetReps,
		})
	}
	return t
}

// isNotFound checks the chain for a transport error carrying a 404, without
// depending on the transport package.
func isNotFound(err error) bool {
	var se interface{ StatusCode() int }
	return errors.As(err, &se) && se.StatusCode() == http.StatusNotFound
}

// Expand deterministically produces a working set from a template: one
// exercise per template entry, in order, each pre-populated with the target
// number of empty, uncompleted sets. Pure apart from the fresh local ids.
func Expand(t *models.Template) []*models.Exercise {
	out := make([]*models.Exercise, 0, len(t.Exercises))
	for _, te := range t.Exercises {
		ex := &models.Exercise{
			ID:            uuid.New(),
			ExerciseID:    te.ExerciseID,
			Name:          te.Name,
			NextSetNumber: 1,
		}
		for i := 0; i < te.TargetSets; i++ {
			ex.Sets = append(ex.Sets, &models.Set{ID: uuid.New(), Reps: te.TargetReps})
		}
		out = append(out, ex)
	}
	return out
}
