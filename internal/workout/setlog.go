package workout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// parseMeasure validates a user-entered weight or reps value: a decimal,
// non-negative, finite number.
func parseMeasure(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", field, raw, ErrInvalidInput)
	}
	if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s %q out of range: %w", field, raw, ErrInvalidInput)
	}
	return v, nil
}

// RecordSet appends a completed set to the given exercise and queues it for
// submission. Returns the new set's local id. The set number is assigned here,
// at submission time, from the exercise's counter, and is never renumbered.
func (t *Tracker) RecordSet(exerciseID uuid.UUID, weight, reps string) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return uuid.Nil, t.reject("record_set")
	}
	ex := t.session.FindExercise(exerciseID)
	if ex == nil {
		return uuid.Nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	if _, err := parseMeasure("weight", weight); err != nil {
		return uuid.Nil, err
	}
	if _, err := parseMeasure("reps", reps); err != nil {
		return uuid.Nil, err
	}

	set := &models.Set{
		ID:        uuid.New(),
		Weight:    strings.TrimSpace(weight),
		Reps:      strings.TrimSpace(reps),
		Completed: true,
	}
	ex.Sets = append(ex.Sets, set)
	t.submitLocked(ex, set)
	return set.ID, nil
}

// EditSet mutates an existing set in place. Nil fields are left untouched. If
// the set was already handed to the coordinator, an update is queued behind it
// in the same per-exercise lane, never a duplicate create.
func (t *Tracker) EditSet(exerciseID, setID uuid.UUID, weight, reps *string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return t.reject("edit_set")
	}
	ex := t.session.FindExercise(exerciseID)
	if ex == nil {
		return fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	set := ex.FindSet(setID)
	if set == nil {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}

	// Validate before mutating so a bad edit leaves the set intact.
	if weight != nil {
		if _, err := parseMeasure("weight", *weight); err != nil {
			return err
		}
	}
	if reps != nil {
		if _, err := parseMeasure("reps", *reps); err != nil {
			return err
		}
	}
	if weight != nil {
		set.Weight = strings.TrimSpace(*weight)
	}
	if reps != nil {
		set.Reps = strings.TrimSpace(*reps)
	}

	if set.SetNumber > 0 {
		t.handle.UpdateSet(ex.ID, set.ID, entryFor(ex, set))
	}
	return nil
}

// ToggleCompletion flips a set's completed flag without touching weight/reps.
// Marking a planned set done requires its values to already parse; the first
// completion submits it, a later un-toggle only flips the local flag (the API
// has no delete-set operation).
func (t *Tracker) ToggleCompletion(exerciseID, setID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != PhaseActive {
		return t.reject("toggle_completion")
	}
	ex := t.session.FindExercise(exerciseID)
	if ex == nil {
		return fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	set := ex.FindSet(setID)
	if set == nil {
		return fmt.Errorf("set %s: %w", setID, ErrNotFound)
	}

	if set.Completed {
		set.Completed = false
		return nil
	}
	if _, err := parseMeasure("weight", set.Weight); err != nil {
		return err
	}
	if _, err := parseMeasure("reps", set.Reps); err != nil {
		return err
	}
	set.Completed = true
	if set.SetNumber == 0 {
		t.submitLocked(ex, set)
	}
	return nil
}

// submitLocked assigns the next set number and queues the submission. Caller
// holds t.mu and has already validated weight/reps.
func (t *Tracker) submitLocked(ex *models.Exercise, set *models.Set) {
	set.SetNumber = ex.NextSetNumber
	ex.NextSetNumber++
	t.handle.SubmitSet(ex.ID, set.ID, entryFor(ex, set))
}

// entryFor builds the wire entry for a validated set.
func entryFor(ex *models.Exercise, set *models.Set) models.SubmitSetLogRequest {
	w, _ := parseMeasure("weight", set.Weight)
	r, _ := parseMeasure("reps", set.Reps)
	reps := int(math.Round(r))
	return models.SubmitSetLogRequest{
		ExerciseID: ex.ExerciseID,
		SetNumber:  set.SetNumber,
		Reps:       &reps,
		Weight:     &w,
		Notes:      ex.Notes,
	}
}
