package workout

import (
	"context"
	"errors"
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

// TestRecordSetNumbering verifies that set numbers are assigned at submission
// time, strictly increasing per exercise, and never renumbered.
func TestRecordSetNumbering(t *testing.T) {
	tr, st, exercises := startActive(t, 2)

	for i := 0; i < 3; i++ {
		if _, err := tr.RecordSet(exercises[0].ID, "80", "8"); err != nil {
			t.Fatalf("RecordSet %d: %v", i, err)
		}
	}
	if _, err := tr.RecordSet(exercises[1].ID, "40", "12"); err != nil {
		t.Fatal(err)
	}

	if len(st.handle.submits) != 4 {
		t.Fatalf("submits = %d, want 4", len(st.handle.submits))
	}
	for i, want := range []int{1, 2, 3} {
		if got := st.handle.submits[i].SetNumber; got != want {
			t.Errorf("submit %d SetNumber = %d, want %d", i, got, want)
		}
	}
	// Counters are per exercise, so the second exercise starts over at 1.
	if got := st.handle.submits[3].SetNumber; got != 1 {
		t.Errorf("second exercise SetNumber = %d, want 1", got)
	}

	_, sess := tr.Snapshot()
	if got := sess.Exercises[0].NextSetNumber; got != 4 {
		t.Errorf("NextSetNumber = %d, want 4", got)
	}
}

// TestRecordSetValidation verifies invalid weight/reps are rejected at the
// boundary: no set is appended and nothing reaches the sync layer.
func TestRecordSetValidation(t *testing.T) {
	tr, st, exercises := startActive(t, 1)

	cases := []struct {
		name         string
		weight, reps string
	}{
		{"non-numeric weight", "heavy", "8"},
		{"non-numeric reps", "80", "lots"},
		{"negative weight", "-10", "8"},
		{"negative reps", "80", "-1"},
		{"empty weight", "", "8"},
		{"infinite weight", "+Inf", "8"},
		{"nan reps", "80", "NaN"},
	}
	for _, tc := range cases {
		if _, err := tr.RecordSet(exercises[0].ID, tc.weight, tc.reps); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}

	if len(st.handle.submits) != 0 {
		t.Errorf("submits = %d, want 0", len(st.handle.submits))
	}
	_, sess := tr.Snapshot()
	if got := len(sess.Exercises[0].Sets); got != 0 {
		t.Errorf("sets = %d, want 0", got)
	}
}

// TestRecordSetUnknownExercise verifies a bad exercise id maps to ErrNotFound.
func TestRecordSetUnknownExercise(t *testing.T) {
	tr, _, _ := startActive(t, 1)
	if _, err := tr.RecordSet(uuid.New(), "80", "8"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestRecordSetTrimsInput verifies surrounding whitespace is stripped before
// the values are stored.
func TestRecordSetTrimsInput(t *testing.T) {
	tr, _, exercises := startActive(t, 1)
	setID, err := tr.RecordSet(exercises[0].ID, " 82.5 ", " 8")
	if err != nil {
		t.Fatal(err)
	}
	_, sess := tr.Snapshot()
	set := sess.Exercises[0].FindSet(setID)
	if set.Weight != "82.5" || set.Reps != "8" {
		t.Errorf("stored = (%q, %q), want (82.5, 8)", set.Weight, set.Reps)
	}
}

// TestEditSetLastWriteWins verifies sequential edits apply in order and a
// synced set produces updates, never duplicate submissions.
func TestEditSetLastWriteWins(t *testing.T) {
	tr, st, exercises := startActive(t, 1)
	setID, err := tr.RecordSet(exercises[0].ID, "80", "8")
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.EditSet(exercises[0].ID, setID, strptr("85"), nil); err != nil {
		t.Fatalf("first edit: %v", err)
	}
	if err := tr.EditSet(exercises[0].ID, setID, strptr("90"), strptr("6")); err != nil {
		t.Fatalf("second edit: %v", err)
	}

	_, sess := tr.Snapshot()
	set := sess.Exercises[0].FindSet(setID)
	if set.Weight != "90" || set.Reps != "6" {
		t.Errorf("set = (%q, %q), want (90, 6)", set.Weight, set.Reps)
	}

	if len(st.handle.submits) != 1 {
		t.Errorf("submits = %d, want 1 (edits must not resubmit)", len(st.handle.submits))
	}
	if len(st.handle.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(st.handle.updates))
	}
	last := st.handle.updates[1]
	if last.SetNumber != 1 {
		t.Errorf("update SetNumber = %d, want 1 (numbers are never reassigned)", last.SetNumber)
	}
	if last.Weight == nil || *last.Weight != 90 {
		t.Errorf("update weight = %v, want 90", last.Weight)
	}
	if last.Reps == nil || *last.Reps != 6 {
		t.Errorf("update reps = %v, want 6", last.Reps)
	}
}

// TestEditSetValidationLeavesSetIntact verifies a bad edit changes nothing,
// even when the other field was valid.
func TestEditSetValidationLeavesSetIntact(t *testing.T) {
	tr, st, exercises := startActive(t, 1)
	setID, err := tr.RecordSet(exercises[0].ID, "80", "8")
	if err != nil {
		t.Fatal(err)
	}

	err = tr.EditSet(exercises[0].ID, setID, strptr("85"), strptr("not-a-number"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	_, sess := tr.Snapshot()
	set := sess.Exercises[0].FindSet(setID)
	if set.Weight != "80" || set.Reps != "8" {
		t.Errorf("set = (%q, %q), want (80, 8) untouched", set.Weight, set.Reps)
	}
	if len(st.handle.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(st.handle.updates))
	}
}

// plannedExercise builds a working-set exercise with n planned (uncompleted,
// unsubmitted) sets, the shape a template expansion produces.
func plannedExercise(n int, reps string) *models.Exercise {
	ex := &models.Exercise{
		ID:            uuid.New(),
		ExerciseID:    100,
		Name:          "bench press",
		NextSetNumber: 1,
	}
	for i := 0; i < n; i++ {
		ex.Sets = append(ex.Sets, &models.Set{ID: uuid.New(), Reps: reps})
	}
	return ex
}

func startPlanned(t *testing.T, ex *models.Exercise) (*Tracker, *fakeStarter) {
	t.Helper()
	st := &fakeStarter{}
	tr := NewTracker(st, discardLogger())
	if err := tr.BrowseTemplates(); err != nil {
		t.Fatal(err)
	}
	if err := tr.StartWithExercises(context.Background(), 1, []*models.Exercise{ex}, StartOptions{}); err != nil {
		t.Fatal(err)
	}
	return tr, st
}

// TestEditPlannedSetStaysLocal verifies that editing a set that was never
// submitted queues no remote operation.
func TestEditPlannedSetStaysLocal(t *testing.T) {
	ex := plannedExercise(2, "8")
	tr, st := startPlanned(t, ex)

	if err := tr.EditSet(ex.ID, ex.Sets[0].ID, strptr("100"), nil); err != nil {
		t.Fatalf("EditSet: %v", err)
	}
	if len(st.handle.updates) != 0 || len(st.handle.submits) != 0 {
		t.Errorf("ops = %d submits, %d updates, want none", len(st.handle.submits), len(st.handle.updates))
	}
}

// TestToggleCompletion verifies the completion toggle: first completion
// submits, un-toggling only flips the local flag, and re-toggling an already
// numbered set never resubmits.
func TestToggleCompletion(t *testing.T) {
	ex := plannedExercise(1, "8")
	tr, st := startPlanned(t, ex)
	setID := ex.Sets[0].ID

	if err := tr.EditSet(ex.ID, setID, strptr("80"), nil); err != nil {
		t.Fatal(err)
	}

	if err := tr.ToggleCompletion(ex.ID, setID); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if len(st.handle.submits) != 1 {
		t.Fatalf("submits = %d, want 1", len(st.handle.submits))
	}
	if got := st.handle.submits[0].SetNumber; got != 1 {
		t.Errorf("SetNumber = %d, want 1", got)
	}

	if err := tr.ToggleCompletion(ex.ID, setID); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	_, sess := tr.Snapshot()
	set := sess.Exercises[0].FindSet(setID)
	if set.Completed {
		t.Error("set still completed after un-toggle")
	}
	if set.SetNumber != 1 {
		t.Errorf("SetNumber = %d, want 1 retained", set.SetNumber)
	}

	if err := tr.ToggleCompletion(ex.ID, setID); err != nil {
		t.Fatalf("toggle back on: %v", err)
	}
	if len(st.handle.submits) != 1 {
		t.Errorf("submits = %d, want 1 (re-toggle must not resubmit)", len(st.handle.submits))
	}
}

// TestToggleRequiresValues verifies a planned set cannot be marked done until
// its values parse.
func TestToggleRequiresValues(t *testing.T) {
	ex := plannedExercise(1, "8")
	tr, st := startPlanned(t, ex)

	err := tr.ToggleCompletion(ex.ID, ex.Sets[0].ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput (weight is empty)", err)
	}
	_, sess := tr.Snapshot()
	if sess.Exercises[0].Sets[0].Completed {
		t.Error("set completed despite invalid values")
	}
	if len(st.handle.submits) != 0 {
		t.Errorf("submits = %d, want 0", len(st.handle.submits))
	}
}

// TestExerciseCompleteDerived verifies exercise completion is derived from its
// sets and never stored.
func TestExerciseCompleteDerived(t *testing.T) {
	ex := plannedExercise(2, "8")
	tr, _ := startPlanned(t, ex)

	_, sess := tr.Snapshot()
	if sess.Exercises[0].Complete() {
		t.Error("exercise complete with planned sets outstanding")
	}

	for _, set := range ex.Sets {
		if err := tr.EditSet(ex.ID, set.ID, strptr("60"), nil); err != nil {
			t.Fatal(err)
		}
		if err := tr.ToggleCompletion(ex.ID, set.ID); err != nil {
			t.Fatal(err)
		}
	}

	_, sess = tr.Snapshot()
	if !sess.Exercises[0].Complete() {
		t.Error("exercise not complete after all sets done")
	}

	// Un-toggling one set flips it back.
	if err := tr.ToggleCompletion(ex.ID, ex.Sets[0].ID); err != nil {
		t.Fatal(err)
	}
	_, sess = tr.Snapshot()
	if sess.Exercises[0].Complete() {
		t.Error("exercise still complete with an uncompleted set")
	}
}

// TestExerciseCompleteEmpty verifies an exercise with no sets is never
// complete.
func TestExerciseCompleteEmpty(t *testing.T) {
	ex := &models.Exercise{ID: uuid.New()}
	if ex.Complete() {
		t.Error("empty exercise reported complete")
	}
}
