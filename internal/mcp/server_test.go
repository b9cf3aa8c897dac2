package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

type nopHandle struct{}

func (nopHandle) SubmitSet(_, _ uuid.UUID, _ models.SubmitSetLogRequest) {}
func (nopHandle) UpdateSet(_, _ uuid.UUID, _ models.SubmitSetLogRequest) {}
func (nopHandle) Complete(string)                                        {}
func (nopHandle) Discard()                                               {}

type nopStarter struct{}

func (nopStarter) Begin(context.Context, workout.BeginRequest, workout.Events) workout.SessionSync {
	return nopHandle{}
}

func testHandlers(t *testing.T) (*handlers, *models.Exercise) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := workout.NewTracker(nopStarter{}, log)
	if err := tr.BrowseTemplates(); err != nil {
		t.Fatal(err)
	}
	ex := &models.Exercise{ID: uuid.New(), ExerciseID: 10, Name: "Bench Press", NextSetNumber: 1}
	if err := tr.StartWithExercises(context.Background(), 1, []*models.Exercise{ex}, workout.StartOptions{}); err != nil {
		t.Fatal(err)
	}
	return &handlers{tracker: tr, userID: 1, log: log}, ex
}

// TestSnapshotViewIdle verifies the rendered view for an idle tracker.
func TestSnapshotViewIdle(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &handlers{tracker: workout.NewTracker(nopStarter{}, log), userID: 1, log: log}

	view := h.snapshotView()
	if view["phase"] != "idle" {
		t.Errorf("phase = %v, want idle", view["phase"])
	}
	if view["session"] != nil {
		t.Errorf("session = %v, want nil", view["session"])
	}
}

// TestSnapshotViewActive verifies the working set renders with string ids and
// derived completion.
func TestSnapshotViewActive(t *testing.T) {
	h, ex := testHandlers(t)
	if _, err := h.tracker.RecordSet(ex.ID, "80", "8"); err != nil {
		t.Fatal(err)
	}

	view := h.snapshotView()
	if view["phase"] != "active" {
		t.Errorf("phase = %v, want active", view["phase"])
	}
	sess, ok := view["session"].(map[string]any)
	if !ok {
		t.Fatal("session view missing")
	}
	exercises := sess["exercises"].([]map[string]any)
	if len(exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(exercises))
	}
	if exercises[0]["id"] != ex.ID.String() {
		t.Errorf("exercise id = %v, want %s", exercises[0]["id"], ex.ID)
	}
	if exercises[0]["complete"] != true {
		t.Errorf("complete = %v, want true (single set, logged done)", exercises[0]["complete"])
	}
	sets := exercises[0]["sets"].([]map[string]any)
	if len(sets) != 1 {
		t.Fatalf("sets = %d, want 1", len(sets))
	}
	if sets[0]["setNumber"] != 1 {
		t.Errorf("setNumber = %v, want 1", sets[0]["setNumber"])
	}
}

type fakeCatalog struct{ exercises []models.ExerciseData }

func (f fakeCatalog) ListExercises(context.Context) ([]models.ExerciseData, error) {
	return f.exercises, nil
}

// TestAdHocExercises verifies the ad-hoc working set is built from catalog
// ids with names resolved, and unknown ids are rejected.
func TestAdHocExercises(t *testing.T) {
	h, _ := testHandlers(t)
	h.catalog = fakeCatalog{exercises: []models.ExerciseData{
		{ID: 10, Name: "Bench Press"},
		{ID: 20, Name: "Squat"},
	}}

	exercises, err := h.adHocExercises(context.Background(), " 10, 20 ")
	if err != nil {
		t.Fatalf("adHocExercises: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(exercises))
	}
	if exercises[0].Name != "Bench Press" || exercises[1].Name != "Squat" {
		t.Errorf("names = %q, %q; want catalog names", exercises[0].Name, exercises[1].Name)
	}
	if exercises[0].NextSetNumber != 1 {
		t.Errorf("NextSetNumber = %d, want 1", exercises[0].NextSetNumber)
	}

	if _, err := h.adHocExercises(context.Background(), "10,99"); err == nil {
		t.Error("expected error for id outside the catalog")
	}
	if _, err := h.adHocExercises(context.Background(), " , "); err == nil {
		t.Error("expected error for empty id list")
	}
}

// TestRequireUUID verifies id parameters are parsed and bad input produces a
// tool error rather than a protocol error.
func TestRequireUUID(t *testing.T) {
	want := uuid.New()
	req := mcpgo.CallToolRequest{}
	req.Params.Arguments = map[string]any{"exercise_id": want.String()}

	got, errResult := requireUUID(req, "exercise_id")
	if errResult != nil {
		t.Fatalf("unexpected tool error: %v", errResult)
	}
	if got != want {
		t.Errorf("id = %s, want %s", got, want)
	}

	req.Params.Arguments = map[string]any{"exercise_id": "not-a-uuid"}
	if _, errResult := requireUUID(req, "exercise_id"); errResult == nil {
		t.Error("expected tool error for malformed id")
	}

	req.Params.Arguments = map[string]any{}
	if _, errResult := requireUUID(req, "exercise_id"); errResult == nil {
		t.Error("expected tool error for missing id")
	}
}
