package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/template"
	"github.com/claude/liftlog/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List available workout templates. Call this before start_workout; it also opens the template picker when no workout is active."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Start a workout session from a template, or ad hoc from catalog exercises. With template_id the working set is pre-populated with the template's planned sets; with exercise_ids it starts with the named exercises and no planned sets."),
	mcp.WithNumber("template_id", mcp.Description("Template id from list_templates")),
	mcp.WithString("exercise_ids", mcp.Description("Comma-separated catalog exercise ids for an ad-hoc workout; used when template_id is omitted")),
	mcp.WithNumber("body_weight", mcp.Description("Body weight at session start")),
	mcp.WithString("location", mcp.Description("Where the workout takes place")),
	mcp.WithString("notes", mcp.Description("Free-text session notes")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get the current session phase and working set. Exercise and set ids in the response are the ids the other tools take."),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log a completed set against a working-set exercise. Weight and reps are validated; the set is queued for sync immediately."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Working-set exercise id from get_workout")),
	mcp.WithString("weight", mcp.Required(), mcp.Description("Weight lifted, e.g. '82.5'")),
	mcp.WithString("reps", mcp.Required(), mcp.Description("Repetitions performed, e.g. '8'")),
)

var toolEditSet = mcp.NewTool("edit_set",
	mcp.WithDescription("Edit a set's weight and/or reps in place. Omitted fields are left unchanged. A set already synced is amended remotely, never duplicated."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Working-set exercise id")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id from get_workout")),
	mcp.WithString("weight", mcp.Description("New weight")),
	mcp.WithString("reps", mcp.Description("New reps")),
)

var toolToggleSet = mcp.NewTool("toggle_set",
	mcp.WithDescription("Toggle a set's completed flag. Marking a planned set done requires its weight and reps to be filled in; the first completion submits it for sync."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Working-set exercise id")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id from get_workout")),
)

var toolSetExerciseNotes = mcp.NewTool("set_exercise_notes",
	mcp.WithDescription("Set free-text notes on a working-set exercise."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Working-set exercise id")),
	mcp.WithString("notes", mcp.Required(), mcp.Description("Notes text; replaces any previous notes")),
)

var toolFinishWorkout = mcp.NewTool("finish_workout",
	mcp.WithDescription("Finish the active workout. All queued set submissions are drained before the session is completed remotely. On failure the session returns to active so nothing is lost."),
	mcp.WithString("notes", mcp.Description("Final session notes")),
)

var toolDiscardWorkout = mcp.NewTool("discard_workout",
	mcp.WithDescription("Discard the current session and return to idle. Pending sync operations are cancelled; sets already persisted remotely remain."),
)

var toolReset = mcp.NewTool("reset",
	mcp.WithDescription("Release a completed workout and return to idle, ready to start the next one."),
)

// --- Tool handlers ---

func (h *handlers) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Opening the picker is part of browsing; tolerate being there already.
	if h.tracker.Phase() == workout.PhaseIdle {
		if err := h.tracker.BrowseTemplates(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	templates, err := h.loader.List(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("listing templates failed: " + err.Error()), nil
	}

	out := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		exercises := make([]map[string]any, 0, len(t.Exercises))
		for _, te := range t.Exercises {
			exercises = append(exercises, map[string]any{
				"exerciseId": te.ExerciseID,
				"name":       te.Name,
				"targetSets": te.TargetSets,
				"targetReps": te.TargetReps,
			})
		}
		out = append(out, map[string]any{
			"id":          t.ID,
			"name":        t.Name,
			"description": t.Description,
			"exercises":   exercises,
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := int64(req.GetFloat("template_id", 0))
	exerciseIDs := req.GetString("exercise_ids", "")
	if templateID == 0 && exerciseIDs == "" {
		return mcp.NewToolResultError("provide template_id or exercise_ids"), nil
	}

	if h.tracker.Phase() == workout.PhaseIdle {
		if err := h.tracker.BrowseTemplates(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var exercises []*models.Exercise
	opts := workout.StartOptions{
		Location: req.GetString("location", ""),
		Notes:    req.GetString("notes", ""),
	}
	if bw := req.GetFloat("body_weight", 0); bw > 0 {
		opts.BodyWeight = &bw
	}

	if templateID != 0 {
		tmpl, err := h.loader.Load(ctx, templateID)
		if err != nil {
			if errors.Is(err, workout.ErrNotFound) {
				return mcp.NewToolResultError("no such template"), nil
			}
			h.log.Error("mcp start_workout load", "template", templateID, "error", err)
			return mcp.NewToolResultError("loading template failed: " + err.Error()), nil
		}
		opts.WorkoutDayID = &templateID
		exercises = template.Expand(tmpl)
	} else {
		var err error
		exercises, err = h.adHocExercises(ctx, exerciseIDs)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := h.tracker.StartWithExercises(ctx, h.userID, exercises, opts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

// adHocExercises builds a working set from catalog exercise ids, resolving
// names against the exercise catalog.
func (h *handlers) adHocExercises(ctx context.Context, raw string) ([]*models.Exercise, error) {
	catalog, err := h.catalog.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading exercise catalog: %w", err)
	}
	names := make(map[int64]string, len(catalog))
	for _, e := range catalog {
		names[e.ID] = e.Name
	}

	var out []*models.Exercise
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("exercise id %q is not a number", part)
		}
		name, ok := names[id]
		if !ok {
			return nil, fmt.Errorf("exercise %d is not in the catalog", id)
		}
		out = append(out, &models.Exercise{
			ID:            uuid.New(),
			ExerciseID:    id,
			Name:          name,
			NextSetNumber: 1,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("exercise_ids is empty")
	}
	return out, nil
}

func (h *handlers) getWorkout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.snapshotResult()
}

func (h *handlers) logSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, res := requireUUID(req, "exercise_id")
	if res != nil {
		return res, nil
	}
	weight, err := req.RequireString("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireString("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	if _, err := h.tracker.RecordSet(exID, weight, reps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) editSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, res := requireUUID(req, "exercise_id")
	if res != nil {
		return res, nil
	}
	setID, res := requireUUID(req, "set_id")
	if res != nil {
		return res, nil
	}

	var weight, reps *string
	if v := req.GetString("weight", ""); v != "" {
		weight = &v
	}
	if v := req.GetString("reps", ""); v != "" {
		reps = &v
	}
	if weight == nil && reps == nil {
		return mcp.NewToolResultError("nothing to edit: provide weight and/or reps"), nil
	}

	if err := h.tracker.EditSet(exID, setID, weight, reps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) toggleSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, res := requireUUID(req, "exercise_id")
	if res != nil {
		return res, nil
	}
	setID, res := requireUUID(req, "set_id")
	if res != nil {
		return res, nil
	}

	if err := h.tracker.ToggleCompletion(exID, setID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) setExerciseNotes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exID, res := requireUUID(req, "exercise_id")
	if res != nil {
		return res, nil
	}
	notes, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError("notes parameter is required"), nil
	}

	if err := h.tracker.SetExerciseNotes(exID, notes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) finishWorkout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.tracker.Finish(req.GetString("notes", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) discardWorkout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.tracker.Discard(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func (h *handlers) reset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.tracker.Reset(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.snapshotResult()
}

func requireUUID(req mcp.CallToolRequest, param string) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString(param)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(param + " parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(param + " is not a valid id")
	}
	return id, nil
}

func (h *handlers) snapshotResult() (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.snapshotView())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
