package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// snapshotView renders the tracker snapshot as plain JSON-friendly data. The
// same shape backs the get_workout tool and the active_workout resource.
func (h *handlers) snapshotView() map[string]any {
	phase, session := h.tracker.Snapshot()

	view := map[string]any{
		"phase":   phase.String(),
		"session": nil,
	}
	if serr := h.tracker.LastSyncError(); serr != nil {
		view["syncError"] = map[string]any{
			"op":        string(serr.Op),
			"retryable": serr.Retryable,
			"error":     serr.Err.Error(),
		}
	}
	if session == nil {
		return view
	}

	exercises := make([]map[string]any, 0, len(session.Exercises))
	for _, ex := range session.Exercises {
		exercises = append(exercises, exerciseView(ex))
	}

	sv := map[string]any{
		"localId":   session.LocalID.String(),
		"startTime": session.StartTime,
		"notes":     session.Notes,
		"location":  session.Location,
		"exercises": exercises,
	}
	if session.RemoteID != 0 {
		sv["remoteId"] = session.RemoteID
	}
	if session.WorkoutDayID != nil {
		sv["templateId"] = *session.WorkoutDayID
	}
	if session.BodyWeight != nil {
		sv["bodyWeight"] = *session.BodyWeight
	}
	if session.EndTime != nil {
		sv["endTime"] = *session.EndTime
	}
	view["session"] = sv
	return view
}

func exerciseView(ex *models.Exercise) map[string]any {
	sets := make([]map[string]any, 0, len(ex.Sets))
	for _, s := range ex.Sets {
		set := map[string]any{
			"id":        s.ID.String(),
			"weight":    s.Weight,
			"reps":      s.Reps,
			"completed": s.Completed,
			"synced":    s.Synced,
		}
		if s.SetNumber > 0 {
			set["setNumber"] = s.SetNumber
		}
		sets = append(sets, set)
	}
	return map[string]any{
		"id":         ex.ID.String(),
		"exerciseId": ex.ExerciseID,
		"name":       ex.Name,
		"notes":      ex.Notes,
		"complete":   ex.Complete(),
		"sets":       sets,
	}
}

func (h *handlers) activeWorkout(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.snapshotView())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
