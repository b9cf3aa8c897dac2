package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/template"
	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Catalog is the slice of the persistence API needed to resolve ad-hoc
// exercise ids. Implemented by *remote.Client.
type Catalog interface {
	ListExercises(ctx context.Context) ([]models.ExerciseData, error)
}

// New creates an MCP server exposing the workout session lifecycle as tools.
// All state lives in the tracker; tools are thin adapters that translate tool
// calls into intents and render the resulting snapshot.
func New(tracker *workout.Tracker, loader *template.Loader, catalog Catalog, userID int64, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracker. Start a workout from a template, log sets as you train, and finish to persist the session. Exercise and set ids come from get_workout."),
	)

	h := &handlers{tracker: tracker, loader: loader, catalog: catalog, userID: userID, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.startWorkout},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolEditSet, Handler: h.editSet},
		server.ServerTool{Tool: toolToggleSet, Handler: h.toggleSet},
		server.ServerTool{Tool: toolSetExerciseNotes, Handler: h.setExerciseNotes},
		server.ServerTool{Tool: toolFinishWorkout, Handler: h.finishWorkout},
		server.ServerTool{Tool: toolDiscardWorkout, Handler: h.discardWorkout},
		server.ServerTool{Tool: toolReset, Handler: h.reset},
	)

	s.AddResources(
		server.ServerResource{Resource: resActiveWorkout, Handler: h.activeWorkout},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	tracker *workout.Tracker
	loader  *template.Loader
	catalog Catalog
	userID  int64
	log     *slog.Logger
}

var resActiveWorkout = mcp.NewResource(
	"liftlog://active_workout",
	"Active Workout",
	mcp.WithResourceDescription("Current session phase and working set, including per-set completion and sync status"),
	mcp.WithMIMEType("application/json"),
)
