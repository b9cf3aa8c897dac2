package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Store is the persistence surface the handlers need. Satisfied by
// *storage.DB; faked in tests.
type Store interface {
	EnsureUser(ctx context.Context, login, displayName string) (int64, error)

	ListExercises(ctx context.Context) ([]models.ExerciseData, error)
	CreateExercise(ctx context.Context, req models.CreateExerciseRequest) (*models.ExerciseData, error)

	ListWorkoutDays(ctx context.Context, userID int64) ([]models.WorkoutDay, error)
	GetWorkoutDay(ctx context.Context, dayID, userID int64) (*models.WorkoutDay, error)
	CreateWorkoutDay(ctx context.Context, userID int64, req models.CreateDayRequest) (*models.WorkoutDay, error)

	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.WorkoutSession, error)
	GetSession(ctx context.Context, sessionID, userID int64) (*models.WorkoutSession, error)
	ListSessions(ctx context.Context, userID int64) ([]models.WorkoutSession, error)
	CompleteSession(ctx context.Context, sessionID, userID int64, notes string, endTime time.Time) (*models.WorkoutSession, error)

	InsertSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error)
	UpdateSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error)
	QuerySetLogs(ctx context.Context, sessionID int64) ([]models.SetLog, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	log    *slog.Logger
	apiKey string
	lc     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables whois-based identity resolution on the tsnet listener.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/days", s.handleListDays)
		r.Get("/days/{id}", s.handleGetDay)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}/sets", s.handleListSetLogs)

		// Mutating routes require the API key.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/exercises", s.handleCreateExercise)
			r.Post("/days", s.handleCreateDay)
			r.Post("/sessions", s.handleCreateSession)
			r.Post("/sessions/{id}/sets", s.handleSubmitSetLog)
			r.Put("/sessions/{id}/sets/{setNumber}", s.handleUpdateSetLog)
			r.Put("/sessions/{id}/complete", s.handleCompleteSession)
		})
	})
}
