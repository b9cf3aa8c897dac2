package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful to do.
		return
	}
}

// writeStoreError maps storage sentinels onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNoRow):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrDuplicateSet),
		errors.Is(err, storage.ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("store error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// mustUserID resolves the request identity to a user id, writing a 500 and
// returning false on failure.
func (s *Server) mustUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	info := userInfoFromContext(r)
	id, err := s.db.EnsureUser(r.Context(), info.Login, info.DisplayName)
	if err != nil {
		s.log.Error("resolving user", "login", info.Login, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return 0, false
	}
	return id, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info := userInfoFromContext(r)
	id, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"login":       info.Login,
		"displayName": info.DisplayName,
	})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if exercises == nil {
		exercises = []models.ExerciseData{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	ex, err := s.db.CreateExercise(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	days, err := s.db.ListWorkoutDays(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if days == nil {
		days = []models.WorkoutDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid day id", http.StatusBadRequest)
		return
	}
	day, err := s.db.GetWorkoutDay(r.Context(), id, uid)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	var req models.CreateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	day, err := s.db.CreateWorkoutDay(r.Context(), uid, req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	// The identity layer decides who the session belongs to, not the body.
	req.UserID = uid
	if req.StartTime.IsZero() {
		req.StartTime = time.Now().UTC()
	}
	sess, err := s.db.CreateSession(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	sessions, err := s.db.ListSessions(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	var req models.CompleteSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := s.db.CompleteSession(r.Context(), id, uid, req.Notes, time.Now().UTC())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSubmitSetLog(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	var req models.SubmitSetLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ExerciseID == 0 || req.SetNumber <= 0 {
		http.Error(w, "exerciseId and a positive setNumber are required", http.StatusBadRequest)
		return
	}
	if _, err := s.db.GetSession(r.Context(), id, uid); err != nil {
		s.writeStoreError(w, err)
		return
	}
	l, err := s.db.InsertSetLog(r.Context(), id, req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateSetLog(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	setNumber, err := pathID(r, "setNumber")
	if err != nil || setNumber <= 0 {
		http.Error(w, "invalid set number", http.StatusBadRequest)
		return
	}
	var req models.SubmitSetLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ExerciseID == 0 {
		http.Error(w, "exerciseId is required", http.StatusBadRequest)
		return
	}
	// The path wins over whatever the body carries.
	req.SetNumber = int(setNumber)
	if _, err := s.db.GetSession(r.Context(), id, uid); err != nil {
		s.writeStoreError(w, err)
		return
	}
	l, err := s.db.UpdateSetLog(r.Context(), id, req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListSetLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.mustUserID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	if _, err := s.db.GetSession(r.Context(), id, uid); err != nil {
		s.writeStoreError(w, err)
		return
	}
	logs, err := s.db.QuerySetLogs(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if logs == nil {
		logs = []models.SetLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
