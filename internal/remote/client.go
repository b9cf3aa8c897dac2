// Package remote is the HTTP client for the liftlog persistence API. It
// classifies every failure as retryable (network, 5xx, 429) or not (4xx), so
// the sync coordinator can decide whether to spend retry budget on it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/syncer"
)

// Error is a failed API call. Status is zero for transport-level failures.
type Error struct {
	Status int
	Path   string
	Msg    string
	err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.err)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Path, e.Status, e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

// StatusCode returns the HTTP status, zero for transport failures.
func (e *Error) StatusCode() int { return e.Status }

// Retryable reports whether the failure is worth retrying: transport errors
// and server-side failures are, validation rejections are not.
func (e *Error) Retryable() bool {
	return e.Status == 0 || e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// Client calls the liftlog server over HTTP. All methods are context-aware
// and safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: the client satisfies the coordinator's remote surface.
var _ syncer.Remote = (*Client)(nil)

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues a JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Path: path, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, Path: path, Msg: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A malformed body from the server is a server problem, so retryable.
		return &Error{Path: path, err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// Identity is the caller as resolved by the server.
type Identity struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
}

// Me resolves the caller's identity.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListExercises retrieves the exercise catalog.
func (c *Client) ListExercises(ctx context.Context) ([]models.ExerciseData, error) {
	var out []models.ExerciseData
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExercise adds a catalog exercise.
func (c *Client) CreateExercise(ctx context.Context, req models.CreateExerciseRequest) (*models.ExerciseData, error) {
	var out models.ExerciseData
	if err := c.do(ctx, http.MethodPost, "/api/v1/exercises", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWorkoutDays retrieves all workout days (templates included).
func (c *Client) ListWorkoutDays(ctx context.Context) ([]models.WorkoutDay, error) {
	var out []models.WorkoutDay
	if err := c.do(ctx, http.MethodGet, "/api/v1/days", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkoutDay retrieves a single workout day with its nested exercises.
func (c *Client) GetWorkoutDay(ctx context.Context, id int64) (*models.WorkoutDay, error) {
	var out models.WorkoutDay
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/days/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession creates a workout session and returns it with its assigned id.
func (c *Client) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.WorkoutSession, error) {
	var out models.WorkoutSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions retrieves the user's sessions.
func (c *Client) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitSetLog records one set against a session.
func (c *Client) SubmitSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error) {
	var out models.SetLog
	path := fmt.Sprintf("/api/v1/sessions/%d/sets", sessionID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSetLog amends an already-submitted set, keyed by its set number.
func (c *Client) UpdateSetLog(ctx context.Context, sessionID int64, req models.SubmitSetLogRequest) (*models.SetLog, error) {
	var out models.SetLog
	path := fmt.Sprintf("/api/v1/sessions/%d/sets/%d", sessionID, req.SetNumber)
	if err := c.do(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteSession marks a session finished, setting its end time.
func (c *Client) CompleteSession(ctx context.Context, sessionID int64, req models.CompleteSessionRequest) (*models.WorkoutSession, error) {
	var out models.WorkoutSession
	path := fmt.Sprintf("/api/v1/sessions/%d/complete", sessionID)
	if err := c.do(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
