package models

import "time"

// ExerciseData is a catalog exercise as stored and served by the API.
type ExerciseData struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
}

// CreateExerciseRequest is the body of POST /api/v1/exercises.
type CreateExerciseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
}

// DayExercise is one planned exercise within a workout day, joined with its
// catalog entry.
type DayExercise struct {
	ID         int64        `json:"id"`
	ExerciseID int64        `json:"exerciseId"`
	Position   int          `json:"position"`
	TargetSets int          `json:"targetSets"`
	TargetReps string       `json:"targetReps"`
	Exercise   ExerciseData `json:"exercise"`
}

// WorkoutDay is a stored workout plan. Days with IsTemplate set are reusable
// templates offered to the session state machine.
type WorkoutDay struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	IsTemplate  bool          `json:"isTemplate"`
	Exercises   []DayExercise `json:"exercises"`
}

// CreateDayRequest is the body of POST /api/v1/days.
type CreateDayRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	IsTemplate  bool               `json:"isTemplate"`
	Exercises   []CreateDayExercise `json:"exercises"`
}

// CreateDayExercise is one planned exercise in a CreateDayRequest.
type CreateDayExercise struct {
	ExerciseID int64  `json:"exerciseId"`
	TargetSets int    `json:"targetSets"`
	TargetReps string `json:"targetReps"`
}

// WorkoutSession is a persisted session as served by the API.
type WorkoutSession struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	WorkoutDayID *int64     `json:"workoutDayId,omitempty"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	BodyWeight   *float64   `json:"bodyWeight,omitempty"`
	Location     string     `json:"location,omitempty"`
}

// CreateSessionRequest is the body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	UserID       int64     `json:"userId"`
	WorkoutDayID *int64    `json:"workoutDayId,omitempty"`
	StartTime    time.Time `json:"startTime"`
	BodyWeight   *float64  `json:"bodyWeight,omitempty"`
	Location     string    `json:"location,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// CompleteSessionRequest is the body of PUT /api/v1/sessions/{id}/complete.
type CompleteSessionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// SetLog is the persisted record of one set within a session, keyed by
// (session id, exercise id, set number).
type SetLog struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"sessionId"`
	ExerciseID  int64     `json:"exerciseId"`
	SetNumber   int       `json:"setNumber"`
	Reps        *int      `json:"reps,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	DurationSec *int      `json:"durationSec,omitempty"`
	Distance    *float64  `json:"distance,omitempty"`
	RestSec     *int      `json:"restSec,omitempty"`
	RPE         *float64  `json:"rpe,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubmitSetLogRequest is the body of POST /api/v1/sessions/{id}/sets and of
// PUT /api/v1/sessions/{id}/sets/{setNumber}.
type SubmitSetLogRequest struct {
	ExerciseID  int64    `json:"exerciseId"`
	SetNumber   int      `json:"setNumber"`
	Reps        *int     `json:"reps,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	DurationSec *int     `json:"durationSec,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
	RestSec     *int     `json:"restSec,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
