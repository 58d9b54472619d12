package api

import "time"

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status     string    `json:"status"`      // converged | max_iterations | empty
	ComputedAt time.Time `json:"computed_at"` // zero until the first solve
	Iterations int       `json:"iterations"`
	MaxDelta   float64   `json:"max_delta"`
	Teams      int       `json:"teams"`
}

// RatingResponse is one team's entry in the ratings endpoints.
type RatingResponse struct {
	Team  string  `json:"team"`
	Off   float64 `json:"off"`
	Def   float64 `json:"def"`
	Net   float64 `json:"net"`
	Games int     `json:"games"`
}

// RecomputeResponse is the body of POST /api/v1/recompute.
type RecomputeResponse struct {
	Status     string  `json:"status"`
	Iterations int     `json:"iterations"`
	MaxDelta   float64 `json:"max_delta"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
