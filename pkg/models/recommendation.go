package models

import "time"

// ScoredMovie is a single ranked candidate produced by one of the scoring
// stages.
type ScoredMovie struct {
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"score"`
	Algorithm string  `json:"algorithm"`
}

// RecommendationResponse is the envelope returned by the HTTP layer for
// personalized recommendations.
type RecommendationResponse struct {
	UserID      string    `json:"user_id,omitempty"`
	Movies      []Movie   `json:"movies"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SimilarMoviesResponse is the envelope for the similar-items endpoint.
type SimilarMoviesResponse struct {
	MovieID     int64     `json:"movie_id"`
	Movies      []Movie   `json:"movies"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}
