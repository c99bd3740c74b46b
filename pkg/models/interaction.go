package models

import "time"

// SignalKind enumerates the implicit feedback the engine consumes.
type SignalKind string

const (
	SignalWatched  SignalKind = "watched"
	SignalFavorite SignalKind = "favorite"
)

// Rating is an explicit 1-5 score a user assigned to a movie. The upstream
// store enforces at most one row per (user, movie); the engine assumes that
// invariant holds.
type Rating struct {
	UserID  string `json:"user_id" db:"user_id"`
	MovieID int64  `json:"movie_id" db:"movie_id"`
	Score   int    `json:"score" db:"score" validate:"min=1,max=5"`
}

// Signal is an implicit preference flag. Repeated watches collapse to a
// single boolean per (user, movie).
type Signal struct {
	UserID  string     `json:"user_id" db:"user_id"`
	MovieID int64      `json:"movie_id" db:"movie_id"`
	Kind    SignalKind `json:"kind" db:"kind"`
}

// InteractionEvent is the message the surrounding application publishes
// whenever a user rates, watches or favorites a movie. The engine consumes
// it only to invalidate cached recommendations.
type InteractionEvent struct {
	UserID    string    `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Type      string    `json:"type"`
	Value     *float64  `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
