package engine

import (
	"context"

	"github.com/cinematch/engine/pkg/models"
)

// The engine is a pure read-and-rank component: it consumes these stores and
// never writes through them. Implementations live in internal/store; tests
// substitute in-memory fakes.

// CatalogStore serves read-only movie metadata.
type CatalogStore interface {
	// GetMovie returns the movie or (nil, nil) when the id is unknown.
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)

	// ListMovies returns the catalog in stable id order, minus excludeIDs.
	ListMovies(ctx context.Context, excludeIDs []int64) ([]models.Movie, error)
}

// RatingStore serves explicit 1-5 ratings.
type RatingStore interface {
	ListRatings(ctx context.Context) ([]models.Rating, error)
	ListUserRatings(ctx context.Context, userID string) ([]models.Rating, error)
}

// SignalStore serves implicit watch/favorite flags.
type SignalStore interface {
	// ListUserSignals returns the distinct movie ids the user flagged with
	// the given kind.
	ListUserSignals(ctx context.Context, userID string, kind models.SignalKind) ([]int64, error)
}
