package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/pkg/models"
)

// Recommender is the engine surface the HTTP layer depends on. Both methods
// degrade internally and always return a list.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) []models.Movie
	SimilarTo(ctx context.Context, movieID int64, limit int) []models.Movie
}

type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
}

func New(logger *logrus.Logger, ranker Recommender, healthChecks map[string]HealthCheck) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, healthChecks),
		Recommendation: NewRecommendationHandler(ranker, logger),
	}
}
