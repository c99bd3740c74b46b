package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/pkg/models"
)

// CollaborativeScorer predicts per-movie affinity from the ratings of users
// with similar taste. It builds the sparse user-item matrix fresh on every
// call; no state survives between requests.
type CollaborativeScorer struct {
	ratings RatingStore
	cfg     *config.EngineConfig
	logger  *logrus.Logger
}

func NewCollaborativeScorer(ratings RatingStore, cfg *config.EngineConfig, logger *logrus.Logger) *CollaborativeScorer {
	return &CollaborativeScorer{ratings: ratings, cfg: cfg, logger: logger}
}

type neighbor struct {
	userID     string
	similarity float64
	ratings    map[int64]float64
	mean       float64
}

// Score returns predicted scores in [0,1] for the candidates the user's
// neighbors have covered. Candidates without any covering neighbor rating
// get no entry. A target without explicit ratings yields an empty result;
// cold-start handling belongs to the hybrid ranker.
func (s *CollaborativeScorer) Score(
	ctx context.Context,
	userID string,
	targetRatings map[int64]float64,
	candidates []models.Movie,
) (map[int64]float64, error) {
	scores := make(map[int64]float64)
	if len(targetRatings) == 0 {
		return scores, nil
	}

	all, err := s.ratings.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating matrix: %w", err)
	}

	byUser := make(map[string]map[int64]float64)
	for _, r := range all {
		if r.UserID == userID {
			continue
		}
		vec, ok := byUser[r.UserID]
		if !ok {
			vec = make(map[int64]float64)
			byUser[r.UserID] = vec
		}
		// Last row wins should the upstream uniqueness invariant be violated.
		vec[r.MovieID] = float64(r.Score)
	}

	neighbors := s.findNeighbors(targetRatings, byUser)
	if len(neighbors) == 0 {
		s.logger.WithField("user_id", userID).Debug("No collaborative neighbors above similarity floor")
		return scores, nil
	}

	targetMean := ratingMean(targetRatings)

	for i := range candidates {
		movieID := candidates[i].ID

		var weightedSum, simMass float64
		for _, n := range neighbors {
			rating, ok := n.ratings[movieID]
			if !ok {
				continue
			}
			weightedSum += n.similarity * (rating - n.mean)
			simMass += math.Abs(n.similarity)
		}

		if simMass > 0 {
			predicted := targetMean + weightedSum/simMass
			predicted = math.Max(0, math.Min(5, predicted))
			scores[movieID] = predicted / 5.0
		}
	}

	return scores, nil
}

// findNeighbors ranks every other user by rating-vector cosine similarity,
// drops those at or below the noise floor and keeps the configured top N.
func (s *CollaborativeScorer) findNeighbors(
	targetRatings map[int64]float64,
	byUser map[string]map[int64]float64,
) []neighbor {
	neighbors := make([]neighbor, 0, len(byUser))

	for otherID, vec := range byUser {
		sim := Cosine(targetRatings, vec)
		if sim <= s.cfg.SimilarityFloor {
			continue
		}
		neighbors = append(neighbors, neighbor{
			userID:     otherID,
			similarity: sim,
			ratings:    vec,
			mean:       ratingMean(vec),
		})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if len(neighbors) > s.cfg.NeighborLimit {
		neighbors = neighbors[:s.cfg.NeighborLimit]
	}

	return neighbors
}

func ratingMean(ratings map[int64]float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	values := make([]float64, 0, len(ratings))
	for _, v := range ratings {
		values = append(values, v)
	}
	return stat.Mean(values, nil)
}
