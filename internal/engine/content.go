package engine

import "github.com/cinematch/engine/pkg/models"

// ContentScorer measures how well each candidate's metadata matches a user's
// preference profile. Pure computation: no I/O, no shared state.
type ContentScorer struct {
	features *FeatureBuilder
}

func NewContentScorer(features *FeatureBuilder) *ContentScorer {
	return &ContentScorer{features: features}
}

// Score returns the cosine affinity in [0,1] between the profile and each
// candidate. An empty profile scores everything 0; cosine over non-negative
// weights needs no further normalization.
func (s *ContentScorer) Score(profile PreferenceProfile, candidates []models.Movie) map[int64]float64 {
	scores := make(map[int64]float64, len(candidates))
	if len(profile) == 0 {
		return scores
	}

	for i := range candidates {
		vec := s.features.BuildItemFeatures(&candidates[i])
		if sim := Cosine(profile, vec); sim > 0 {
			scores[candidates[i].ID] = sim
		}
	}

	return scores
}
