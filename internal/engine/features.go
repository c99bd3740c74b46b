package engine

import (
	"fmt"

	"golang.org/x/text/cases"
	"gonum.org/v1/gonum/stat"

	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/pkg/models"
)

// FeatureKind tags the family a feature key belongs to. Normalization runs
// per family, so keys from different families never compete for weight.
type FeatureKind uint8

const (
	FeatureGenre FeatureKind = iota + 1
	FeatureDirector
	FeatureContentType
	FeatureYearAvg
	FeatureYearRange
)

// FeatureKey identifies one dimension of the feature space. Exactly one of
// ID and Name is meaningful depending on Kind; the zero value of the other
// keeps the struct comparable and usable as a map key.
type FeatureKey struct {
	Kind FeatureKind
	ID   int64
	Name string
}

func GenreKey(id int64) FeatureKey {
	return FeatureKey{Kind: FeatureGenre, ID: id}
}

func DirectorKey(name string) FeatureKey {
	return FeatureKey{Kind: FeatureDirector, Name: cases.Fold().String(name)}
}

func ContentTypeKey(contentType string) FeatureKey {
	return FeatureKey{Kind: FeatureContentType, Name: contentType}
}

var (
	yearAvgKey   = FeatureKey{Kind: FeatureYearAvg}
	yearRangeKey = FeatureKey{Kind: FeatureYearRange}
)

func (k FeatureKey) String() string {
	switch k.Kind {
	case FeatureGenre:
		return fmt.Sprintf("genre:%d", k.ID)
	case FeatureDirector:
		return "director:" + k.Name
	case FeatureContentType:
		return "contentType:" + k.Name
	case FeatureYearAvg:
		return "year:avg"
	case FeatureYearRange:
		return "year:range"
	default:
		return "unknown"
	}
}

// FeatureVector describes a single movie in the feature space.
type FeatureVector map[FeatureKey]float64

// PreferenceProfile is the feature-space aggregate of a user's liked movies.
// Both types share one key space so they can be compared directly.
type PreferenceProfile map[FeatureKey]float64

// Release years are scaled onto roughly [0,1] so they do not dominate the
// presence-weighted keys; the range feature uses a coarser scale because
// liked sets rarely span more than a few decades.
const (
	yearScale      = 2100.0
	yearRangeScale = 100.0
)

// FeatureBuilder materializes feature vectors from catalog metadata and
// preference profiles from interaction history.
type FeatureBuilder struct {
	cfg *config.EngineConfig
}

func NewFeatureBuilder(cfg *config.EngineConfig) *FeatureBuilder {
	return &FeatureBuilder{cfg: cfg}
}

// BuildItemFeatures turns one movie's metadata into a feature vector.
// Missing attributes simply contribute no keys.
func (b *FeatureBuilder) BuildItemFeatures(m *models.Movie) FeatureVector {
	vec := make(FeatureVector, len(m.GenreIDs)+3)

	for _, genreID := range m.GenreIDs {
		vec[GenreKey(genreID)] = 1.0
	}
	if m.Director != nil && *m.Director != "" {
		vec[DirectorKey(*m.Director)] = 1.0
	}
	if m.Year > 0 {
		vec[yearAvgKey] = float64(m.Year) / yearScale
	}
	if m.ContentType != "" {
		vec[ContentTypeKey(m.ContentType)] = 1.0
	}

	return vec
}

// BuildUserProfile aggregates a user's liked movies into a preference
// profile. ratingsByMovie carries the user's explicit scores; liked movies
// without one contribute the configured implicit weight. A user with no
// liked movies yields an empty profile, which callers must treat as
// insufficient signal.
func (b *FeatureBuilder) BuildUserProfile(liked []models.Movie, ratingsByMovie map[int64]int) PreferenceProfile {
	if len(liked) == 0 {
		return PreferenceProfile{}
	}

	profile := make(PreferenceProfile)
	var years []float64

	for i := range liked {
		m := &liked[i]

		weight := b.cfg.ImplicitLikeWeight
		if score, ok := ratingsByMovie[m.ID]; ok {
			weight = float64(score) / 5.0
		}

		for _, genreID := range m.GenreIDs {
			profile[GenreKey(genreID)] += weight
		}
		if m.Director != nil && *m.Director != "" {
			profile[DirectorKey(*m.Director)] += weight
		}
		if m.ContentType != "" {
			profile[ContentTypeKey(m.ContentType)] += weight
		}
		if m.Year > 0 {
			years = append(years, float64(m.Year))
		}
	}

	normalizeFamilies(profile)

	if len(years) > 0 {
		minYear, maxYear := years[0], years[0]
		for _, y := range years {
			if y < minYear {
				minYear = y
			}
			if y > maxYear {
				maxYear = y
			}
		}
		profile[yearAvgKey] = stat.Mean(years, nil) / yearScale
		profile[yearRangeKey] = (maxYear - minYear) / yearRangeScale
	}

	return profile
}

// normalizeFamilies divides every accumulated weight by the maximum observed
// in its family, so each family's weights land in [0,1] regardless of how
// many liked movies fed it.
func normalizeFamilies(profile PreferenceProfile) {
	familyMax := make(map[FeatureKind]float64)
	for key, weight := range profile {
		if weight > familyMax[key.Kind] {
			familyMax[key.Kind] = weight
		}
	}

	for key, weight := range profile {
		if max := familyMax[key.Kind]; max > 0 {
			profile[key] = weight / max
		}
	}
}
