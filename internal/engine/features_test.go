package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/pkg/models"
)

func TestFeatureBuilder_BuildItemFeatures(t *testing.T) {
	b := NewFeatureBuilder(config.DefaultEngineConfig())

	t.Run("full metadata", func(t *testing.T) {
		m := &models.Movie{
			ID:          1,
			Title:       "Inception",
			Year:        2010,
			ContentType: models.ContentTypeFeature,
			GenreIDs:    []int64{7, 12},
			Director:    strPtr("Nolan"),
		}

		vec := b.BuildItemFeatures(m)

		assert.Equal(t, 1.0, vec[GenreKey(7)])
		assert.Equal(t, 1.0, vec[GenreKey(12)])
		assert.Equal(t, 1.0, vec[DirectorKey("nolan")], "director key must be case-folded")
		assert.Equal(t, 1.0, vec[ContentTypeKey(models.ContentTypeFeature)])
		assert.InDelta(t, 2010.0/2100.0, vec[yearAvgKey], 1e-12)
		assert.Len(t, vec, 5)
	})

	t.Run("missing attributes contribute no keys", func(t *testing.T) {
		m := &models.Movie{ID: 2, Title: "Untagged"}

		vec := b.BuildItemFeatures(m)

		assert.Empty(t, vec)
	})
}

func TestFeatureBuilder_BuildUserProfile(t *testing.T) {
	b := NewFeatureBuilder(config.DefaultEngineConfig())

	t.Run("empty liked set yields empty profile", func(t *testing.T) {
		profile := b.BuildUserProfile(nil, nil)
		assert.Empty(t, profile)
	})

	t.Run("family normalization", func(t *testing.T) {
		liked := []models.Movie{
			{ID: 1, GenreIDs: []int64{1, 2}, ContentType: models.ContentTypeFeature},
			{ID: 2, GenreIDs: []int64{1}, ContentType: models.ContentTypeFeature},
		}
		ratings := map[int64]int{1: 5, 2: 5}

		profile := b.BuildUserProfile(liked, ratings)

		// Genre 1 accumulated 2.0, genre 2 accumulated 1.0; after dividing
		// by the genre-family max the weights are 1.0 and 0.5.
		assert.InDelta(t, 1.0, profile[GenreKey(1)], 1e-12)
		assert.InDelta(t, 0.5, profile[GenreKey(2)], 1e-12)
		assert.InDelta(t, 1.0, profile[ContentTypeKey(models.ContentTypeFeature)], 1e-12)
	})

	t.Run("unrated liked movie uses implicit weight", func(t *testing.T) {
		liked := []models.Movie{
			{ID: 1, GenreIDs: []int64{1}},
			{ID: 2, GenreIDs: []int64{2}},
		}
		// Movie 1 rated 5/5 (weight 1.0), movie 2 watched only (weight 0.6).
		ratings := map[int64]int{1: 5}

		profile := b.BuildUserProfile(liked, ratings)

		assert.InDelta(t, 1.0, profile[GenreKey(1)], 1e-12)
		assert.InDelta(t, 0.6, profile[GenreKey(2)], 1e-12)
	})

	t.Run("year features", func(t *testing.T) {
		liked := []models.Movie{
			{ID: 1, Year: 1990, GenreIDs: []int64{1}},
			{ID: 2, Year: 2010, GenreIDs: []int64{1}},
		}

		profile := b.BuildUserProfile(liked, nil)

		assert.InDelta(t, 2000.0/2100.0, profile[yearAvgKey], 1e-12)
		assert.InDelta(t, 20.0/100.0, profile[yearRangeKey], 1e-12)
	})

	t.Run("director weights normalized independently of genres", func(t *testing.T) {
		liked := []models.Movie{
			{ID: 1, GenreIDs: []int64{1, 2, 3}, Director: strPtr("Villeneuve")},
			{ID: 2, GenreIDs: []int64{1}, Director: strPtr("VILLENEUVE")},
		}
		ratings := map[int64]int{1: 4, 2: 4}

		profile := b.BuildUserProfile(liked, ratings)

		require.Contains(t, profile, DirectorKey("villeneuve"))
		// Both rows fold to the same director key and it is the family max.
		assert.InDelta(t, 1.0, profile[DirectorKey("villeneuve")], 1e-12)
	})
}
