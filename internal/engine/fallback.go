package engine

import (
	"sort"

	"github.com/cinematch/engine/pkg/models"
)

// The fallback ranking deliberately depends on nothing but catalog metadata,
// so it still works when the rating dataset is empty or unreadable.

// preferredGenres collects the distinct genre ids across a set of liked
// movies.
func preferredGenres(liked []models.Movie) map[int64]struct{} {
	genres := make(map[int64]struct{})
	for i := range liked {
		for _, g := range liked[i].GenreIDs {
			genres[g] = struct{}{}
		}
	}
	return genres
}

// rankByGenreOverlap orders candidates by how many preferred genres they
// share, breaking ties by popularity then aggregate rating. Candidate order
// is otherwise preserved, keeping the result deterministic.
func rankByGenreOverlap(candidates []models.Movie, preferred map[int64]struct{}, limit int) []models.Movie {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]models.Movie, len(candidates))
	copy(ranked, candidates)

	overlap := func(m *models.Movie) int {
		count := 0
		for _, g := range m.GenreIDs {
			if _, ok := preferred[g]; ok {
				count++
			}
		}
		return count
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := overlap(&ranked[i]), overlap(&ranked[j])
		if oi != oj {
			return oi > oj
		}
		if ranked[i].ViewCount != ranked[j].ViewCount {
			return ranked[i].ViewCount > ranked[j].ViewCount
		}
		return aggregateRating(&ranked[i]) > aggregateRating(&ranked[j])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// rankByPopularity orders candidates by view count then aggregate rating.
// This is the terminal degradation path and the cold-start answer.
func rankByPopularity(candidates []models.Movie, limit int) []models.Movie {
	return rankByGenreOverlap(candidates, nil, limit)
}

func aggregateRating(m *models.Movie) float64 {
	if m.AvgRating == nil {
		return 0
	}
	return *m.AvgRating
}
