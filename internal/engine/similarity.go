package engine

import "math"

// Cosine computes cosine similarity between two sparse weighted vectors.
// Keys absent from one side are implicitly zero, so the dot product only
// needs the intersection while the norms cover each full vector. Returns 0
// when either norm is zero. The same primitive serves feature-space
// comparisons (FeatureKey keys) and rating-vector comparisons (movie-id
// keys).
func Cosine[K comparable](a, b map[K]float64) float64 {
	var dot, normA, normB float64

	for key, av := range a {
		normA += av * av
		if bv, ok := b[key]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
