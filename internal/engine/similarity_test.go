package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	a := map[int64]float64{1: 5, 2: 4, 3: 2}
	b := map[int64]float64{1: 5, 2: 4, 3: 2}

	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestCosine_Symmetry(t *testing.T) {
	a := map[int64]float64{1: 3, 2: 1, 5: 4}
	b := map[int64]float64{2: 5, 5: 2, 9: 1}

	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
}

func TestCosine_DisjointKeys(t *testing.T) {
	a := map[int64]float64{1: 5}
	b := map[int64]float64{2: 5}

	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosine_ZeroNorm(t *testing.T) {
	a := map[int64]float64{}
	b := map[int64]float64{1: 5}

	assert.Equal(t, 0.0, Cosine(a, b))
	assert.Equal(t, 0.0, Cosine(b, a))
	assert.Equal(t, 0.0, Cosine(a, a))
}

func TestCosine_KnownValue(t *testing.T) {
	a := map[string]float64{"x": 1, "y": 0}
	b := map[string]float64{"x": 1, "y": 1}

	// cos(45 degrees)
	assert.InDelta(t, 0.7071067811865475, Cosine(a, b), 1e-12)
}

func TestCosine_FeatureKeySpace(t *testing.T) {
	a := map[FeatureKey]float64{GenreKey(1): 1, ContentTypeKey("feature"): 1}
	b := map[FeatureKey]float64{GenreKey(1): 1, ContentTypeKey("series"): 1}

	assert.InDelta(t, 0.5, Cosine(a, b), 1e-12)
}
