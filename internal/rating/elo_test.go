package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedSymmetry(t *testing.T) {
	pairs := [][2]float64{
		{1000, 1000},
		{1100, 1000},
		{1000, 1100},
		{1234.5, 876.25},
		{500, 2400},
	}
	for _, p := range pairs {
		sum := Expected(p[0], p[1]) + Expected(p[1], p[0])
		assert.InDelta(t, 1.0, sum, 1e-12, "expected(%v,%v) must be complementary", p[0], p[1])
	}
}

func TestExpectedEqualRatings(t *testing.T) {
	assert.Equal(t, 0.5, Expected(1000, 1000))
	assert.Equal(t, 0.5, Expected(1742.5, 1742.5))
}

func TestExpectedKnownValue(t *testing.T) {
	// 100 rating points of advantage is about a 64% favorite.
	got := Expected(1100, 1000)
	assert.InDelta(t, 0.64, got, 0.001)
}

func TestActualBounds(t *testing.T) {
	for diff := -20; diff <= 20; diff++ {
		for _, ceiling := range []int{6, 4, 3} {
			s := Actual(diff, ceiling)
			assert.GreaterOrEqual(t, s, 0.2, "Actual(%d, %d)", diff, ceiling)
			assert.LessOrEqual(t, s, 0.8, "Actual(%d, %d)", diff, ceiling)
		}
	}
}

func TestActualZeroMargin(t *testing.T) {
	assert.Equal(t, 0.5, Actual(0, 6))
	assert.Equal(t, 0.5, Actual(0, 3))
}

func TestActualMonotonicInMargin(t *testing.T) {
	prev := math.Inf(-1)
	for diff := -6; diff <= 6; diff++ {
		s := Actual(diff, 6)
		assert.Greater(t, s, prev, "Actual must strictly increase up to the clamp, diff=%d", diff)
		prev = s
	}
	// Beyond the ceiling the clamp flattens the curve.
	assert.Equal(t, Actual(6, 6), Actual(7, 6))
	assert.Equal(t, Actual(-6, 6), Actual(-9, 6))
}

func TestActualComplementary(t *testing.T) {
	for diff := -7; diff <= 7; diff++ {
		sum := Actual(diff, 6) + Actual(-diff, 6)
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestDeltaWorkedExample(t *testing.T) {
	// Equal teams, 6-3 to6: delta = 28 * 1.0 * (0.5 + 0.3*0.5 - 0.5) = 4.2.
	e := Expected(1000, 1000)
	s := Actual(3, 6)
	assert.InDelta(t, 4.2, Delta(e, s, 1.0), 1e-9)
}

func TestDeltaFormatWeight(t *testing.T) {
	e := Expected(1000, 1000)
	s := Actual(3, 6)
	full := Delta(e, s, 1.0)
	assert.InDelta(t, full*0.8, Delta(e, s, 0.8), 1e-12)
	assert.InDelta(t, full*0.7, Delta(e, s, 0.7), 1e-12)
}

func TestPredictScore(t *testing.T) {
	assert.InDelta(t, 3.0, PredictScore(0.5), 1e-12)
	assert.InDelta(t, 6.0, PredictScore(1.0), 1e-12)
	assert.InDelta(t, 0.0, PredictScore(0.0), 1e-12)
}
