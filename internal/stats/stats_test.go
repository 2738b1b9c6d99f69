package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedUniformEqualsUnweighted(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	weights := []float64{5, 5, 5, 5}

	s, ok := Weighted(values, weights)
	require.True(t, ok)

	// Uniform weights reduce to the arithmetic mean and population SD.
	assert.Equal(t, 5.0, s.Mean)
	sd := math.Sqrt(5.0) // population variance of {2,4,6,8} is 5
	assert.Equal(t, Round3(sd), s.SD)
	assert.Equal(t, 4, s.N)

	// CI half-width is 1.96 * sd / sqrt(n) with the unweighted n.
	half := 1.96 * sd / 2
	assert.InDelta(t, half, (s.CIHigh-s.CILow)/2, 1e-3)
	assert.Equal(t, Round3(5-half), s.CILow)
	assert.Equal(t, Round3(5+half), s.CIHigh)
}

func TestWeightedUnequalWeights(t *testing.T) {
	s, ok := Weighted([]float64{0, 10}, []float64{1, 3})
	require.True(t, ok)
	assert.Equal(t, 7.5, s.Mean)
	// Weighted variance: (1*7.5^2 + 3*2.5^2) / 4 = 18.75
	assert.Equal(t, Round3(math.Sqrt(18.75)), s.SD)
}

func TestWeightedFallback(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
	}{
		{"all zero weights", []float64{0, 0, 0}},
		{"length mismatch", []float64{1, 2}},
		{"non-finite weight sum", []float64{1, math.NaN(), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Weighted([]float64{1, 2, 3}, tt.weights)
			require.True(t, ok, "degenerate weighting falls back, it does not fail")
			assert.Equal(t, 2.0, s.Mean)
			assert.Equal(t, Round3(math.Sqrt(2.0/3.0)), s.SD)
		})
	}
}

func TestWeightedEmptyInput(t *testing.T) {
	_, ok := Weighted(nil, nil)
	assert.False(t, ok, "an empty group produces no summary row")
}

func TestWelchTShiftDetected(t *testing.T) {
	// Two clearly separated samples must come out significant.
	a := []float64{1.0, 1.1, 0.9, 1.2, 0.8, 1.0, 1.1, 0.9, 1.05, 0.95}
	b := []float64{3.0, 3.1, 2.9, 3.2, 2.8, 3.0, 3.1, 2.9, 3.05, 2.95}

	tstat, p, err := WelchT(a, b)
	require.NoError(t, err)
	assert.Less(t, tstat, 0.0)
	assert.Less(t, p, 0.001)
}

func TestWelchTNoShift(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tstat, p, err := WelchT(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tstat)
	assert.InDelta(t, 1.0, p, 1e-12)
}

func TestWelchTSymmetry(t *testing.T) {
	a := []float64{1.2, 0.8, 1.5, 0.9, 1.1}
	b := []float64{2.0, 2.4, 1.9, 2.2, 2.1}
	t1, p1, err := WelchT(a, b)
	require.NoError(t, err)
	t2, p2, err := WelchT(b, a)
	require.NoError(t, err)
	assert.InDelta(t, -t2, t1, 1e-12)
	assert.InDelta(t, p2, p1, 1e-12)
}

func TestWelchTErrors(t *testing.T) {
	_, _, err := WelchT([]float64{1}, []float64{1, 2, 3})
	assert.Error(t, err)

	_, _, err = WelchT([]float64{2, 2, 2}, []float64{2, 2, 2})
	assert.Error(t, err)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.23456))
	assert.Equal(t, -1.235, Round3(-1.23456))
	assert.Equal(t, 0.00012, Round5(0.000123))
	assert.True(t, math.IsNaN(Round3(math.NaN())))
}
