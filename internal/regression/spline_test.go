package regression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplineBasisShape(t *testing.T) {
	times := []float64{1999, 2001, 2003, 2005, 2007, 2009, 2011, 2013, 2015, 2017}
	basis, err := SplineBasis(times)
	require.NoError(t, err)
	require.Len(t, basis, len(times))
	for _, row := range basis {
		require.Len(t, row, SplineDF)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestSplineBasisBoundaries(t *testing.T) {
	times := []float64{1999, 2005, 2011, 2017}
	basis, err := SplineBasis(times)
	require.NoError(t, err)

	// At the lower boundary only the dropped basis function is active, so
	// every retained column is zero.
	for j, v := range basis[0] {
		assert.InDelta(t, 0.0, v, 1e-12, "column %d at lower boundary", j)
	}

	// At the upper boundary the last basis function carries all the mass.
	last := basis[len(basis)-1]
	assert.InDelta(t, 1.0, last[SplineDF-1], 1e-12)
	for j := 0; j < SplineDF-1; j++ {
		assert.InDelta(t, 0.0, last[j], 1e-12)
	}
}

func TestSplineBasisPartitionOfUnity(t *testing.T) {
	times := []float64{1999, 2001, 2003, 2007, 2009, 2013, 2017}
	basis, err := SplineBasis(times)
	require.NoError(t, err)

	lo := 1999.0
	interior := median(times)
	for i, x := range times {
		// The full five-function basis sums to one; the retained four sum to
		// one minus the dropped leading function.
		knots := []float64{lo, lo, lo, lo, interior, 2017, 2017, 2017, 2017}
		dropped := bspline(0, splineDegree, x, knots)
		sum := 0.0
		for _, v := range basis[i] {
			sum += v
		}
		assert.InDelta(t, 1.0-dropped, sum, 1e-12, "time %v", x)
	}
}

func TestSplineBasisConstantTime(t *testing.T) {
	_, err := SplineBasis([]float64{2005, 2005, 2005})
	assert.Error(t, err)

	_, err = SplineBasis(nil)
	assert.Error(t, err)
}

func TestSplineTerms(t *testing.T) {
	assert.Equal(t, []string{"bs(time)[0]", "bs(time)[1]", "bs(time)[2]", "bs(time)[3]"}, SplineTerms())
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
