package regression

import (
	"fmt"
	"sort"
)

// splineDegree is the cubic B-spline degree of the time term.
const splineDegree = 3

// SplineDF is the degrees of freedom of the time spline: four basis columns
// with no intercept column in the basis.
const SplineDF = 4

// SplineTerms returns the basis column names in order.
func SplineTerms() []string {
	terms := make([]string, SplineDF)
	for i := range terms {
		terms[i] = fmt.Sprintf("bs(time)[%d]", i)
	}
	return terms
}

// SplineBasis evaluates the cubic B-spline basis of the time covariate at
// every input point: boundary knots at the data minimum and maximum, one
// interior knot at the median, and the leading basis function dropped so the
// basis carries no intercept. Returns one row of SplineDF values per input.
func SplineBasis(times []float64) ([][]float64, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("spline basis needs at least one observation")
	}
	lo, hi := times[0], times[0]
	for _, t := range times {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	if lo == hi {
		return nil, fmt.Errorf("time covariate is constant at %v", lo)
	}
	interior := median(times)

	// Boundary knots repeated degree+1 times, one interior knot: the full
	// basis has five functions and the first is dropped.
	knots := []float64{lo, lo, lo, lo, interior, hi, hi, hi, hi}

	rows := make([][]float64, len(times))
	for r, t := range times {
		row := make([]float64, SplineDF)
		for j := 0; j < SplineDF; j++ {
			row[j] = bspline(j+1, splineDegree, t, knots)
		}
		rows[r] = row
	}
	return rows, nil
}

// bspline evaluates the i-th B-spline basis function of the given degree via
// the Cox-de Boor recursion. The domain is closed on the right: the last
// basis function is 1 at the upper boundary knot.
func bspline(i, degree int, x float64, knots []float64) float64 {
	if degree == 0 {
		if knots[i] <= x && x < knots[i+1] {
			return 1
		}
		// Close the final non-empty interval at the right boundary.
		if x == knots[len(knots)-1] && knots[i] < knots[i+1] && knots[i+1] == x {
			return 1
		}
		return 0
	}

	var left, right float64
	if d := knots[i+degree] - knots[i]; d > 0 {
		left = (x - knots[i]) / d * bspline(i, degree-1, x, knots)
	}
	if d := knots[i+degree+1] - knots[i+1]; d > 0 {
		right = (knots[i+degree+1] - x) / d * bspline(i+1, degree-1, x, knots)
	}
	return left + right
}

// median returns the sample median without mutating the input.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
