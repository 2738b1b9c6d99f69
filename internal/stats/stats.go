package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// zCritical95 is the two-sided 95% normal critical value used for the
// confidence interval half-width.
const zCritical95 = 1.96

// Summary holds a survey-weighted description of one marker within one group.
// All fields are rounded to three decimals at construction.
type Summary struct {
	Mean   float64
	SD     float64
	CILow  float64
	CIHigh float64
	N      int
}

// Weighted computes the survey-weighted mean, standard deviation and 95%
// confidence interval of values. Weights are normalized internally; the
// standard error uses the unweighted sample count. When the weighting is
// degenerate (length mismatch, or a zero or non-finite weight sum) the
// computation deliberately falls back to the unweighted mean and variance
// rather than failing: a misweighted estimate with a logged cause is more
// useful to the run than a hole in the table. Empty input yields ok=false
// and no summary.
func Weighted(values, weights []float64) (Summary, bool) {
	n := len(values)
	if n == 0 {
		return Summary{}, false
	}

	mean, variance, ok := weightedMoments(values, weights)
	if !ok {
		mean = stat.Mean(values, nil)
		variance = populationVariance(values, mean)
	}

	sd := math.Sqrt(variance)
	se := sd / math.Sqrt(float64(n))
	return Summary{
		Mean:   Round3(mean),
		SD:     Round3(sd),
		CILow:  Round3(mean - zCritical95*se),
		CIHigh: Round3(mean + zCritical95*se),
		N:      n,
	}, true
}

func weightedMoments(values, weights []float64) (mean, variance float64, ok bool) {
	if len(weights) != len(values) {
		return 0, 0, false
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, 0, false
	}
	mean = stat.Mean(values, weights)
	var acc float64
	for i, v := range values {
		d := v - mean
		acc += weights[i] * d * d
	}
	return mean, acc / sum, true
}

func populationVariance(values []float64, mean float64) float64 {
	var acc float64
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(values))
}

// WelchT runs the two-sample unequal-variance t-test and returns the test
// statistic and two-sided p-value. Degrees of freedom follow
// Welch-Satterthwaite. An error is returned when either sample is too small
// or both samples are constant.
func WelchT(a, b []float64) (tstat, p float64, err error) {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, fmt.Errorf("welch test needs at least two observations per group, got %d and %d", len(a), len(b))
	}

	ma := stat.Mean(a, nil)
	mb := stat.Mean(b, nil)
	va := stat.Variance(a, nil)
	vb := stat.Variance(b, nil)

	sa := va / na
	sb := vb / nb
	if sa+sb == 0 {
		return 0, 0, fmt.Errorf("welch test undefined for two constant samples")
	}

	tstat = (ma - mb) / math.Sqrt(sa+sb)
	df := (sa + sb) * (sa + sb) / (sa*sa/(na-1) + sb*sb/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(tstat))
	return tstat, p, nil
}

// Round3 rounds to three decimals, the precision of emitted statistics.
func Round3(v float64) float64 { return roundTo(v, 1e3) }

// Round5 rounds to five decimals, the precision of emitted p-values.
func Round5(v float64) float64 { return roundTo(v, 1e5) }

func roundTo(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*scale) / scale
}
