package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitResult holds the estimated coefficients and p-values of one fitted
// model, keyed by term name. Term sets vary with the categorical levels
// present in the data, so consumers must treat the maps as the source of
// truth rather than assuming a fixed shape.
type FitResult struct {
	Terms        []string
	Coefficients map[string]float64
	PValues      map[string]float64
	N            int
}

// FitOLS fits ordinary least squares and computes two-sided t-test p-values
// for every coefficient. The design must have more rows than terms and a
// non-singular normal matrix; anything else is a non-estimability error the
// caller skips.
func FitOLS(d *Design) (*FitResult, error) {
	n, p := d.Dims()
	if n <= p {
		return nil, fmt.Errorf("ols needs more observations than terms: n=%d p=%d", n, p)
	}

	x := d.Matrix()
	y := mat.NewVecDense(n, d.Y)

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, fmt.Errorf("solve least squares: %w", err)
	}

	// Residual variance on n-p degrees of freedom.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := d.Y[i] - fitted.AtVec(i)
		rss += r * r
	}
	df := float64(n - p)
	sigma2 := rss / df

	var xtx, cov mat.Dense
	xtx.Mul(x.T(), x)
	if err := cov.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("invert normal matrix: %w", err)
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res := &FitResult{
		Terms:        d.TermNames(),
		Coefficients: make(map[string]float64, p),
		PValues:      make(map[string]float64, p),
		N:            n,
	}
	for j, term := range res.Terms {
		b := beta.AtVec(j)
		se := math.Sqrt(sigma2 * cov.At(j, j))
		res.Coefficients[term] = b
		if se == 0 {
			res.PValues[term] = math.NaN()
			continue
		}
		t := b / se
		res.PValues[term] = 2 * dist.CDF(-math.Abs(t))
	}
	return res, nil
}
