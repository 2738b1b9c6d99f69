package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	logisticMaxIter = 25
	logisticTol     = 1e-8
	// weightFloor keeps the working weights away from zero when fitted
	// probabilities saturate.
	weightFloor = 1e-10
)

// FitLogistic fits a binary logistic regression by iteratively reweighted
// least squares and computes Wald z-test p-values. The outcome slice must be
// 0/1. Failure to converge within the iteration limit is an error; the
// caller records the model as absent rather than failing the run.
func FitLogistic(d *Design) (*FitResult, error) {
	n, p := d.Dims()
	if n <= p {
		return nil, fmt.Errorf("logistic needs more observations than terms: n=%d p=%d", n, p)
	}
	for _, v := range d.Y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("logistic outcome must be 0 or 1, got %v", v)
		}
	}

	x := d.Matrix()
	beta := mat.NewVecDense(p, nil)
	eta := mat.NewVecDense(n, nil)
	w := make([]float64, n)
	z := mat.NewVecDense(n, nil)

	converged := false
	var xtwx mat.Dense
	for iter := 0; iter < logisticMaxIter; iter++ {
		eta.MulVec(x, beta)
		for i := 0; i < n; i++ {
			mu := sigmoid(eta.AtVec(i))
			wi := mu * (1 - mu)
			if wi < weightFloor {
				wi = weightFloor
			}
			w[i] = wi
			z.SetVec(i, eta.AtVec(i)+(d.Y[i]-mu)/wi)
		}

		// Weighted normal equations: (X'WX) beta = X'Wz.
		xtw := weightedTranspose(x, w)
		xtwx.Mul(xtw, x)
		var xtwz mat.VecDense
		xtwz.MulVec(xtw, z)

		next := mat.NewVecDense(p, nil)
		if err := next.SolveVec(&xtwx, &xtwz); err != nil {
			return nil, fmt.Errorf("solve weighted normal equations: %w", err)
		}

		delta := 0.0
		for j := 0; j < p; j++ {
			if d := math.Abs(next.AtVec(j) - beta.AtVec(j)); d > delta {
				delta = d
			}
		}
		beta.CopyVec(next)
		if delta < logisticTol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("logistic fit did not converge in %d iterations", logisticMaxIter)
	}

	var cov mat.Dense
	if err := cov.Inverse(&xtwx); err != nil {
		return nil, fmt.Errorf("invert information matrix: %w", err)
	}

	normal := distuv.UnitNormal
	res := &FitResult{
		Terms:        d.TermNames(),
		Coefficients: make(map[string]float64, p),
		PValues:      make(map[string]float64, p),
		N:            n,
	}
	for j, term := range res.Terms {
		b := beta.AtVec(j)
		se := math.Sqrt(cov.At(j, j))
		res.Coefficients[term] = b
		if se == 0 || math.IsNaN(se) {
			res.PValues[term] = math.NaN()
			continue
		}
		res.PValues[term] = 2 * normal.CDF(-math.Abs(b/se))
	}
	return res, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// weightedTranspose returns X' with each column i scaled by w[i].
func weightedTranspose(x *mat.Dense, w []float64) *mat.Dense {
	n, p := x.Dims()
	out := mat.NewDense(p, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			out.Set(j, i, x.At(i, j)*w[i])
		}
	}
	return out
}
