package survey

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/regression"
	"nhanescli/internal/stats"
)

// WaldResult is one design-based term-significance test: a covariate block
// tested within one cycle's fit of one marker.
type WaldResult struct {
	Cycle  string
	Marker string
	Term   string
	F      float64
	PValue float64
}

// block groups the design columns belonging to one covariate of interest.
type block struct {
	name    string
	columns []int
}

// Run fits a weighted linear model per (cycle, marker) honoring the survey's
// primary-sampling-unit and stratum design variables, and Wald-tests each
// covariate block. Cycles with a collapsed factor level, a degenerate design
// or a failed fit are skipped with a logged reason and never abort the
// remaining cycles.
func Run(records []dataset.Record) []WaldResult {
	var results []WaldResult
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, marker := range markers.All() {
			rows, err := cycleTests(cycleRecs, cycle, marker)
			if err != nil {
				slog.Info("survey-design test skipped",
					slog.String("cycle", cycle),
					slog.String("marker", marker),
					slog.String("reason", err.Error()))
				continue
			}
			results = append(results, rows...)
		}
	}
	return results
}

// caseRow is one complete observation within a cycle.
type caseRow struct {
	y       float64
	weight  float64
	psu     float64
	stratum float64
	x       []float64
}

func cycleTests(records []dataset.Record, cycle, marker string) ([]WaldResult, error) {
	cases, terms, blocks, err := assemble(records, marker)
	if err != nil {
		return nil, err
	}

	n := len(cases)
	p := len(terms)
	if n <= p {
		return nil, fmt.Errorf("insufficient observations: n=%d p=%d", n, p)
	}

	beta, bread, err := weightedFit(cases, p)
	if err != nil {
		return nil, err
	}

	cov, df, err := clusterVariance(cases, beta, bread)
	if err != nil {
		return nil, err
	}
	var results []WaldResult
	for _, b := range blocks {
		f, err := waldF(beta, cov, b.columns)
		if err != nil {
			return nil, fmt.Errorf("wald test for %s: %w", b.name, err)
		}
		dist := distuv.F{D1: float64(len(b.columns)), D2: df}
		results = append(results, WaldResult{
			Cycle:  cycle,
			Marker: marker,
			Term:   b.name,
			F:      stats.Round3(f),
			PValue: stats.Round5(1 - dist.CDF(f)),
		})
	}
	return results, nil
}

// assemble extracts complete cases and builds the design columns: intercept,
// exposure count, age, female, race dummies. Each covariate of interest must
// carry at least two distinct levels within the cycle.
func assemble(records []dataset.Record, marker string) ([]caseRow, []string, []block, error) {
	type complete struct {
		rec *dataset.Record
		y   float64
	}
	var eligible []complete
	sexes := map[float64]bool{}
	races := map[int]bool{}
	for i := range records {
		rec := &records[i]
		y := markers.Value(rec, marker)
		if dataset.Missing(y) || dataset.Missing(rec.AmalgamSurfaces) ||
			dataset.Missing(rec.Age) || dataset.Missing(rec.SexCode) || dataset.Missing(rec.RaceCode) ||
			dataset.Missing(rec.Weight) || dataset.Missing(rec.PSU) || dataset.Missing(rec.Stratum) {
			continue
		}
		eligible = append(eligible, complete{rec: rec, y: y})
		sexes[rec.SexCode] = true
		races[int(rec.RaceCode)] = true
	}
	if len(eligible) == 0 {
		return nil, nil, nil, fmt.Errorf("no complete cases")
	}
	if len(sexes) < 2 {
		return nil, nil, nil, fmt.Errorf("sex has a single level")
	}
	if len(races) < 2 {
		return nil, nil, nil, fmt.Errorf("race has a single level")
	}

	raceCodes := make([]int, 0, len(races))
	for code := range races {
		raceCodes = append(raceCodes, code)
	}
	sort.Ints(raceCodes)
	raceDummies := raceCodes[1:]

	terms := []string{regression.TermConst, regression.TermSurfaces, regression.TermAge, regression.TermFemale}
	blocks := []block{
		{name: regression.TermSurfaces, columns: []int{1}},
		{name: regression.TermAge, columns: []int{2}},
		{name: regression.TermFemale, columns: []int{3}},
	}
	var raceCols []int
	for _, code := range raceDummies {
		raceCols = append(raceCols, len(terms))
		terms = append(terms, "race_"+strconv.Itoa(code))
	}
	blocks = append(blocks, block{name: "race", columns: raceCols})

	cases := make([]caseRow, len(eligible))
	for i, e := range eligible {
		x := make([]float64, len(terms))
		x[0] = 1
		x[1] = e.rec.AmalgamSurfaces
		x[2] = e.rec.Age
		if e.rec.SexCode == 2 {
			x[3] = 1
		}
		for j, code := range raceDummies {
			if int(e.rec.RaceCode) == code {
				x[4+j] = 1
			}
		}
		cases[i] = caseRow{
			y:       e.y,
			weight:  e.rec.Weight,
			psu:     e.rec.PSU,
			stratum: e.rec.Stratum,
			x:       x,
		}
	}
	return cases, terms, blocks, nil
}

// weightedFit solves the survey-weighted normal equations and returns the
// coefficient vector with the inverted bread matrix (X'WX)^-1.
func weightedFit(cases []caseRow, p int) (*mat.VecDense, *mat.Dense, error) {
	xtwx := mat.NewDense(p, p, nil)
	xtwy := mat.NewVecDense(p, nil)
	for _, c := range cases {
		for j := 0; j < p; j++ {
			xtwy.SetVec(j, xtwy.AtVec(j)+c.weight*c.x[j]*c.y)
			for k := 0; k < p; k++ {
				xtwx.Set(j, k, xtwx.At(j, k)+c.weight*c.x[j]*c.x[k])
			}
		}
	}

	var bread mat.Dense
	if err := bread.Inverse(xtwx); err != nil {
		return nil, nil, fmt.Errorf("design matrix is singular: %w", err)
	}
	beta := mat.NewVecDense(p, nil)
	beta.MulVec(&bread, xtwy)
	return beta, &bread, nil
}

// clusterVariance computes the Taylor-linearized sandwich variance with
// clusters defined by primary sampling unit nested in stratum, and returns
// it with the design degrees of freedom (#clusters - #strata).
func clusterVariance(cases []caseRow, beta *mat.VecDense, bread *mat.Dense) (*mat.Dense, float64, error) {
	p := beta.Len()

	// Score totals per (stratum, PSU) cluster.
	type clusterKey struct{ stratum, psu float64 }
	clusterScores := make(map[clusterKey][]float64)
	strataClusters := make(map[float64][]clusterKey)
	for _, c := range cases {
		resid := c.y
		for j := 0; j < p; j++ {
			resid -= c.x[j] * beta.AtVec(j)
		}
		key := clusterKey{stratum: c.stratum, psu: c.psu}
		score, ok := clusterScores[key]
		if !ok {
			score = make([]float64, p)
			clusterScores[key] = score
			strataClusters[c.stratum] = append(strataClusters[c.stratum], key)
		}
		for j := 0; j < p; j++ {
			score[j] += c.weight * c.x[j] * resid
		}
	}

	nClusters := len(clusterScores)
	nStrata := len(strataClusters)
	df := float64(nClusters - nStrata)
	if df <= 0 {
		return nil, 0, fmt.Errorf("degenerate design: %d clusters in %d strata", nClusters, nStrata)
	}

	// Between-cluster score variance, centered within stratum. Strata are
	// visited in sorted order so accumulation is reproducible.
	strata := make([]float64, 0, nStrata)
	for s := range strataClusters {
		strata = append(strata, s)
	}
	sort.Float64s(strata)

	meat := mat.NewDense(p, p, nil)
	for _, s := range strata {
		keys := strataClusters[s]
		nh := float64(len(keys))
		if nh < 2 {
			// A single-PSU stratum contributes no variance; centering its one
			// score at the stratum mean zeroes it out.
			continue
		}
		mean := make([]float64, p)
		for _, key := range keys {
			for j, v := range clusterScores[key] {
				mean[j] += v / nh
			}
		}
		scale := nh / (nh - 1)
		for _, key := range keys {
			score := clusterScores[key]
			for j := 0; j < p; j++ {
				dj := score[j] - mean[j]
				for k := 0; k < p; k++ {
					dk := score[k] - mean[k]
					meat.Set(j, k, meat.At(j, k)+scale*dj*dk)
				}
			}
		}
	}

	var tmp, cov mat.Dense
	tmp.Mul(bread, meat)
	cov.Mul(&tmp, bread)
	return &cov, df, nil
}

// waldF computes the Wald statistic for the hypothesis that every
// coefficient in the block is zero, scaled to an F statistic.
func waldF(beta *mat.VecDense, cov *mat.Dense, columns []int) (float64, error) {
	q := len(columns)
	sub := mat.NewDense(q, q, nil)
	b := mat.NewVecDense(q, nil)
	for i, ci := range columns {
		b.SetVec(i, beta.AtVec(ci))
		for j, cj := range columns {
			sub.Set(i, j, cov.At(ci, cj))
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(sub); err != nil {
		return 0, fmt.Errorf("block covariance is singular: %w", err)
	}
	var tmp mat.VecDense
	tmp.MulVec(&inv, b)
	stat := mat.Dot(b, &tmp) / float64(q)
	if math.IsNaN(stat) || stat < 0 {
		return 0, fmt.Errorf("non-finite wald statistic")
	}
	return stat, nil
}

func orderedCycles(records []dataset.Record) []string {
	seen := make(map[string]bool)
	var cycles []string
	for i := range records {
		if c := records[i].Cycle; !seen[c] {
			seen[c] = true
			cycles = append(cycles, c)
		}
	}
	return cycles
}

func filterCycle(records []dataset.Record, cycle string) []dataset.Record {
	var out []dataset.Record
	for i := range records {
		if records[i].Cycle == cycle {
			out = append(out, records[i])
		}
	}
	return out
}
