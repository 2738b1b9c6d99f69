package regression

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/registry"
)

// Variant selects the covariate set of a model: the base demographic set, or
// the extended sets adding a behavioral status.
type Variant int

const (
	VariantBase Variant = iota
	VariantSmoking
	VariantDrinking
)

func (v Variant) String() string {
	switch v {
	case VariantSmoking:
		return "smoking"
	case VariantDrinking:
		return "drinking"
	default:
		return "base"
	}
}

// Fixed term names shared by both model families.
const (
	TermConst    = "const"
	TermTime     = "time"
	TermSurfaces = "amalgam_surfaces"
	TermAge      = "RIDAGEYR"
	TermFemale   = "female"
)

// Design is a fully assembled model matrix with its outcome vector.
type Design struct {
	terms []string
	rows  [][]float64
	Y     []float64
}

// Dims returns observation and term counts.
func (d *Design) Dims() (n, p int) { return len(d.rows), len(d.terms) }

// TermNames returns the column names in matrix order.
func (d *Design) TermNames() []string {
	return append([]string(nil), d.terms...)
}

// Matrix materializes the design as a dense matrix.
func (d *Design) Matrix() *mat.Dense {
	n, p := d.Dims()
	x := mat.NewDense(n, p, nil)
	for i, row := range d.rows {
		x.SetRow(i, row)
	}
	return x
}

// obs is one complete-case observation for model fitting.
type obs struct {
	time    float64
	marker  float64
	surface float64
	age     float64
	female  float64
	race    float64
	status  string
}

// completeCases extracts the rows with every required field present. The
// behavioral status is required only for the extended variants.
func completeCases(records []dataset.Record, marker string, variant Variant) []obs {
	var out []obs
	for i := range records {
		rec := &records[i]
		year, err := registry.Cycle(rec.Cycle).StartYear()
		if err != nil {
			continue
		}
		m := markers.Value(rec, marker)
		if dataset.Missing(m) || dataset.Missing(rec.AmalgamSurfaces) ||
			dataset.Missing(rec.Age) || dataset.Missing(rec.SexCode) || dataset.Missing(rec.RaceCode) {
			continue
		}

		o := obs{
			time:    float64(year),
			marker:  m,
			surface: rec.AmalgamSurfaces,
			age:     rec.Age,
			race:    rec.RaceCode,
		}
		if rec.SexCode == 2 {
			o.female = 1
		}
		switch variant {
		case VariantSmoking:
			if rec.SmokingStatus == "" {
				continue
			}
			o.status = rec.SmokingStatus
		case VariantDrinking:
			if rec.DrinkingStatus == "" {
				continue
			}
			o.status = rec.DrinkingStatus
		}
		out = append(out, o)
	}
	return out
}

// dummyLevels returns the distinct values in sorted order with the first
// (the reference category) dropped.
func dummyLevels[T int | string](values []T) []T {
	seen := make(map[T]bool)
	var distinct []T
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
	if len(distinct) <= 1 {
		return nil
	}
	return distinct[1:]
}

// covariateTerms builds the shared covariate columns (exposure, age, female,
// race dummies, optional behavioral dummies) for a complete-case sample.
func covariateTerms(cases []obs, variant Variant) (terms []string, columns func(o obs) []float64) {
	raceCodes := make([]int, len(cases))
	statuses := make([]string, len(cases))
	for i, o := range cases {
		raceCodes[i] = int(o.race)
		statuses[i] = o.status
	}
	raceDummies := dummyLevels(raceCodes)

	var statusDummies []string
	var statusPrefix string
	switch variant {
	case VariantSmoking:
		statusDummies = dummyLevels(statuses)
		statusPrefix = "smoke_"
	case VariantDrinking:
		statusDummies = dummyLevels(statuses)
		statusPrefix = "drink_"
	}

	terms = []string{TermSurfaces, TermAge, TermFemale}
	for _, code := range raceDummies {
		terms = append(terms, "race_"+strconv.Itoa(code))
	}
	for _, s := range statusDummies {
		terms = append(terms, statusPrefix+s)
	}

	columns = func(o obs) []float64 {
		row := []float64{o.surface, o.age, o.female}
		for _, code := range raceDummies {
			if int(o.race) == code {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		for _, s := range statusDummies {
			if o.status == s {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		return row
	}
	return terms, columns
}

// ContinuousDesign builds the spline-in-time OLS design for a marker: an
// intercept, the four-column cubic spline basis of the cycle start year, and
// the covariate set. Rows with any missing required field are dropped.
func ContinuousDesign(records []dataset.Record, marker string, variant Variant) (*Design, error) {
	cases := completeCases(records, marker, variant)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no complete cases for marker %s", marker)
	}

	times := make([]float64, len(cases))
	for i, o := range cases {
		times[i] = o.time
	}
	basis, err := SplineBasis(times)
	if err != nil {
		return nil, fmt.Errorf("time spline for marker %s: %w", marker, err)
	}

	covTerms, covColumns := covariateTerms(cases, variant)
	d := &Design{terms: append(append([]string{TermConst}, SplineTerms()...), covTerms...)}
	for i, o := range cases {
		row := append([]float64{1}, basis[i]...)
		row = append(row, covColumns(o)...)
		d.rows = append(d.rows, row)
		d.Y = append(d.Y, o.marker)
	}
	return d, nil
}

// DichotomizedDesign builds the logistic design for a marker: outcome 1 when
// the marker exceeds its own median within the fitted sample, regressors an
// intercept, linear time and the covariate set.
func DichotomizedDesign(records []dataset.Record, marker string, variant Variant) (*Design, error) {
	cases := completeCases(records, marker, variant)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no complete cases for marker %s", marker)
	}

	values := make([]float64, len(cases))
	for i, o := range cases {
		values[i] = o.marker
	}
	med := median(values)

	covTerms, covColumns := covariateTerms(cases, variant)
	d := &Design{terms: append([]string{TermConst, TermTime}, covTerms...)}
	for _, o := range cases {
		row := append([]float64{1, o.time}, covColumns(o)...)
		d.rows = append(d.rows, row)
		outcome := 0.0
		if o.marker > med {
			outcome = 1
		}
		d.Y = append(d.Y, outcome)
	}
	return d, nil
}
