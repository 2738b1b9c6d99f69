package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhanescli/internal/dataset"
)

// studyRecord builds one complete record for model fitting.
func studyRecord(cycle string, nlr, surfaces, age, sex, race float64) dataset.Record {
	return dataset.Record{
		Cycle:           cycle,
		NLR:             nlr,
		MLR:             math.NaN(),
		PLR:             math.NaN(),
		SII:             math.NaN(),
		CRP:             math.NaN(),
		BloodMercury:    math.NaN(),
		AmalgamSurfaces: surfaces,
		Age:             age,
		SexCode:         sex,
		RaceCode:        race,
	}
}

// studyCohort spreads records over four cycles with varied covariates and an
// NLR pattern that is never separable by any single covariate.
func studyCohort() []dataset.Record {
	// Six distinct cycle years keep the spline-plus-intercept design full
	// rank.
	cycles := []string{"1999-2000", "2003-2004", "2007-2008", "2009-2010", "2013-2014", "2015-2016"}
	var records []dataset.Record
	for i := 0; i < 48; i++ {
		cycle := cycles[i%6]
		nlr := 1.0 + 0.1*float64(i%7)
		// Covariate periods are deliberately decoupled from the cycle period
		// so no dummy column collapses into a function of time.
		surfaces := float64(i % 13)
		age := 20.0 + float64(i%5)*10
		sex := float64(1 + (i/6)%2)
		race := float64(1 + (i/4)%3*2) // codes 1, 3, 5
		records = append(records, studyRecord(cycle, nlr, surfaces, age, sex, race))
	}
	return records
}

func TestContinuousDesignTermsAndShape(t *testing.T) {
	records := studyCohort()
	d, err := ContinuousDesign(records, "NLR", VariantBase)
	require.NoError(t, err)

	n, p := d.Dims()
	assert.Equal(t, 48, n)
	want := []string{
		TermConst,
		"bs(time)[0]", "bs(time)[1]", "bs(time)[2]", "bs(time)[3]",
		TermSurfaces, TermAge, TermFemale,
		"race_3", "race_5", // race 1 is the reference level
	}
	assert.Equal(t, want, d.TermNames())
	assert.Equal(t, len(want), p)
}

func TestDesignDropsIncompleteRows(t *testing.T) {
	records := studyCohort()
	records[0].Age = math.NaN()
	records[1].RaceCode = math.NaN()
	records[2].AmalgamSurfaces = math.NaN()
	records[3].NLR = math.NaN()

	d, err := ContinuousDesign(records, "NLR", VariantBase)
	require.NoError(t, err)
	n, _ := d.Dims()
	assert.Equal(t, 44, n, "every row missing a required field is dropped")
}

func TestDesignBehavioralVariant(t *testing.T) {
	records := studyCohort()
	statuses := []string{"Never smoker", "Former smoker", "Current daily smoker"}
	for i := range records {
		records[i].SmokingStatus = statuses[i%3]
	}
	records[5].SmokingStatus = "" // unclassified: dropped in the smoking variant

	d, err := DichotomizedDesign(records, "NLR", VariantSmoking)
	require.NoError(t, err)

	n, _ := d.Dims()
	assert.Equal(t, 47, n)
	terms := d.TermNames()
	// Sorted statuses: "Current daily smoker" is the reference level.
	assert.Contains(t, terms, "smoke_Former smoker")
	assert.Contains(t, terms, "smoke_Never smoker")
	assert.NotContains(t, terms, "smoke_Current daily smoker")
	assert.Contains(t, terms, TermTime)
}

func TestDichotomizedDesignMedianSplit(t *testing.T) {
	records := studyCohort()
	d, err := DichotomizedDesign(records, "NLR", VariantBase)
	require.NoError(t, err)

	ones := 0
	for _, v := range d.Y {
		require.Contains(t, []float64{0, 1}, v)
		if v == 1 {
			ones++
		}
	}
	// Strictly-greater-than-median split: values equal to the median land in
	// the zero class, so the one class can never be the majority.
	n, _ := d.Dims()
	assert.LessOrEqual(t, ones, n/2)
	assert.Greater(t, ones, 0)
}

func TestDesignNoCompleteCases(t *testing.T) {
	records := studyCohort()
	for i := range records {
		records[i].NLR = math.NaN()
	}
	_, err := ContinuousDesign(records, "NLR", VariantBase)
	assert.Error(t, err)
}

func TestFitModelsEndToEnd(t *testing.T) {
	records := studyCohort()

	cont := FitContinuousModels(records, VariantBase)
	require.Contains(t, cont.Markers, "NLR")
	assert.NotContains(t, cont.Markers, "CRP", "markers with no data are skipped, not errored")
	res := cont.Results["NLR"]
	assert.Contains(t, res.Terms, "bs(time)[3]")
	assert.Len(t, res.Coefficients, len(res.Terms))
	assert.Len(t, res.PValues, len(res.Terms))

	logit := FitDichotomizedModels(records, VariantBase)
	require.Contains(t, logit.Markers, "NLR")
	assert.Contains(t, logit.Results["NLR"].Terms, TermTime)

	union := cont.TermUnion()
	assert.Equal(t, res.Terms, union, "a single fitted marker contributes every column")
}
