package strata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nhanescli/internal/dataset"
)

func TestAmalgamGroup(t *testing.T) {
	tests := []struct {
		name     string
		surfaces float64
		want     string
	}{
		{"missing", math.NaN(), ""},
		{"zero", 0, ExposureNone},
		{"one", 1, ExposureLow},
		{"five is still low", 5, ExposureLow},
		{"six is medium", 6, ExposureMedium},
		{"ten is still medium", 10, ExposureMedium},
		{"eleven is high", 11, ExposureHigh},
		{"large", 128, ExposureHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmalgamGroup(tt.surfaces))
		})
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "0–19"},
		{19, "0–19"},
		{20, "20–39"},
		{39, "20–39"},
		{40, "40–59"},
		{59, "40–59"},
		{60, "60+"},
		{95, "60+"},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroup(tt.years), "age %v", tt.years)
	}
}

func TestCodeLabels(t *testing.T) {
	assert.Equal(t, "Male", GenderLabel(1))
	assert.Equal(t, "Female", GenderLabel(2))
	assert.Equal(t, "", GenderLabel(math.NaN()))
	// Unrecognized codes pass through unchanged; downstream comparisons that
	// need a known label will simply never match them.
	assert.Equal(t, "7", GenderLabel(7))

	assert.Equal(t, "Non-Hispanic White", RaceLabel(3))
	assert.Equal(t, "Other Race/Multi-Racial", RaceLabel(5))
	assert.Equal(t, "6", RaceLabel(6))
	assert.Equal(t, "", RaceLabel(math.NaN()))
}

func TestSmokingStatus(t *testing.T) {
	tests := []struct {
		name           string
		smq020, smq040 float64
		want           string
	}{
		{"never", 2, math.NaN(), "Never smoker"},
		{"current daily", 1, 1, "Current daily smoker"},
		{"current non-daily", 1, 2, "Current non-daily smoker"},
		{"former", 1, 3, "Former smoker"},
		{"ever smoker with missing current use", 1, math.NaN(), ""},
		{"refused code", 7, math.NaN(), ""},
		{"all missing", math.NaN(), math.NaN(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SmokingStatus(tt.smq020, tt.smq040))
		})
	}
}

func TestDrinkingStatus(t *testing.T) {
	tests := []struct {
		name             string
		alq101, alq120q  float64
		want             string
	}{
		{"abstainer", 2, math.NaN(), "Lifetime Abstainer"},
		{"former", 1, 0, "Former Drinker"},
		{"current", 1, 12, "Current Drinker"},
		{"drinker with missing frequency", 1, math.NaN(), ""},
		{"all missing", math.NaN(), math.NaN(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DrinkingStatus(tt.alq101, tt.alq120q))
		})
	}
}

func TestEnrich(t *testing.T) {
	records := []dataset.Record{{
		AmalgamSurfaces: 7,
		SexCode:         2,
		RaceCode:        4,
		Age:             33,
		SMQ020:          2,
		ALQ101:          1,
		ALQ120Q:         4,
	}}
	Enrich(records)
	rec := records[0]

	assert.Equal(t, ExposureMedium, rec.AmalgamGroup)
	assert.Equal(t, "Female", rec.Gender)
	assert.Equal(t, "Non-Hispanic Black", rec.Race)
	assert.Equal(t, "20–39", rec.AgeGroup)
	assert.Equal(t, "Never smoker", rec.SmokingStatus)
	assert.Equal(t, "Current Drinker", rec.DrinkingStatus)

	assert.Equal(t, "Female", StratumValue(&rec, VarGender))
	assert.Equal(t, "Non-Hispanic Black", StratumValue(&rec, VarRace))
	assert.Equal(t, "20–39", StratumValue(&rec, VarAgeGroup))
	assert.Equal(t, "", StratumValue(&rec, "NoSuchVariable"))
}
