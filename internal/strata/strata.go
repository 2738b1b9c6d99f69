package strata

import (
	"strconv"

	"nhanescli/internal/dataset"
)

// Exposure category labels, ordered by amalgam burden.
const (
	ExposureNone   = "None"
	ExposureLow    = "Low"
	ExposureMedium = "Medium"
	ExposureHigh   = "High"
)

// ExposureLevels returns the ordinal exposure categories from lowest to
// highest burden.
func ExposureLevels() []string {
	return []string{ExposureNone, ExposureLow, ExposureMedium, ExposureHigh}
}

// Stratification variable names used in result tables.
const (
	VarGender   = "Gender"
	VarRace     = "Race"
	VarAgeGroup = "AgeGroup"
	VarSmoking  = "SmokingStatus"
	VarDrinking = "DrinkingStatus"
)

// AmalgamGroup maps a surface count to its ordinal exposure category.
// Thresholds are fixed: 0 surfaces is None, 1-5 Low, 6-10 Medium, above 10
// High. A missing count maps to a missing category, not to None.
func AmalgamGroup(surfaces float64) string {
	switch {
	case dataset.Missing(surfaces):
		return ""
	case surfaces == 0:
		return ExposureNone
	case surfaces <= 5:
		return ExposureLow
	case surfaces <= 10:
		return ExposureMedium
	default:
		return ExposureHigh
	}
}

var genderLabels = map[float64]string{
	1: "Male",
	2: "Female",
}

var raceLabels = map[float64]string{
	1: "Mexican American",
	2: "Other Hispanic",
	3: "Non-Hispanic White",
	4: "Non-Hispanic Black",
	5: "Other Race/Multi-Racial",
}

// GenderLabel maps the survey sex code to its label. An unrecognized code
// passes through as its numeric text so downstream grouping can still see
// and exclude it; a missing code maps to a missing label.
func GenderLabel(code float64) string {
	return lookupCode(genderLabels, code)
}

// RaceLabel maps the survey race/ethnicity code to its label, with the same
// passthrough rule as GenderLabel.
func RaceLabel(code float64) string {
	return lookupCode(raceLabels, code)
}

func lookupCode(labels map[float64]string, code float64) string {
	if dataset.Missing(code) {
		return ""
	}
	if label, ok := labels[code]; ok {
		return label
	}
	return strconv.FormatFloat(code, 'g', -1, 64)
}

// AgeGroup bins age in years into the study's fixed partition. Upper bounds
// are inclusive: 19 is "0–19", 20 is "20–39".
func AgeGroup(years float64) string {
	switch {
	case dataset.Missing(years):
		return ""
	case years <= 19:
		return "0–19"
	case years <= 39:
		return "20–39"
	case years <= 59:
		return "40–59"
	default:
		return "60+"
	}
}

// SmokingStatus classifies the smoking questionnaire codes: SMQ020 asks
// "smoked at least 100 cigarettes" (1 yes, 2 no), SMQ040 asks current use
// (1 every day, 2 some days, 3 not at all). Any other combination is missing.
func SmokingStatus(smq020, smq040 float64) string {
	if smq020 == 2 {
		return "Never smoker"
	}
	if smq020 == 1 {
		switch smq040 {
		case 1:
			return "Current daily smoker"
		case 2:
			return "Current non-daily smoker"
		case 3:
			return "Former smoker"
		}
	}
	return ""
}

// DrinkingStatus classifies the alcohol questionnaire codes: ALQ101 asks
// "at least 12 drinks in any one year" (1 yes, 2 no), ALQ120Q is drinking
// frequency over the past year.
func DrinkingStatus(alq101, alq120q float64) string {
	if alq101 == 2 {
		return "Lifetime Abstainer"
	}
	if alq101 == 1 {
		if alq120q == 0 {
			return "Former Drinker"
		}
		if !dataset.Missing(alq120q) && alq120q > 0 {
			return "Current Drinker"
		}
	}
	return ""
}

// Enrich fills every stratification label on the records in place.
func Enrich(records []dataset.Record) {
	for i := range records {
		rec := &records[i]
		rec.AmalgamGroup = AmalgamGroup(rec.AmalgamSurfaces)
		rec.Gender = GenderLabel(rec.SexCode)
		rec.Race = RaceLabel(rec.RaceCode)
		rec.AgeGroup = AgeGroup(rec.Age)
		rec.SmokingStatus = SmokingStatus(rec.SMQ020, rec.SMQ040)
		rec.DrinkingStatus = DrinkingStatus(rec.ALQ101, rec.ALQ120Q)
	}
}

// StratumValue returns a record's value for a stratification variable; the
// empty string means the record is excluded from that stratification.
func StratumValue(rec *dataset.Record, variable string) string {
	switch variable {
	case VarGender:
		return rec.Gender
	case VarRace:
		return rec.Race
	case VarAgeGroup:
		return rec.AgeGroup
	case VarSmoking:
		return rec.SmokingStatus
	case VarDrinking:
		return rec.DrinkingStatus
	}
	return ""
}
