package analysis

import (
	"log/slog"
	"sort"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/stats"
	"nhanescli/internal/strata"
)

// MinGroupSize is the smallest per-group sample a hypothesis test will run
// on. Combinations below the threshold are absent from the output by policy.
const MinGroupSize = 10

// SignificanceLevel is the alpha threshold for the significance flag.
const SignificanceLevel = 0.05

// SummaryRow is one survey-weighted description of a marker within a cycle.
type SummaryRow struct {
	Cycle  string
	Marker string
	stats.Summary
}

// TestResult is one Welch test outcome for a
// (cycle, stratum, exposure comparison, marker) combination.
type TestResult struct {
	Cycle       string
	Strata      string
	Group       string
	Marker      string
	Comparison  string
	N1          int
	N2          int
	TStat       float64
	PValue      float64
	Significant bool
}

// comparisons are the canonical exposure contrasts: the unexposed group
// against each exposed level. Never symmetric-duplicated, exposed levels are
// never compared against each other.
var comparisons = [][2]string{
	{strata.ExposureNone, strata.ExposureLow},
	{strata.ExposureNone, strata.ExposureMedium},
	{strata.ExposureNone, strata.ExposureHigh},
}

// demographicStrata are the stratification variables of the main t-test run.
var demographicStrata = []string{strata.VarGender, strata.VarRace, strata.VarAgeGroup}

// Summaries computes the per-cycle weighted descriptive statistics for the
// ratio markers. Subjects missing either the marker or the sampling weight
// are dropped pairwise; empty groups produce no row.
func Summaries(records []dataset.Record) []SummaryRow {
	var rows []SummaryRow
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, marker := range markers.Ratios() {
			values, weights := weightedPairs(cycleRecs, marker)
			summary, ok := stats.Weighted(values, weights)
			if !ok {
				continue
			}
			rows = append(rows, SummaryRow{Cycle: cycle, Marker: marker, Summary: summary})
		}
	}
	return rows
}

// RunTTests enumerates every cycle x stratification variable x stratum value
// x exposure comparison x marker combination and emits a result row for each
// one where both compared groups have at least MinGroupSize non-missing
// observations.
func RunTTests(records []dataset.Record) []TestResult {
	var results []TestResult
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, variable := range demographicStrata {
			for _, value := range stratumValues(cycleRecs, variable) {
				sub := filterStratum(cycleRecs, variable, value)
				results = append(results, compareGroups(sub, cycle, variable, value)...)
			}
		}
	}
	return results
}

// compareGroups runs the canonical exposure comparisons over one stratum
// subset, one marker at a time.
func compareGroups(sub []dataset.Record, cycle, variable, value string) []TestResult {
	var results []TestResult
	for _, pair := range comparisons {
		g1 := filterExposure(sub, pair[0])
		g2 := filterExposure(sub, pair[1])
		for _, marker := range markers.All() {
			v1 := markerValues(g1, marker)
			v2 := markerValues(g2, marker)
			if len(v1) < MinGroupSize || len(v2) < MinGroupSize {
				continue
			}
			tstat, p, err := stats.WelchT(v1, v2)
			if err != nil {
				slog.Debug("skipping non-estimable comparison",
					slog.String("cycle", cycle),
					slog.String("strata", variable),
					slog.String("group", value),
					slog.String("marker", marker),
					slog.Any("error", err))
				continue
			}
			results = append(results, TestResult{
				Cycle:       cycle,
				Strata:      variable,
				Group:       value,
				Marker:      marker,
				Comparison:  pair[0] + " vs " + pair[1],
				N1:          len(v1),
				N2:          len(v2),
				TStat:       stats.Round3(tstat),
				PValue:      stats.Round5(p),
				Significant: p < SignificanceLevel,
			})
		}
	}
	return results
}

// orderedCycles returns the distinct cycle labels in first-appearance order,
// which the merger guarantees is registry order.
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

// stratumValues returns the sorted distinct non-missing values of a
// stratification variable within the subset.
func stratumValues(records []dataset.Record, variable string) []string {
	seen := make(map[string]bool)
	for i := range records {
		if v := strata.StratumValue(&records[i], variable); v != "" {
			seen[v] = true
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
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

func filterStratum(records []dataset.Record, variable, value string) []dataset.Record {
	var out []dataset.Record
	for i := range records {
		if strata.StratumValue(&records[i], variable) == value {
			out = append(out, records[i])
		}
	}
	return out
}

func filterExposure(records []dataset.Record, group string) []dataset.Record {
	var out []dataset.Record
	for i := range records {
		if records[i].AmalgamGroup == group {
			out = append(out, records[i])
		}
	}
	return out
}

// markerValues collects the non-missing values of one marker.
func markerValues(records []dataset.Record, marker string) []float64 {
	var out []float64
	for i := range records {
		if v := markers.Value(&records[i], marker); !dataset.Missing(v) {
			out = append(out, v)
		}
	}
	return out
}

// weightedPairs drops subjects missing either the marker or the weight, the
// pairwise exclusion the weighted statistics require.
func weightedPairs(records []dataset.Record, marker string) (values, weights []float64) {
	for i := range records {
		v := markers.Value(&records[i], marker)
		w := records[i].Weight
		if dataset.Missing(v) || dataset.Missing(w) {
			continue
		}
		values = append(values, v)
		weights = append(weights, w)
	}
	return values, weights
}
