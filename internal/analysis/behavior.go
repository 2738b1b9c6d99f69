package analysis

import (
	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/stats"
	"nhanescli/internal/strata"
)

// BehaviorSummaryRow is one weighted description of a marker within a
// (cycle, behavioral status, exposure group) cell.
type BehaviorSummaryRow struct {
	Cycle        string
	Status       string
	AmalgamGroup string
	Marker       string
	stats.Summary
}

// BehaviorSummaries computes weighted descriptive statistics stratified by a
// behavioral status variable (smoking or drinking) and exposure group.
// Subjects with a missing status are excluded; empty cells produce no row.
func BehaviorSummaries(records []dataset.Record, variable string) []BehaviorSummaryRow {
	var rows []BehaviorSummaryRow
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, status := range stratumValues(cycleRecs, variable) {
			statusRecs := filterStratum(cycleRecs, variable, status)
			for _, group := range exposureGroupsPresent(statusRecs) {
				groupRecs := filterExposure(statusRecs, group)
				for _, marker := range markers.All() {
					values, weights := weightedPairs(groupRecs, marker)
					summary, ok := stats.Weighted(values, weights)
					if !ok {
						continue
					}
					rows = append(rows, BehaviorSummaryRow{
						Cycle:        cycle,
						Status:       status,
						AmalgamGroup: group,
						Marker:       marker,
						Summary:      summary,
					})
				}
			}
		}
	}
	return rows
}

// RunBehaviorTTests runs the canonical exposure comparisons stratified by a
// behavioral status variable instead of the demographic strata.
func RunBehaviorTTests(records []dataset.Record, variable string) []TestResult {
	var results []TestResult
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, status := range stratumValues(cycleRecs, variable) {
			sub := filterStratum(cycleRecs, variable, status)
			results = append(results, compareGroups(sub, cycle, variable, status)...)
		}
	}
	return results
}

// exposureGroupsPresent returns the ordinal exposure levels, restricted to
// those the subset actually contains so that empty cells are skipped without
// emitting placeholder rows.
func exposureGroupsPresent(records []dataset.Record) []string {
	present := make(map[string]bool)
	for i := range records {
		if g := records[i].AmalgamGroup; g != "" {
			present[g] = true
		}
	}
	// Alphabetical, matching the sorted grouping order used elsewhere.
	var out []string
	for _, level := range []string{
		strata.ExposureHigh, strata.ExposureLow, strata.ExposureMedium, strata.ExposureNone,
	} {
		if present[level] {
			out = append(out, level)
		}
	}
	return out
}
