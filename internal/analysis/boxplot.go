package analysis

import (
	"math"
	"sort"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/stats"
)

// BoxPlotRow is the five-number summary the visualization collaborator draws
// from: one row per (cycle, exposure group, marker) with any observations.
type BoxPlotRow struct {
	Cycle        string
	AmalgamGroup string
	Marker       string
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	N            int
}

// BoxPlotSummaries computes per-group five-number summaries of the ratio
// markers over non-missing values. Groups with no valid observations are
// skipped.
func BoxPlotSummaries(records []dataset.Record) []BoxPlotRow {
	var rows []BoxPlotRow
	for _, cycle := range orderedCycles(records) {
		cycleRecs := filterCycle(records, cycle)
		for _, group := range exposureGroupsPresent(cycleRecs) {
			groupRecs := filterExposure(cycleRecs, group)
			for _, marker := range markers.Ratios() {
				values := markerValues(groupRecs, marker)
				if len(values) == 0 {
					continue
				}
				sort.Float64s(values)
				rows = append(rows, BoxPlotRow{
					Cycle:        cycle,
					AmalgamGroup: group,
					Marker:       marker,
					Min:          stats.Round3(values[0]),
					Q1:           stats.Round3(quantile(values, 0.25)),
					Median:       stats.Round3(quantile(values, 0.5)),
					Q3:           stats.Round3(quantile(values, 0.75)),
					Max:          stats.Round3(values[len(values)-1]),
					N:            len(values),
				})
			}
		}
	}
	return rows
}

// quantile linearly interpolates the p-quantile of sorted values, the same
// convention box plots use.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
