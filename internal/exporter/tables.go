package exporter

import (
	"nhanescli/internal/analysis"
	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/regression"
	"nhanescli/internal/survey"
)

// Table is one result table: a filename, a header row and data rows. The
// same cells feed both the CSV files and the workbook sheets.
type Table struct {
	// Name labels the workbook sheet.
	Name     string
	Filename string
	Headers  []string
	Rows     [][]string
}

// combinedColumns is the column order of the combined dataset export:
// identifiers, survey design, source measurements, derived values, labels.
var combinedColumns = []string{
	dataset.ColSEQN, "Cycle",
	dataset.ColAge, dataset.ColSex, dataset.ColRace,
	dataset.ColWeight, dataset.ColPSU, dataset.ColStrat,
	dataset.ColWBC, dataset.ColNeutroPct, dataset.ColLymphoPct,
	dataset.ColMonoPct, dataset.ColPlatelets,
	"amalgam_surfaces",
	"Neutro", "Lympho", "Mono",
	markers.NLR, markers.MLR, markers.PLR, markers.SII,
	markers.CRP, markers.BloodMercury,
	"Amalgam Group", "Gender", "Race", "AgeGroup",
	"SmokingStatus", "DrinkingStatus",
}

// CombinedTable renders every record of the merged multi-cycle dataset.
func CombinedTable(records []dataset.Record) Table {
	rows := make([][]string, len(records))
	for i := range records {
		rec := &records[i]
		rows[i] = []string{
			formatInt(rec.SEQN), rec.Cycle,
			formatValue(rec.Age), formatValue(rec.SexCode), formatValue(rec.RaceCode),
			formatValue(rec.Weight), formatValue(rec.PSU), formatValue(rec.Stratum),
			formatValue(rec.WBC), formatValue(rec.NeutroPct), formatValue(rec.LymphoPct),
			formatValue(rec.MonoPct), formatValue(rec.Platelets),
			formatValue(rec.AmalgamSurfaces),
			formatValue(rec.Neutro), formatValue(rec.Lympho), formatValue(rec.Mono),
			formatValue(rec.NLR), formatValue(rec.MLR), formatValue(rec.PLR), formatValue(rec.SII),
			formatValue(rec.CRP), formatValue(rec.BloodMercury),
			rec.AmalgamGroup, rec.Gender, rec.Race, rec.AgeGroup,
			rec.SmokingStatus, rec.DrinkingStatus,
		}
	}
	return Table{
		Name:     "Combined Dataset",
		Filename: "combined_dataset.csv",
		Headers:  combinedColumns,
		Rows:     rows,
	}
}

// SummaryTable renders per-cycle weighted descriptive statistics.
func SummaryTable(summaries []analysis.SummaryRow) Table {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Cycle, s.Marker,
			formatValue(s.Mean), formatValue(s.SD),
			formatValue(s.CILow), formatValue(s.CIHigh),
			formatInt(s.N),
		}
	}
	return Table{
		Name:     "Summary Statistics",
		Filename: "summary_statistics.csv",
		Headers:  []string{"Cycle", "Marker", "Mean", "SD", "CI_Low", "CI_High", "Sample Size"},
		Rows:     rows,
	}
}

// TTestTable renders the demographically stratified exposure comparisons.
func TTestTable(results []analysis.TestResult) Table {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Cycle, r.Strata, r.Group, r.Marker, r.Comparison,
			formatInt(r.N1), formatInt(r.N2),
			formatValue(r.TStat), formatValue(r.PValue), formatBool(r.Significant),
		}
	}
	return Table{
		Name:     "T-Test Results",
		Filename: "ttest_results.csv",
		Headers: []string{
			"Cycle", "Strata", "Group", "Marker", "Comparison",
			"Group1 n", "Group2 n", "t-stat", "p-value", "Significant",
		},
		Rows: rows,
	}
}

// BehaviorSummaryTable renders descriptive statistics stratified by a
// behavioral status. statusHeader names the status column, e.g.
// "SmokingStatus"; prefix selects the output file, e.g. "smoking_desc_stat".
func BehaviorSummaryTable(summaries []analysis.BehaviorSummaryRow, statusHeader, prefix string) Table {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Cycle, s.Status, s.AmalgamGroup, s.Marker,
			formatValue(s.Mean), formatValue(s.SD),
			formatValue(s.CILow), formatValue(s.CIHigh),
			formatInt(s.N),
		}
	}
	return Table{
		Name:     statusHeader + " Descriptives",
		Filename: prefix + ".csv",
		Headers: []string{
			"Cycle", statusHeader, "Amalgam Group", "Marker",
			"Mean", "SD", "CI_Low", "CI_High", "Sample Size",
		},
		Rows: rows,
	}
}

// BehaviorTTestTable renders exposure comparisons stratified by a behavioral
// status rather than the demographic strata.
func BehaviorTTestTable(results []analysis.TestResult, statusHeader, prefix string) Table {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Cycle, r.Group, r.Marker, r.Comparison,
			formatInt(r.N1), formatInt(r.N2),
			formatValue(r.TStat), formatValue(r.PValue), formatBool(r.Significant),
		}
	}
	return Table{
		Name:     statusHeader + " T-Tests",
		Filename: prefix + ".csv",
		Headers: []string{
			"Cycle", statusHeader, "Marker", "Comparison",
			"Group1 n", "Group2 n", "t-stat", "p-value", "Significant",
		},
		Rows: rows,
	}
}

// BoxPlotTable renders the per-group five-number summaries.
func BoxPlotTable(rows []analysis.BoxPlotRow) Table {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Cycle, r.AmalgamGroup, r.Marker,
			formatValue(r.Min), formatValue(r.Q1), formatValue(r.Median),
			formatValue(r.Q3), formatValue(r.Max),
			formatInt(r.N),
		}
	}
	return Table{
		Name:     "Box Plot Summaries",
		Filename: "boxplot_summaries.csv",
		Headers: []string{
			"Cycle", "Amalgam Group", "Marker",
			"Min", "Q1", "Median", "Q3", "Max", "Sample Size",
		},
		Rows: out,
	}
}

// ModelTables renders one coefficient and one p-value table for a fitted
// model family. Columns are the union of terms across markers, in fit order;
// a marker missing a term leaves a blank cell. prefix selects the files,
// e.g. "cubic_spline" yields cubic_spline_coeffs.csv and
// cubic_spline_pvalues.csv.
func ModelTables(set regression.ModelSet, name, prefix string) []Table {
	terms := set.TermUnion()
	headers := append([]string{"Marker"}, terms...)

	coeffRows := make([][]string, len(set.Markers))
	pvalRows := make([][]string, len(set.Markers))
	for i, marker := range set.Markers {
		res := set.Results[marker]
		coeffs := make([]string, 1, len(headers))
		pvals := make([]string, 1, len(headers))
		coeffs[0] = marker
		pvals[0] = marker
		for _, term := range terms {
			if v, ok := res.Coefficients[term]; ok {
				coeffs = append(coeffs, formatValue(v))
				pvals = append(pvals, formatValue(res.PValues[term]))
			} else {
				coeffs = append(coeffs, "")
				pvals = append(pvals, "")
			}
		}
		coeffRows[i] = coeffs
		pvalRows[i] = pvals
	}

	return []Table{
		{
			Name:     name + " Coefficients",
			Filename: prefix + "_coeffs.csv",
			Headers:  headers,
			Rows:     coeffRows,
		},
		{
			Name:     name + " P-Values",
			Filename: prefix + "_pvalues.csv",
			Headers:  headers,
			Rows:     pvalRows,
		},
	}
}

// WaldTable renders the design-based term-significance tests.
func WaldTable(results []survey.WaldResult) Table {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Cycle, r.Marker, r.Term,
			formatValue(r.F), formatValue(r.PValue),
		}
	}
	return Table{
		Name:     "Survey Wald Tests",
		Filename: "survey_wald_tests.csv",
		Headers:  []string{"Cycle", "Marker", "Term", "F", "p-value"},
		Rows:     rows,
	}
}
