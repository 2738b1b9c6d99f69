package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"nhanescli/internal/analysis"
	"nhanescli/internal/config"
	"nhanescli/internal/dataset"
	"nhanescli/internal/exporter"
	"nhanescli/internal/fetch"
	"nhanescli/internal/infrastructure"
	"nhanescli/internal/markers"
	"nhanescli/internal/registry"
	"nhanescli/internal/regression"
	"nhanescli/internal/strata"
	"nhanescli/internal/survey"
)

// Result summarizes one completed pipeline run.
type Result struct {
	RunID   string
	Records int
	Tables  int
}

// Run executes the full analysis: load and merge every available cycle,
// derive markers and strata, run the descriptive, comparative, regression
// and design-based analyses, and persist every result table. The context
// carries the run identifier; cancellation stops the run between stages.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	logger := infrastructure.LoggerWithContext(ctx)

	dataDir := cfg.ResolvedDataDir()
	outDir := cfg.ResolvedOutDir()
	logger.Info("pipeline starting",
		slog.String("data_dir", dataDir),
		slog.String("out_dir", outDir))

	started := time.Now().UTC()
	records, loaded, skipped := loadAll(dataDir)
	if len(records) == 0 {
		return nil, fmt.Errorf("no cycle could be loaded from %s", dataDir)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markers.Compute(records)
	strata.Enrich(records)
	gateBehavioralCycles(records, filepath.Join(outDir, fetch.LogFilename))

	tables := resultTables(ctx, records)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer := exporter.New(outDir)
	if err := writer.WriteAll(tables); err != nil {
		return nil, fmt.Errorf("persist results: %w", err)
	}
	// The CSVs are canonical; a workbook failure downgrades to a warning.
	if err := writer.WriteWorkbook(tables); err != nil {
		logger.Warn("workbook export failed", slog.Any("error", err))
	}

	res := &Result{
		RunID:   infrastructure.RunID(ctx),
		Records: len(records),
		Tables:  len(tables),
	}
	if err := appendRunLog(writer, res, started, loaded, skipped); err != nil {
		logger.Warn("failed to append run log", slog.Any("error", err))
	}

	logger.Info("pipeline finished",
		slog.Int("records", len(records)),
		slog.Int("tables", len(tables)))
	return res, nil
}

// runLogFilename accumulates one metadata row per completed run.
const runLogFilename = "run_log.csv"

var runLogHeaders = []string{
	"Run ID", "Started", "Finished", "Cycles Loaded", "Cycles Skipped", "Records",
}

func appendRunLog(writer *exporter.Writer, res *Result, started time.Time, loaded, skipped int) error {
	return writer.AppendRows(runLogFilename, runLogHeaders, [][]string{{
		res.RunID,
		started.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		strconv.Itoa(loaded),
		strconv.Itoa(skipped),
		strconv.Itoa(res.Records),
	}})
}

// resultTables runs every analysis stage over the combined dataset and
// collects the output tables in their canonical order.
func resultTables(ctx context.Context, records []dataset.Record) []exporter.Table {
	logger := infrastructure.LoggerWithContext(ctx)

	tables := []exporter.Table{
		exporter.CombinedTable(records),
		exporter.SummaryTable(analysis.Summaries(records)),
		exporter.TTestTable(analysis.RunTTests(records)),
		exporter.BoxPlotTable(analysis.BoxPlotSummaries(records)),
	}

	logger.Info("descriptive and comparative analyses done")

	tables = append(tables,
		exporter.BehaviorSummaryTable(
			analysis.BehaviorSummaries(records, strata.VarSmoking),
			strata.VarSmoking, "smoking_desc_stat"),
		exporter.BehaviorTTestTable(
			analysis.RunBehaviorTTests(records, strata.VarSmoking),
			strata.VarSmoking, "smoke_ttest"),
		exporter.BehaviorSummaryTable(
			analysis.BehaviorSummaries(records, strata.VarDrinking),
			strata.VarDrinking, "drinking_desc_stat"),
		exporter.BehaviorTTestTable(
			analysis.RunBehaviorTTests(records, strata.VarDrinking),
			strata.VarDrinking, "drink_ttest"),
	)

	families := []struct {
		variant regression.Variant
		name    string
		prefix  string
	}{
		{regression.VariantBase, "Cubic Spline", "cubic_spline"},
		{regression.VariantSmoking, "Smoking Cubic Spline", "smoke_cubic_spline"},
		{regression.VariantDrinking, "Drinking Cubic Spline", "drink_cubic_spline"},
	}
	for _, fam := range families {
		continuous := regression.FitContinuousModels(records, fam.variant)
		tables = append(tables, exporter.ModelTables(continuous, fam.name, fam.prefix)...)
	}

	logisticFamilies := []struct {
		variant regression.Variant
		name    string
		prefix  string
	}{
		{regression.VariantBase, "Logistic", "logistic"},
		{regression.VariantSmoking, "Smoking Logistic", "smoke_logistic"},
		{regression.VariantDrinking, "Drinking Logistic", "drink_logistic"},
	}
	for _, fam := range logisticFamilies {
		dichotomized := regression.FitDichotomizedModels(records, fam.variant)
		tables = append(tables, exporter.ModelTables(dichotomized, fam.name, fam.prefix)...)
	}

	logger.Info("regression models fitted")

	tables = append(tables, exporter.WaldTable(survey.Run(records)))
	logger.Info("design-based tests done")

	return tables
}

// gateBehavioralCycles blanks the behavioral status labels for cycles whose
// download log shows an incomplete file set, so those cycles drop out of the
// behavioral analyses while staying in everything else.
func gateBehavioralCycles(records []dataset.Record, logPath string) {
	base := []string{
		registry.LabelCBC, registry.LabelDemographics, registry.LabelDental,
		registry.LabelCRP, registry.LabelMercury,
	}
	smokingOK := fetch.CyclesWithComplete(logPath, append(base, registry.LabelSmoking)...)
	drinkingOK := fetch.CyclesWithComplete(logPath, append(base, registry.LabelAlcohol)...)

	for i := range records {
		if !smokingOK[records[i].Cycle] {
			records[i].SmokingStatus = ""
		}
		if !drinkingOK[records[i].Cycle] {
			records[i].DrinkingStatus = ""
		}
	}
}
