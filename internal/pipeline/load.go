package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"nhanescli/internal/dataset"
	"nhanescli/internal/markers"
	"nhanescli/internal/registry"
	"nhanescli/internal/xpt"
)

// loadCycle decodes one cycle's source files into tables. The hematology,
// demographics and dental files are required; a cycle missing any of them is
// not loadable. The enrichment tables are attached when present and readable,
// and silently left nil otherwise.
func loadCycle(dataDir string, cycle registry.Cycle) (dataset.CycleTables, error) {
	files, ok := registry.Files(cycle)
	if !ok {
		return dataset.CycleTables{}, fmt.Errorf("cycle %s is not registered", cycle)
	}

	cbc, err := xpt.ReadFile(filepath.Join(dataDir, files.CBC))
	if err != nil {
		return dataset.CycleTables{}, fmt.Errorf("hematology table: %w", err)
	}
	demo, err := xpt.ReadFile(filepath.Join(dataDir, files.Demographics))
	if err != nil {
		return dataset.CycleTables{}, fmt.Errorf("demographics table: %w", err)
	}
	dental, err := xpt.ReadFile(filepath.Join(dataDir, files.Dental))
	if err != nil {
		return dataset.CycleTables{}, fmt.Errorf("dental table: %w", err)
	}

	ct := dataset.CycleTables{
		Cycle:           string(cycle),
		CBC:             cbc,
		Demographics:    demo,
		AmalgamSurfaces: markers.CountAmalgamSurfaces(dental),
		CRP:             loadOptional(dataDir, cycle, registry.LabelCRP, files.CRP),
		Mercury:         loadOptional(dataDir, cycle, registry.LabelMercury, files.Mercury),
		Smoking:         loadOptional(dataDir, cycle, registry.LabelSmoking, files.Smoking),
		Alcohol:         loadOptional(dataDir, cycle, registry.LabelAlcohol, files.Alcohol),
	}
	return ct, nil
}

// loadOptional reads an enrichment table, returning nil when the file is
// absent or unreadable so the corresponding record fields stay missing.
func loadOptional(dataDir string, cycle registry.Cycle, label, filename string) *dataset.Table {
	if filename == "" {
		return nil
	}
	t, err := xpt.ReadFile(filepath.Join(dataDir, filename))
	if err != nil {
		slog.Debug("optional table unavailable",
			slog.String("cycle", string(cycle)),
			slog.String("label", label),
			slog.Any("error", err))
		return nil
	}
	return t
}

// loadAll loads and merges every registered cycle, reporting how many cycles
// made it in. A cycle whose required files are missing or unreadable is
// skipped with a logged reason; the run continues with the remaining cycles.
func loadAll(dataDir string) (records []dataset.Record, loaded, skipped int) {
	for _, cycle := range registry.Cycles() {
		ct, err := loadCycle(dataDir, cycle)
		if err != nil {
			slog.Warn("cycle skipped",
				slog.String("cycle", string(cycle)),
				slog.Any("error", err))
			skipped++
			continue
		}
		recs := dataset.MergeCycle(ct)
		slog.Info("cycle loaded",
			slog.String("cycle", string(cycle)),
			slog.Int("subjects", len(recs)))
		records = append(records, recs...)
		loaded++
	}
	return records, loaded, skipped
}
