package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists result tables beneath a single output directory.
type Writer struct {
	outDir string
}

// New creates a writer rooted at outDir. The directory is created on first
// write, not here, so constructing a writer never touches the filesystem.
func New(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// WriteTable writes one table as CSV, replacing any file from a prior run.
func (w *Writer) WriteTable(t Table) error {
	fullPath := filepath.Join(w.outDir, t.Filename)

	slog.Info("writing result table",
		slog.String("file", t.Filename),
		slog.Int("rows", len(t.Rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if len(t.Headers) > 0 {
		if err := cw.Write(t.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// AppendRows appends rows to a CSV file, creating it with the header row
// first when it does not exist yet. Used for logs that accumulate across
// runs rather than being replaced.
func (w *Writer) AppendRows(filename string, headers []string, rows [][]string) error {
	fullPath := filepath.Join(w.outDir, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	_, statErr := os.Stat(fullPath)
	fresh := os.IsNotExist(statErr)

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if fresh && len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// WriteAll writes every table, stopping at the first failure.
func (w *Writer) WriteAll(tables []Table) error {
	for _, t := range tables {
		if err := w.WriteTable(t); err != nil {
			return fmt.Errorf("table %s: %w", t.Filename, err)
		}
	}
	return nil
}
