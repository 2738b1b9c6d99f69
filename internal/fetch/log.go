package fetch

import (
	"encoding/csv"
	"fmt"
	"os"

	"nhanescli/internal/exporter"
	"nhanescli/internal/registry"
)

// LogFilename is the retrieval manifest consumed by the behavioral analyses.
const LogFilename = "download_log.csv"

var logHeaders = []string{"Cycle", "Label", "Filename", "Status"}

// LogTable renders the download log as a result table.
func LogTable(entries []LogEntry) exporter.Table {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Cycle, e.Label, e.Filename, e.Status}
	}
	return exporter.Table{
		Name:     "Download Log",
		Filename: LogFilename,
		Headers:  logHeaders,
		Rows:     rows,
	}
}

// ReadLog parses a download log written by a prior run.
func ReadLog(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[h] = i
	}
	for _, h := range logHeaders {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("log %s is missing column %q", path, h)
		}
	}

	entries := make([]LogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, LogEntry{
			Cycle:    row[col["Cycle"]],
			Label:    row[col["Label"]],
			Filename: row[col["Filename"]],
			Status:   row[col["Status"]],
		})
	}
	return entries, nil
}

// CyclesWithComplete returns the cycles whose log records a successful
// retrieval for every one of the given labels. A missing log means nothing
// is known to have failed, so every registered cycle qualifies.
func CyclesWithComplete(logPath string, labels ...string) map[string]bool {
	cycles := make(map[string]bool)

	entries, err := ReadLog(logPath)
	if err != nil {
		for _, c := range registry.Cycles() {
			cycles[string(c)] = true
		}
		return cycles
	}

	succeeded := make(map[string]map[string]bool)
	for _, e := range entries {
		if succeeded[e.Cycle] == nil {
			succeeded[e.Cycle] = make(map[string]bool)
		}
		if e.Status == StatusSuccess {
			succeeded[e.Cycle][e.Label] = true
		}
	}
	for cycle, ok := range succeeded {
		complete := true
		for _, label := range labels {
			if !ok[label] {
				complete = false
				break
			}
		}
		if complete {
			cycles[cycle] = true
		}
	}
	return cycles
}
