package exporter

import (
	"math"
	"strconv"
)

// formatValue renders a numeric cell. Missing values become empty cells so
// spreadsheet tools treat them as blanks rather than text.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
