package dataset

import (
	"fmt"
	"math"
)

// Table is a columnar numeric table decoded from one source file. A missing
// cell is IEEE NaN; see Missing.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

// NewTable creates an empty table with the given column names. Duplicate
// column names keep the first position.
func NewTable(columns []string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	return t
}

// AppendRow adds one row. The value slice must match the column count.
func (t *Table) AppendRow(values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]float64, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the cell at (row, column), or NaN when the column does not
// exist. Absent columns behave like all-missing columns so that callers do
// not need to special-case historical files lacking a field.
func (t *Table) Value(row int, column string) float64 {
	i, ok := t.index[column]
	if !ok {
		return math.NaN()
	}
	return t.rows[row][i]
}

// Column returns a copy of the named column, or nil when absent.
func (t *Table) Column(name string) []float64 {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// Missing reports whether v is the missing-value marker.
func Missing(v float64) bool { return math.IsNaN(v) }
