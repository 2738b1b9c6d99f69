// Package exporter renders analysis results as files.
//
// Every result is a Table: a header row plus data rows, with a filename and
// a sheet name. Tables are written twice, as individual CSV files (the
// canonical outputs, overwritten on rerun) and as sheets of a single Excel
// workbook for researcher consumption. Numeric cells keep their rounded
// values verbatim; missing values become blank cells.
package exporter
