// Package xpt decodes SAS transport (XPORT version 5) files, the fixed-format
// distribution format of the survey archive.
//
// Only the subset of the format the pipeline needs is implemented: a single
// dataset member per file, numeric and character variables, IBM hexadecimal
// floating point, and the standard missing-value sentinels. Character fields
// are coerced to numbers because every column the pipeline consumes is a
// numeric survey code or measurement.
package xpt
