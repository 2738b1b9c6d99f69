// Package analysis runs the survey-weighted descriptive statistics and the
// stratified hypothesis-test battery over the combined subject dataset.
//
// Every grouping is enumerated deterministically: cycles in registry order,
// stratum values sorted, exposure comparisons in the fixed None-vs-exposed
// order. A combination that cannot be tested (too few observations, or a
// degenerate sample) is absent from the output rather than reported as an
// error row.
package analysis
