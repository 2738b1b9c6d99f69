// Package dataset holds the subject-level data model: decoded source tables,
// the merged per-subject record, and the per-cycle join that produces it.
//
// Missing values are IEEE NaN end to end. Nothing in the pipeline substitutes
// zero for a missing value; consumers exclude missing cells instead.
package dataset
