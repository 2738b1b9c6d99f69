// Package pipeline orchestrates the end-to-end analysis run: decoding the
// per-cycle archive files, merging them into the combined dataset, deriving
// markers and strata, running every analysis stage and persisting the result
// tables. Stages degrade per item, never wholesale: a missing cycle, marker
// or model is skipped with a logged reason while the rest of the run
// completes.
package pipeline
