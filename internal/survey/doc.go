// Package survey implements design-based inference for the complex sampling
// design: survey-weighted linear fits per cycle with stratified cluster-robust
// variance (primary sampling units nested in strata) and Wald F tests per
// covariate block.
package survey
