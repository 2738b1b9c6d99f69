// Package regression fits the two per-marker model families over the full
// combined dataset: an ordinary least squares model with a cubic spline in
// survey time, and a logistic model of the marker dichotomized at its sample
// median. Covariates are encoded dynamically from the categorical levels the
// fitted sample actually contains, so term sets vary between runs.
package regression
