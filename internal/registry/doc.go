// Package registry defines the fixed mapping from survey cycles to their
// source table files and archive locations.
//
// Cycle definitions are fixed by research design: ten two-year waves from
// 1999-2000 through 2017-2018, each with its own historical file naming.
// The tables in this package are initialized once and never mutated; callers
// receive copies.
package registry
