// Package fetch retrieves the survey archive files listed by the registry.
//
// Downloads run with bounded concurrency and request pacing, and every file's
// outcome is recorded in a download log. The log doubles as the gate for the
// behavioral analyses: a cycle only enters them when all of its required
// files retrieved successfully.
package fetch
