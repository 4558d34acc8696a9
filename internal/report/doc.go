// Package report summarizes a finished run.
//
// A Summary carries the run's counters (pages walked, records emitted,
// filtered, failed) and renders in two forms: a one-line text summary
// for stderr at the end of every run, and a Markdown report written to
// a file when the user asked for one.
package report
