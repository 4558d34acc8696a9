// Package stream reads and writes the record stream that connects
// commands into pipelines.
//
// The stream is CSV: one header row naming the selected fields in
// canonical order, then one row per record. The writer flushes after
// every record so a downstream command sees each record as soon as it
// exists, and an interrupted run keeps everything written so far.
//
// The reader accepts two input shapes and detects which one it got from
// the first line: a CSV stream produced by another command, or bare ad
// URLs one per line. The URL form lets links collected elsewhere feed
// the detail command directly.
package stream
