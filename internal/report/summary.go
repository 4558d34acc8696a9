package report

import (
	"fmt"
	"io"
	"time"
)

// Summary holds the counters of one finished run.
type Summary struct {
	// Command is the command that ran ("list" or "detail").
	Command string

	// Target is the start URL for list runs, or the input description
	// for detail runs.
	Target string

	// Pages is the number of listing pages walked (list runs only).
	Pages int

	// Emitted is the number of records written to the stream.
	Emitted int

	// Filtered is the number of records dropped by the keyword filter.
	Filtered int

	// Duplicates is the number of records dropped as duplicates.
	Duplicates int

	// Failed is the number of pages that could not be fetched or
	// parsed.
	Failed int

	// Elapsed is the wall-clock run duration.
	Elapsed time.Duration
}

// HasFailures reports whether any page failed. Runs with failures exit
// non-zero even though their partial results were emitted.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// WriteText writes the one-line run summary.
func (s *Summary) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d records emitted (%d filtered, %d duplicates, %d failed) in %s\n",
		s.Command, s.Emitted, s.Filtered, s.Duplicates, s.Failed, s.Elapsed.Round(time.Millisecond))
	return err
}
