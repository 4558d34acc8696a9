package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders a Summary as GitHub Flavored Markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the summary.
func (w *MarkdownWriter) Write(s *Summary) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Command", s.Command},
			{"Target", s.Target},
			{"Generated", time.Now().Format(time.RFC3339)},
			{"Duration", s.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Count"},
		Rows: [][]string{
			{"Pages walked", strconv.Itoa(s.Pages)},
			{"Records emitted", strconv.Itoa(s.Emitted)},
			{"Filtered by keywords", strconv.Itoa(s.Filtered)},
			{"Duplicates dropped", strconv.Itoa(s.Duplicates)},
			{"Failed pages", strconv.Itoa(s.Failed)},
		},
	})
	md.PlainText("")

	if s.HasFailures() {
		md.Warningf("%d page(s) failed; the emitted records are a partial result.", s.Failed)
	} else {
		md.Note("All pages were processed successfully.")
	}
	md.PlainText("")

	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown report: %w", err)
	}
	return nil
}
