package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/nsmarchive/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs a human-readable text summary.
type SimpleWriter struct {
	baseWriter

	// maxFailures caps the listed failures; 0 lists all of them.
	maxFailures int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxFailures limits how many failed downloads are listed.
func WithMaxFailures(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n >= 0 {
			w.maxFailures = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeTotals(&sb, summary)
	w.writeSkipped(&sb, summary)
	w.writeFailures(&sb, summary)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                        NSMARCHIVE SUMMARY\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Output:   %s\n", s.OutputDir)
	fmt.Fprintf(sb, "Started:  %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Elapsed:  %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(sb, "Status:   %s\n", statusText(s))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTotals(sb *strings.Builder, s *model.Summary) {
	section(sb, "TOTALS")

	fmt.Fprintf(sb, "  Series:            %d\n", s.SeriesIndexed)
	fmt.Fprintf(sb, "  Games:             %d\n", s.GamesIndexed)
	fmt.Fprintf(sb, "  Sheets:            %d\n", s.SheetsIndexed)
	fmt.Fprintf(sb, "  Sheets downloaded: %d\n", s.SheetsDownloaded)
	fmt.Fprintf(sb, "  Files written:     %d (%s)\n", s.FilesWritten, humanize.Bytes(uint64(max(s.BytesWritten, 0))))
	fmt.Fprintf(sb, "  Failed files:      %d\n", s.FailedFiles())
	fmt.Fprintf(sb, "  Skipped series:    %d\n", len(s.SkippedSeries))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSkipped(sb *strings.Builder, s *model.Summary) {
	if len(s.SkippedSeries) == 0 {
		return
	}

	section(sb, "SKIPPED SERIES")
	for _, sk := range s.SkippedSeries {
		fmt.Fprintf(sb, "  [-] %s\n", sk.Name)
		fmt.Fprintf(sb, "      %s\n", sk.URL)
		fmt.Fprintf(sb, "      %s\n", sk.Error)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, s *model.Summary) {
	if len(s.Failures) == 0 {
		return
	}

	section(sb, "FAILED DOWNLOADS")
	failures := s.Failures
	if w.maxFailures > 0 && len(failures) > w.maxFailures {
		failures = failures[:w.maxFailures]
	}
	for _, f := range failures {
		fmt.Fprintf(sb, "  [!] %s (%d) %s\n", f.Sheet, f.SheetID, f.Format)
		if f.Game != "" {
			fmt.Fprintf(sb, "      %s / %s\n", f.Series, f.Game)
		}
		fmt.Fprintf(sb, "      %s\n", f.ErrorMessage)
	}
	if rest := len(s.Failures) - len(failures); rest > 0 {
		fmt.Fprintf(sb, "  ... and %d more\n", rest)
	}
	sb.WriteString("\n")
}
