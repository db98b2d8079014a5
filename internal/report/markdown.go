package report

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/nsmarchive/internal/model"
)

// MarkdownWriter outputs the summary in Markdown, suitable for keeping next
// to the archive.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeTotals(md, summary)
	w.writeSkipped(md, summary)
	w.writeFailures(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("nsmarchive Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Output", "`" + s.OutputDir + "`"},
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
			{"Status", statusText(s)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, s *model.Summary) {
	md.H2("Totals")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Count"},
		Rows: [][]string{
			{"Series", strconv.Itoa(s.SeriesIndexed)},
			{"Games", strconv.Itoa(s.GamesIndexed)},
			{"Sheets", strconv.Itoa(s.SheetsIndexed)},
			{"Sheets downloaded", strconv.Itoa(s.SheetsDownloaded)},
			{"Files written", strconv.Itoa(s.FilesWritten)},
			{"Bytes written", humanize.Bytes(uint64(max(s.BytesWritten, 0)))},
			{"Failed files", strconv.Itoa(s.FailedFiles())},
			{"Skipped series", strconv.Itoa(len(s.SkippedSeries))},
		},
	})
	md.PlainText("")

	if s.FilesWritten+s.FailedFiles() > 0 {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Download Outcomes"),
		piechart.WithShowData(true),
	)

	if s.FilesWritten > 0 {
		chart.LabelAndIntValue("Written", uint64(s.FilesWritten))
	}
	if n := s.FailedFiles(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case s.Error != "":
		md.Cautionf("The run stopped early: %s", s.Error)
	case len(s.SkippedSeries) > 0 && s.FailedFiles() > 0:
		md.Warningf("%d series were skipped and %d file(s) failed to download.",
			len(s.SkippedSeries), s.FailedFiles())
	case len(s.SkippedSeries) > 0:
		md.Warningf("%d series were skipped.", len(s.SkippedSeries))
	case s.FailedFiles() > 0:
		md.Importantf("%d file(s) failed to download.", s.FailedFiles())
	default:
		md.Tip("Every sheet was downloaded in every configured format.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, s *model.Summary) {
	if len(s.SkippedSeries) == 0 {
		return
	}

	md.H2("Skipped Series")
	md.PlainText("")

	rows := make([][]string, len(s.SkippedSeries))
	for i, sk := range s.SkippedSeries {
		rows[i] = []string{sk.Name, sk.URL, truncateString(sk.Error, 80)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Series", "URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, s *model.Summary) {
	if len(s.Failures) == 0 {
		return
	}

	md.H2("Failed Downloads")
	md.PlainText("")

	rows := make([][]string, len(s.Failures))
	for i, f := range s.Failures {
		rows[i] = []string{
			strconv.Itoa(f.SheetID),
			f.Sheet,
			f.Game,
			f.Format.String(),
			truncateString(f.ErrorMessage, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Sheet", "Game", "Format", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range s.Failures {
		if len(f.ErrorMessage) > 60 {
			md.Details(f.Sheet+" ("+f.Format.String()+")", f.ErrorMessage)
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nsmarchive](https://github.com/nao1215/nsmarchive)*")
}
