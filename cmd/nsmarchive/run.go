package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/nsmarchive/internal/config"
	"github.com/nao1215/nsmarchive/internal/fetch"
	"github.com/nao1215/nsmarchive/internal/model"
	"github.com/nao1215/nsmarchive/internal/pipeline"
	"github.com/nao1215/nsmarchive/internal/report"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl the catalog and download every sheet",
		Long: `Run crawls the whole catalog, then downloads every sheet with a pool of
concurrent workers.

Each sheet is fetched in every configured format and written to
<output>/<series>/<game>/<sheet>.<ext>. A failed file is reported and
skipped; the run carries on. The exit status is non-zero when any series
was skipped or any file failed.

A SQLite index of the crawled catalog and every download outcome is
written to <output>/catalog.db unless --no-index is given.

Examples:
  # Mirror everything into ./downloads
  nsmarchive run

  # Only PDFs and MIDIs, 8 workers, into ./scores
  nsmarchive run -o scores -w 8 --formats pdf,mid

  # Go through Tor and keep a Markdown report
  nsmarchive run --proxy 127.0.0.1:9050 --report report.md --report-format markdown

Configuration file (.nsmarchive) example:
  output: scores
  workers: 8
  formats: [pdf, mid]
  headers:
    Accept-Language: en`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addSiteFlags(cmd)

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Root directory of the mirrored tree")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent download workers")
	cmd.Flags().StringSlice("formats", []string{"pdf", "mid", "mus"},
		"Formats to download (pdf, mid, mus)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum size of a single response body in bytes")

	cmd.Flags().String("index", "",
		"Catalog index path (default: <output>/catalog.db)")
	cmd.Flags().Bool("no-index", false,
		"Do not write the catalog index")

	cmd.Flags().StringP("report", "r", "",
		"Write the run summary to the given file (creates directories if needed)")
	cmd.Flags().String("report-format", config.DefaultReportFormat,
		"Report file format: text, markdown or json")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runArchive(ctx, cfg, logger, cmd.OutOrStdout())
}

// runArchive executes one archive run and prints its summary to out.
func runArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting run",
		"baseURL", cfg.BaseURL,
		"output", cfg.OutputDir,
		"workers", cfg.Workers,
		"formats", cfg.Formats,
		"proxy", cfg.ProxyAddress,
		"headers", cfg.Headers,
	)

	run := model.NewRun(cfg.OutputDir, cfg.Formats)
	prog := newProgress(out, run)

	crawler, err := newCrawler(cfg, logger, prog)
	if err != nil {
		return err
	}

	p := pipeline.DefaultPipeline(pipeline.Config{
		Crawler: crawler,
		NewClient: func() (*fetch.Client, error) {
			return fetch.NewClient(clientOptions(cfg)...)
		},
		IndexPath: cfg.IndexFile(),
		DownloadOptions: []pipeline.DownloadStepOption{
			pipeline.WithWorkers(cfg.Workers),
			pipeline.WithDownloadBaseURL(cfg.BaseURL),
			pipeline.WithResultFunc(prog.item),
		},
	}, pipeline.WithLogger(logger))

	fmt.Fprintf(out, "Crawling %s...\n", cfg.BaseURL)
	if err := p.Execute(ctx, run); err != nil {
		logger.Error("run stopped", "error", err)
	}

	summary := model.NewSummary(run)
	if _, err := report.NewSimpleWriter(out, report.WithMaxFailures(50)).Write(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if cfg.ReportFile != "" {
		if err := writeReportFile(cfg, summary); err != nil {
			logger.Error("report failed", "path", cfg.ReportFile, "error", err)
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFile)
	}

	return pipeline.Check(run)
}

// writeReportFile writes summary to cfg.ReportFile in cfg.ReportFormat.
func writeReportFile(cfg *config.Config, summary *model.Summary) error {
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w, err := report.NewWriter(cfg.ReportFormat, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
