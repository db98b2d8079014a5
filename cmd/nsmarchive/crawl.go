package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/nsmarchive/internal/pipeline"
	"github.com/nao1215/nsmarchive/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the catalog and print it without downloading",
		Long: `Crawl walks every series page and prints the resulting catalog tree of
series, games and sheets. Nothing is downloaded or written to disk.

Examples:
  # Print the catalog as a tree
  nsmarchive crawl

  # Print the catalog as JSON
  nsmarchive crawl --json > catalog.json`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	addSiteFlags(cmd)
	cmd.Flags().BoolP("json", "j", false, "Print the catalog as JSON")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crawler, err := newCrawler(cfg, logger, nil)
	if err != nil {
		return err
	}

	cat, err := crawler.Crawl(ctx)
	if err != nil {
		return err
	}

	var w report.CatalogWriter = report.NewTreeWriter(cmd.OutOrStdout())
	if asJSON {
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	}
	if _, err := w.WriteCatalog(cat); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	if len(cat.Skipped) > 0 {
		return fmt.Errorf("%w: %d series skipped", pipeline.ErrIncomplete, len(cat.Skipped))
	}
	return nil
}
