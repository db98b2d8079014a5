package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/nsmarchive/internal/model"
	"github.com/nao1215/nsmarchive/internal/pipeline"
)

// TestCrawlCmd tests printing the catalog without downloading.
func TestCrawlCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints the tree", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		stdout, _, err := execute(t, "crawl", "-c", emptyConfig(t), "--base-url", site.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Series A (1 games, 2 sheets)",
			"  Game X [NES]",
			"    10  Title Theme  (Alice)",
			"1 series, 1 games, 2 sheets",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		stdout, _, err := execute(t, "crawl", "-c", emptyConfig(t), "--base-url", site.URL, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var cat model.Catalog
		if err := json.Unmarshal([]byte(stdout), &cat); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if cat.SheetCount() != 2 || cat.Series[0].Games[0].Sheets[1].ID != 11 {
			t.Errorf("unexpected catalog %+v", cat)
		}
	})

	t.Run("downloads nothing", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		if _, _, err := execute(t, "crawl", "-c", emptyConfig(t), "--base-url", site.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		site.mu.Lock()
		defer site.mu.Unlock()
		if len(site.headers) != 2 {
			t.Errorf("expected 2 page requests, got %d", len(site.headers))
		}
	})

	t.Run("reports skipped series", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, true, "")
		stdout, _, err := execute(t, "crawl", "-c", emptyConfig(t), "--base-url", site.URL)
		if !errors.Is(err, pipeline.ErrIncomplete) {
			t.Fatalf("expected ErrIncomplete, got %v", err)
		}
		if !strings.Contains(stdout, "skipped: Series B") {
			t.Errorf("expected skipped line, got:\n%s", stdout)
		}
	})
}
