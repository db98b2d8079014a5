package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/nao1215/nsmarchive/internal/config"
	"github.com/nao1215/nsmarchive/internal/pipeline"
)

// TestNewRunCmd tests the run command creation.
func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "run" {
			t.Errorf("expected use 'run', got %q", cmd.Use)
		}
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
	})

	flags := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"config", "c", ""},
		{"output", "o", config.DefaultOutputDir},
		{"workers", "w", "6"},
		{"timeout", "t", "1m0s"},
		{"formats", "", "[pdf,mid,mus]"},
		{"header", "H", "[]"},
		{"proxy", "", ""},
		{"strict", "", "false"},
		{"index", "", ""},
		{"no-index", "", "false"},
		{"report", "r", ""},
		{"report-format", "", "text"},
	}
	for _, tt := range flags {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.def {
				t.Errorf("expected default %q, got %q", tt.def, flag.DefValue)
			}
		})
	}
}

// walkFiles returns the paths of all regular files under dir, relative to
// dir and slash-separated.
func walkFiles(t *testing.T, dir string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", dir, err)
	}
	sort.Strings(files)
	return files
}

// TestRunCmd runs the whole archive against a fixture site.
func TestRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("mirrors the catalog", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		out := filepath.Join(t.TempDir(), "downloads")

		stdout, _, err := execute(t, "run",
			"-c", emptyConfig(t),
			"--base-url", site.URL,
			"-o", out,
			"-w", "2",
			"-H", "X-Archive: nightly",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v\n%s", err, stdout)
		}

		want := []string{
			"Series A/Game X/Ending.mid",
			"Series A/Game X/Ending.mus",
			"Series A/Game X/Ending.pdf",
			"Series A/Game X/Title Theme.mid",
			"Series A/Game X/Title Theme.mus",
			"Series A/Game X/Title Theme.pdf",
			"catalog.db",
		}
		if got := walkFiles(t, out); strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("expected files %v, got %v", want, got)
		}

		for _, line := range []string{
			"[1/1] Series A: 1 games, 2 sheets",
			"(2/2) Series A / Game X /",
			"NSMARCHIVE SUMMARY",
			"Status:   Complete",
			"Files written:     6",
		} {
			if !strings.Contains(stdout, line) {
				t.Errorf("expected output to contain %q, got:\n%s", line, stdout)
			}
		}

		if !site.sawHeader("nightly") {
			t.Error("expected every request to carry the configured header")
		}
	})

	t.Run("failed file makes the run incomplete", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "/download/pdf/11")
		dir := t.TempDir()
		out := filepath.Join(dir, "downloads")
		reportPath := filepath.Join(dir, "reports", "run.md")

		stdout, _, err := execute(t, "run",
			"-c", emptyConfig(t),
			"--base-url", site.URL,
			"-o", out,
			"--no-index",
			"--report", reportPath,
			"--report-format", "markdown",
		)
		if !errors.Is(err, pipeline.ErrIncomplete) {
			t.Fatalf("expected ErrIncomplete, got %v", err)
		}
		if !strings.Contains(stdout, "Ending (11) pdf") {
			t.Errorf("expected failure to be listed, got:\n%s", stdout)
		}
		if got := len(walkFiles(t, out)); got != 5 {
			t.Errorf("expected 5 files without index, got %d", got)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(content), "# nsmarchive Report") || !strings.Contains(string(content), "## Failed Downloads") {
			t.Errorf("unexpected report:\n%s", content)
		}
	})

	t.Run("skipped series makes the run incomplete", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, true, "")
		out := t.TempDir()

		stdout, _, err := execute(t, "run", "-c", emptyConfig(t), "--base-url", site.URL, "-o", out, "--no-index")
		if !errors.Is(err, pipeline.ErrIncomplete) {
			t.Fatalf("expected ErrIncomplete, got %v", err)
		}
		if !strings.Contains(stdout, "Series B: skipped") || !strings.Contains(stdout, "SKIPPED SERIES") {
			t.Errorf("expected skipped series in output, got:\n%s", stdout)
		}
		if got := len(walkFiles(t, out)); got != 6 {
			t.Errorf("expected the healthy series to be mirrored, got %d files", got)
		}
	})

	t.Run("strict aborts on a broken series", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, true, "")
		out := filepath.Join(t.TempDir(), "downloads")

		_, _, err := execute(t, "run", "-c", emptyConfig(t), "--base-url", site.URL, "-o", out, "--strict")
		if err == nil || errors.Is(err, pipeline.ErrIncomplete) {
			t.Fatalf("expected a fatal crawl error, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(out, "Series A")); !os.IsNotExist(statErr) {
			t.Error("expected nothing to be downloaded")
		}
	})

	t.Run("config file settings apply", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		dir := t.TempDir()
		out := filepath.Join(dir, "scores")
		cfgPath := filepath.Join(dir, "nsmarchive.yaml")
		content := "baseURL: " + site.URL + "\noutput: " + out + "\nformats: [pdf]\nnoIndex: true\nheaders:\n  X-Archive: from-file\n"
		if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, _, err := execute(t, "run", "-c", cfgPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Series A/Game X/Ending.pdf", "Series A/Game X/Title Theme.pdf"}
		if got := walkFiles(t, out); strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("expected files %v, got %v", want, got)
		}
		if !site.sawHeader("from-file") {
			t.Error("expected header from config file")
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		t.Parallel()

		site := newTestSite(t, false, "")
		dir := t.TempDir()
		out := filepath.Join(dir, "flag-out")
		cfgPath := filepath.Join(dir, "nsmarchive.yaml")
		content := "baseURL: " + site.URL + "\noutput: " + filepath.Join(dir, "file-out") + "\nformats: [pdf]\n"
		if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, _, err := execute(t, "run", "-c", cfgPath, "-o", out, "--formats", "midi", "--no-index"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Series A/Game X/Ending.mid", "Series A/Game X/Title Theme.mid"}
		if got := walkFiles(t, out); strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("expected files %v, got %v", want, got)
		}
		if _, err := os.Stat(filepath.Join(dir, "file-out")); !os.IsNotExist(err) {
			t.Error("expected config file output to be overridden")
		}
	})
}

// TestRunCmdConfigErrors tests failures before anything is fetched.
func TestRunCmdConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "zero workers", args: []string{"-w", "0"}, wantErr: config.ErrInvalidWorkers},
		{name: "unknown format", args: []string{"--formats", "wav"}, wantErr: config.ErrUnknownFormat},
		{name: "bad base url", args: []string{"--base-url", "ftp://example.com"}, wantErr: config.ErrInvalidBaseURL},
		{name: "bad report format", args: []string{"--report-format", "xml"}, wantErr: config.ErrInvalidReportFormat},
		{name: "bad header", args: []string{"-H", "no-colon"}, wantErr: errInvalidHeader},
		{name: "missing config file", args: []string{"-c", "/nonexistent/nsmarchive.yaml"}, wantMsg: "configuration file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := []string{"run", "-o", t.TempDir()}
			if tt.wantMsg == "" {
				args = append(args, "-c", emptyConfig(t))
			}
			_, _, err := execute(t, append(args, tt.args...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %v", tt.wantMsg, err)
			}
		})
	}
}
