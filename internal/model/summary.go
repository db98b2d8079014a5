package model

import (
	"sort"
	"time"
)

// Summary is the user-facing tally of a run.
type Summary struct {
	OutputDir string        `json:"output_dir"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`

	SeriesIndexed int `json:"series_indexed"`
	GamesIndexed  int `json:"games_indexed"`
	SheetsIndexed int `json:"sheets_indexed"`

	// SheetsDownloaded counts sheets whose every configured format succeeded.
	SheetsDownloaded int `json:"sheets_downloaded"`

	FilesWritten int   `json:"files_written"`
	BytesWritten int64 `json:"bytes_written"`

	SkippedSeries []SkippedSeries  `json:"skipped_series,omitempty"`
	Failures      []DownloadResult `json:"failures,omitempty"`

	// Error is the fatal error message, if the run stopped early.
	Error string `json:"error,omitempty"`
}

// NewSummary tallies a run.
func NewSummary(run *Run) *Summary {
	s := &Summary{
		OutputDir: run.OutputDir,
		StartedAt: run.StartedAt,
	}
	if !run.FinishedAt.IsZero() {
		s.Elapsed = run.FinishedAt.Sub(run.StartedAt)
	}
	if run.Error != nil {
		s.Error = run.Error.Error()
	}

	if run.Catalog != nil {
		s.SeriesIndexed = len(run.Catalog.Series)
		s.GamesIndexed = run.Catalog.GameCount()
		s.SheetsIndexed = run.Catalog.SheetCount()
		s.SkippedSeries = append(s.SkippedSeries, run.Catalog.Skipped...)
	}

	failed := make(map[int]bool)
	seen := make(map[int]bool)
	for _, r := range run.Results() {
		seen[r.SheetID] = true
		if !r.OK() {
			failed[r.SheetID] = true
			if r.ErrorMessage == "" {
				r.ErrorMessage = r.Err.Error()
			}
			s.Failures = append(s.Failures, r)
			continue
		}
		s.FilesWritten++
		s.BytesWritten += r.Bytes
	}
	for id := range seen {
		if !failed[id] {
			s.SheetsDownloaded++
		}
	}

	sort.SliceStable(s.Failures, func(i, j int) bool {
		if s.Failures[i].SheetID != s.Failures[j].SheetID {
			return s.Failures[i].SheetID < s.Failures[j].SheetID
		}
		return s.Failures[i].Format < s.Failures[j].Format
	})

	return s
}

// Complete reports whether nothing was skipped and no fatal error occurred.
func (s *Summary) Complete() bool {
	return s.Error == "" && len(s.SkippedSeries) == 0 && len(s.Failures) == 0
}

// FailedFiles returns the number of format downloads that failed.
func (s *Summary) FailedFiles() int {
	return len(s.Failures)
}
