package model

import (
	"sync"
	"time"
)

// Run carries the state of one archive run through the pipeline steps.
// Steps read and extend it in order: crawl fills Catalog, plan fills
// Items, download fills Results.
type Run struct {
	// OutputDir is the root of the mirrored tree.
	OutputDir string

	// Formats is the configured format set downloaded for every sheet.
	Formats []SheetFormat

	// StartedAt is set when the run is created.
	StartedAt time.Time

	// FinishedAt is set by Finish.
	FinishedAt time.Time

	// Catalog is the crawled tree.
	Catalog *Catalog

	// Items is the number of work items enqueued by the plan step.
	Items int

	// PerformedSteps lists step names in execution order.
	PerformedSteps []string

	// Error is the error that stopped the run, if any.
	Error error

	mu      sync.Mutex
	results []DownloadResult
}

// NewRun creates a Run for the given output directory and formats.
func NewRun(outputDir string, formats []SheetFormat) *Run {
	return &Run{
		OutputDir: outputDir,
		Formats:   formats,
		StartedAt: time.Now(),
		Catalog:   &Catalog{},
	}
}

// AddResults records download outcomes. It is safe for concurrent use.
func (r *Run) AddResults(results ...DownloadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results...)
}

// Results returns a copy of the recorded download outcomes.
func (r *Run) Results() []DownloadResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DownloadResult, len(r.results))
	copy(out, r.results)
	return out
}

// Finish stamps the end time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}
