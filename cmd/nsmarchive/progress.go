package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/nao1215/nsmarchive/internal/model"
)

// progress prints crawl and download progress lines. Download callbacks
// arrive from every worker, so writes are serialized.
type progress struct {
	mu   sync.Mutex
	w    io.Writer
	run  *model.Run
	done int
}

func newProgress(w io.Writer, run *model.Run) *progress {
	return &progress{w: w, run: run}
}

// series is a catalog.ProgressFunc.
func (p *progress) series(s *model.Series, index, total int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		fmt.Fprintf(p.w, "[%d/%d] %s: skipped (%v)\n", index+1, total, s.Name, err)
		return
	}
	fmt.Fprintf(p.w, "[%d/%d] %s: %d games, %d sheets\n", index+1, total, s.Name, len(s.Games), s.SheetCount())
}

// item is a pipeline.ResultFunc.
func (p *progress) item(item model.WorkItem, results []model.DownloadResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}

	total := 0
	if p.run != nil {
		total = p.run.Items
	}
	if failed > 0 {
		fmt.Fprintf(p.w, "(%d/%d) %s / %s / %s: %d of %d files failed\n",
			p.done, total, item.Series, item.Game, item.Sheet.Name, failed, len(results))
		return
	}
	fmt.Fprintf(p.w, "(%d/%d) %s / %s / %s\n", p.done, total, item.Series, item.Game, item.Sheet.Name)
}
