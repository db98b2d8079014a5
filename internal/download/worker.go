package download

import (
	"context"

	"github.com/nao1215/nsmarchive/internal/model"
)

// Worker is the Handler owned by a single pool worker: a Downloader over a
// client no other worker uses.
type Worker struct {
	downloader *Downloader
	onResults  func(item model.WorkItem, results []model.DownloadResult)
	closer     func()
}

// NewWorker wraps d. onResults, if non-nil, receives every item's results
// and must be safe for concurrent use. closer, if non-nil, runs when the
// worker stops.
func NewWorker(d *Downloader, onResults func(model.WorkItem, []model.DownloadResult), closer func()) *Worker {
	return &Worker{downloader: d, onResults: onResults, closer: closer}
}

// Handle downloads every configured format of item.
func (w *Worker) Handle(ctx context.Context, item model.WorkItem) error {
	results := w.downloader.Process(ctx, item)
	if w.onResults != nil {
		w.onResults(item, results)
	}
	return FirstError(results)
}

// Close releases the worker's resources.
func (w *Worker) Close() {
	if w.closer != nil {
		w.closer()
	}
}
