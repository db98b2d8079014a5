package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/nsmarchive/internal/catalog"
	"github.com/nao1215/nsmarchive/internal/database"
	"github.com/nao1215/nsmarchive/internal/download"
	"github.com/nao1215/nsmarchive/internal/fetch"
	"github.com/nao1215/nsmarchive/internal/model"
	"github.com/nao1215/nsmarchive/internal/queue"
	"github.com/nao1215/nsmarchive/internal/sanitize"
)

// CrawlStep builds the catalog tree.
type CrawlStep struct {
	crawler *catalog.Crawler
}

// NewCrawlStep creates a crawl step.
func NewCrawlStep(crawler *catalog.Crawler) *CrawlStep {
	return &CrawlStep{crawler: crawler}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls the catalog into run.Catalog. A partial catalog is kept when
// the crawl stops early.
func (s *CrawlStep) Do(ctx context.Context, run *model.Run) error {
	cat, err := s.crawler.Crawl(ctx)
	if cat != nil {
		run.Catalog = cat
	}
	return err
}

// PlanStep creates the output directory tree and fills the download queue
// with one work item per sheet. It always closes the queue.
type PlanStep struct {
	queue   *queue.Queue[model.WorkItem]
	dirMode os.FileMode
	logger  *slog.Logger
}

// PlanStepOption configures a PlanStep.
type PlanStepOption func(*PlanStep)

// WithPlanLogger sets a custom logger for the plan step.
func WithPlanLogger(logger *slog.Logger) PlanStepOption {
	return func(s *PlanStep) {
		s.logger = logger
	}
}

// NewPlanStep creates a plan step feeding q.
func NewPlanStep(q *queue.Queue[model.WorkItem], opts ...PlanStepOption) *PlanStep {
	s := &PlanStep{
		queue:   q,
		dirMode: 0o750,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PlanStep) Name() string {
	return "plan"
}

// Do walks the catalog. Each game gets the directory
// <output>/<series>/<game>, names sanitized. A sheet listed more than once
// is planned only the first time. When two sheets of one directory sanitize
// to the same file name, the later one is written as "name [id]".
func (s *PlanStep) Do(ctx context.Context, run *model.Run) error {
	defer s.queue.Close()

	if run.Catalog == nil {
		return nil
	}

	planned := make(map[int]bool)
	stems := make(map[string]bool)

	for _, series := range run.Catalog.Series {
		seriesDir := filepath.Join(run.OutputDir, sanitize.Name(series.Name))

		for _, game := range series.Games {
			if err := ctx.Err(); err != nil {
				return err
			}

			dir := filepath.Join(seriesDir, sanitize.Name(game.Name))
			if err := os.MkdirAll(dir, s.dirMode); err != nil {
				return model.IOError(dir, err)
			}

			for _, sheet := range game.Sheets {
				if planned[sheet.ID] {
					s.logger.Debug("sheet listed twice",
						"id", sheet.ID,
						"sheet", sheet.Name,
						"game", game.Name,
					)
					continue
				}
				planned[sheet.ID] = true

				item := model.WorkItem{
					TargetDir: dir,
					Series:    series.Name,
					Game:      game.Name,
					Sheet:     sheet,
				}

				stem := sanitize.Name(sheet.Name)
				key := filepath.Join(dir, strings.ToLower(stem))
				if stems[key] {
					item.FileStem = fmt.Sprintf("%s [%d]", stem, sheet.ID)
					key = filepath.Join(dir, strings.ToLower(item.FileStem))
					s.logger.Debug("file name collision",
						"id", sheet.ID,
						"sheet", sheet.Name,
						"dir", dir,
					)
				}
				stems[key] = true

				if err := s.queue.Enqueue(item); err != nil {
					return err
				}
				run.Items++
			}
		}
	}

	s.logger.Debug("download queue filled", "items", run.Items)
	return nil
}

// ClientFactory builds the HTTP client owned by one download worker.
type ClientFactory func() (*fetch.Client, error)

// ResultFunc receives the outcome of every work item. It is called from
// worker goroutines and must be safe for concurrent use.
type ResultFunc func(item model.WorkItem, results []model.DownloadResult)

// DownloadStep drains the download queue with a worker pool.
type DownloadStep struct {
	queue     *queue.Queue[model.WorkItem]
	newClient ClientFactory
	workers   int
	baseURL   string
	onResults ResultFunc
	logger    *slog.Logger
}

// DownloadStepOption configures a DownloadStep.
type DownloadStepOption func(*DownloadStep)

// WithWorkers sets the pool size.
func WithWorkers(n int) DownloadStepOption {
	return func(s *DownloadStep) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDownloadBaseURL sets the origin download URLs are built on.
func WithDownloadBaseURL(base string) DownloadStepOption {
	return func(s *DownloadStep) {
		s.baseURL = base
	}
}

// WithResultFunc sets the per-item result callback.
func WithResultFunc(fn ResultFunc) DownloadStepOption {
	return func(s *DownloadStep) {
		s.onResults = fn
	}
}

// WithDownloadLogger sets a custom logger for the download step.
func WithDownloadLogger(logger *slog.Logger) DownloadStepOption {
	return func(s *DownloadStep) {
		s.logger = logger
	}
}

// NewDownloadStep creates a download step draining q. newClient is called
// once per worker.
func NewDownloadStep(q *queue.Queue[model.WorkItem], newClient ClientFactory, opts ...DownloadStepOption) *DownloadStep {
	s := &DownloadStep{
		queue:     q,
		newClient: newClient,
		workers:   download.DefaultPoolSize,
		baseURL:   download.DefaultBaseURL,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do starts the pool and waits until every worker has returned. Item
// failures are recorded in run; only cancellation is returned.
func (s *DownloadStep) Do(ctx context.Context, run *model.Run) error {
	record := func(item model.WorkItem, results []model.DownloadResult) {
		run.AddResults(results...)
		if s.onResults != nil {
			s.onResults(item, results)
		}
	}

	pool := download.NewPool(s.workers, func(workerID int) (download.Handler, error) {
		client, err := s.newClient()
		if err != nil {
			return nil, err
		}
		d := download.NewDownloader(client,
			download.WithBaseURL(s.baseURL),
			download.WithFormats(run.Formats),
			download.WithDownloaderLogger(s.logger.With("worker", workerID)),
		)
		return download.NewWorker(d, record, client.CloseIdleConnections), nil
	}, download.WithPoolLogger(s.logger))

	if err := pool.Run(ctx, s.queue); err != nil {
		return err
	}

	s.logger.Debug("download pool finished",
		"workers", pool.Size(),
		"items", pool.Processed(),
		"failed", pool.Failed(),
	)
	return nil
}

// IndexStep writes the SQLite catalog index.
type IndexStep struct {
	path string
}

// NewIndexStep creates an index step writing to path.
func NewIndexStep(path string) *IndexStep {
	return &IndexStep{path: path}
}

// Name returns the step name.
func (s *IndexStep) Name() string {
	return "index"
}

// Do stores the catalog and the download outcomes.
func (s *IndexStep) Do(ctx context.Context, run *model.Run) error {
	ix, err := database.Open(s.path)
	if err != nil {
		return err
	}
	defer ix.Close()

	if run.Catalog != nil {
		if err := ix.SaveCatalog(ctx, run.Catalog); err != nil {
			return err
		}
	}
	return ix.SaveResults(ctx, run.Results())
}

// Config holds the parts of the default pipeline.
type Config struct {
	Crawler   *catalog.Crawler
	NewClient ClientFactory

	// IndexPath is where the catalog index is written. Empty skips the
	// index step.
	IndexPath string

	DownloadOptions []DownloadStepOption
}

// DefaultPipeline builds the crawl, plan, download and index steps around
// a fresh download queue.
func DefaultPipeline(cfg Config, opts ...Option) *Pipeline {
	p := New(opts...)
	q := queue.New[model.WorkItem]()

	p.AddSteps(
		NewCrawlStep(cfg.Crawler),
		NewPlanStep(q, WithPlanLogger(p.logger)),
		NewDownloadStep(q, cfg.NewClient, append([]DownloadStepOption{WithDownloadLogger(p.logger)}, cfg.DownloadOptions...)...),
	)
	if cfg.IndexPath != "" {
		p.AddStep(NewIndexStep(cfg.IndexPath))
	}

	return p
}
