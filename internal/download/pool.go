package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/nsmarchive/internal/model"
	"github.com/nao1215/nsmarchive/internal/queue"
)

// DefaultPoolSize is the number of workers when none is configured.
const DefaultPoolSize = 6

// ErrPoolStarted is returned when Start is called twice.
var ErrPoolStarted = errors.New("pool already started")

// Handler processes one work item. A returned error marks the item as failed
// but does not stop the worker.
type Handler interface {
	Handle(ctx context.Context, item model.WorkItem) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, item model.WorkItem) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, item model.WorkItem) error {
	return f(ctx, item)
}

// HandlerFactory builds the handler owned by one worker. It is called once
// per worker so per-worker resources such as HTTP clients are never shared.
type HandlerFactory func(workerID int) (Handler, error)

// Pool is a fixed set of workers draining a queue of work items.
//
// Workers loop on Receive until the queue is closed and empty or the context
// ends, processing each item fully before receiving the next one. The pool
// is done when every worker has returned.
type Pool struct {
	size    int
	factory HandlerFactory
	logger  *slog.Logger

	group   *errgroup.Group
	started atomic.Bool

	processed atomic.Int64
	failed    atomic.Int64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a pool of size workers. Non-positive sizes fall back to
// DefaultPoolSize.
func NewPool(size int, factory HandlerFactory, opts ...PoolOption) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &Pool{
		size:    size,
		factory: factory,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Start builds one handler per worker and spawns the workers. If any
// handler cannot be built no worker is started.
func (p *Pool) Start(ctx context.Context, q *queue.Queue[model.WorkItem]) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrPoolStarted
	}

	handlers := make([]Handler, p.size)
	for i := range handlers {
		h, err := p.factory(i + 1)
		if err != nil {
			return fmt.Errorf("worker %d: %w", i+1, err)
		}
		handlers[i] = h
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, h := range handlers {
		g.Go(func() error {
			return p.work(ctx, i+1, h, q)
		})
	}
	p.group = g

	p.logger.Debug("workers started", "workers", p.size, "queued", q.Len())
	return nil
}

// Wait blocks until every worker has returned. It returns the context error
// if the pool was cancelled, nil otherwise.
func (p *Pool) Wait() error {
	if p.group == nil {
		return nil
	}
	return p.group.Wait()
}

// Run is Start followed by Wait.
func (p *Pool) Run(ctx context.Context, q *queue.Queue[model.WorkItem]) error {
	if err := p.Start(ctx, q); err != nil {
		return err
	}
	return p.Wait()
}

// Processed returns the number of items handled, failed or not.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Failed returns the number of items whose handler returned an error.
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

func (p *Pool) work(ctx context.Context, id int, h Handler, q *queue.Queue[model.WorkItem]) error {
	if c, ok := h.(interface{ Close() }); ok {
		defer c.Close()
	}

	for {
		item, ok, err := q.Receive(ctx)
		if err != nil {
			p.logger.Debug("worker cancelled", "worker", id, "error", err)
			return err
		}
		if !ok {
			p.logger.Debug("worker finished", "worker", id)
			return nil
		}

		if err := h.Handle(ctx, item); err != nil {
			p.failed.Add(1)
			p.logger.Warn("work item failed",
				"worker", id,
				"sheet", item.Sheet.Name,
				"id", item.Sheet.ID,
				"error", err,
			)
		}
		p.processed.Add(1)
	}
}
