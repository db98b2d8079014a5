package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nao1215/nsmarchive/internal/htmlquery"
	"github.com/nao1215/nsmarchive/internal/model"
)

// DefaultBaseURL is the catalog origin.
const DefaultBaseURL = "https://www.ninsheetmusic.org"

// Fetcher retrieves a page body. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ProgressFunc is called after each series page is processed. err is nil
// when the series was crawled, otherwise the series was skipped.
type ProgressFunc func(series *model.Series, index, total int, err error)

// Crawler walks the series → games → sheets hierarchy.
type Crawler struct {
	fetcher  Fetcher
	baseURL  string
	schema   Schema
	strict   bool
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBaseURL sets the catalog origin.
func WithBaseURL(base string) Option {
	return func(c *Crawler) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithSchema overrides page markers. Empty fields keep their defaults.
func WithSchema(schema Schema) Option {
	return func(c *Crawler) {
		c.schema = schema.Merge(DefaultSchema())
	}
}

// WithStrict makes any series failure abort the crawl.
func WithStrict(strict bool) Option {
	return func(c *Crawler) {
		c.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithProgress registers a per-series progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Crawler) {
		c.progress = fn
	}
}

// NewCrawler creates a Crawler reading pages through fetcher.
func NewCrawler(fetcher Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
		schema:  DefaultSchema(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// FetchSeries fetches the root listing and returns its series in listing order.
// Games are not populated.
func (c *Crawler) FetchSeries(ctx context.Context) ([]*model.Series, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	listURL := c.baseURL + c.schema.SeriesPath
	doc, err := c.fetchDocument(ctx, listURL)
	if err != nil {
		return nil, err
	}

	series, err := ParseSeriesList(doc, base, c.schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", listURL, err)
	}

	c.logger.Debug("series listing parsed", "url", listURL, "series", len(series))
	return series, nil
}

// PopulateGames fetches the series page and replaces series.Games with its
// games. On error series.Games is left untouched.
func (c *Crawler) PopulateGames(ctx context.Context, series *model.Series) error {
	doc, err := c.fetchDocument(ctx, series.URL)
	if err != nil {
		return err
	}

	games, err := ParseGames(doc, c.schema)
	if err != nil {
		return fmt.Errorf("%s: %w", series.URL, err)
	}

	series.Games = games
	return nil
}

// Crawl fetches the listing and then every series page, one after another.
// Series failures are recorded in Catalog.Skipped unless the crawler is strict.
func (c *Crawler) Crawl(ctx context.Context) (*model.Catalog, error) {
	series, err := c.FetchSeries(ctx)
	if err != nil {
		return nil, err
	}

	cat := &model.Catalog{Series: make([]*model.Series, 0, len(series))}
	for i, s := range series {
		if err := ctx.Err(); err != nil {
			return cat, err
		}

		err := c.PopulateGames(ctx, s)
		if c.progress != nil {
			c.progress(s, i, len(series), err)
		}
		if err != nil {
			if c.strict || ctx.Err() != nil {
				return cat, fmt.Errorf("series %q: %w", s.Name, err)
			}
			c.logger.Warn("skipping series", "series", s.Name, "url", s.URL, "error", err)
			cat.Skipped = append(cat.Skipped, model.SkippedSeries{
				Name:  s.Name,
				URL:   s.URL,
				Error: err.Error(),
			})
			continue
		}

		c.logger.Debug("series crawled",
			"series", s.Name,
			"games", len(s.Games),
			"sheets", s.SheetCount(),
		)
		cat.Series = append(cat.Series, s)
	}

	return cat, nil
}

func (c *Crawler) fetchDocument(ctx context.Context, pageURL string) (htmlquery.Document, error) {
	body, err := c.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, model.ParseError("%s: %v", pageURL, err)
	}
	return doc, nil
}
