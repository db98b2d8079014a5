package download

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/nsmarchive/internal/model"
	"github.com/nao1215/nsmarchive/internal/sanitize"
)

// DefaultBaseURL is the origin download URLs are built on.
const DefaultBaseURL = "https://www.ninsheetmusic.org"

// URL returns "<base>/download/<format>/<id>".
func URL(base string, id int, f model.SheetFormat) string {
	return fmt.Sprintf("%s/download/%s/%d", strings.TrimRight(base, "/"), f, id)
}

// Getter fetches a URL body. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader fetches sheet files and writes them to disk.
type Downloader struct {
	getter   Getter
	baseURL  string
	formats  []model.SheetFormat
	fileMode os.FileMode
	logger   *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithBaseURL sets the download origin.
func WithBaseURL(base string) DownloaderOption {
	return func(d *Downloader) {
		if base != "" {
			d.baseURL = base
		}
	}
}

// WithFormats sets the formats fetched by Process. Empty keeps all formats.
func WithFormats(formats []model.SheetFormat) DownloaderOption {
	return func(d *Downloader) {
		if len(formats) > 0 {
			d.formats = formats
		}
	}
}

// WithDownloaderLogger sets the logger.
func WithDownloaderLogger(logger *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader creates a Downloader fetching through getter.
func NewDownloader(getter Getter, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		getter:   getter,
		baseURL:  DefaultBaseURL,
		formats:  model.AllFormats(),
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Path returns the file an item's format is written to.
func Path(item model.WorkItem, f model.SheetFormat) string {
	stem := item.FileStem
	if stem == "" {
		stem = sanitize.Name(item.Sheet.Name)
	}
	return filepath.Join(item.TargetDir, stem+"."+f.Extension())
}

// Download fetches one format of the item's sheet and writes it to
// Path(item, f), creating or truncating the file. The result's Err wraps
// model.ErrNetwork or model.ErrIO on failure.
func (d *Downloader) Download(ctx context.Context, item model.WorkItem, f model.SheetFormat) model.DownloadResult {
	start := time.Now()
	result := model.DownloadResult{
		SheetID: item.Sheet.ID,
		Sheet:   item.Sheet.Name,
		Series:  item.Series,
		Game:    item.Game,
		Format:  f,
		URL:     URL(d.baseURL, item.Sheet.ID, f),
	}
	fail := func(err error) model.DownloadResult {
		result.Err = err
		result.ErrorMessage = err.Error()
		result.Elapsed = time.Since(start)
		return result
	}

	body, err := d.getter.Get(ctx, result.URL)
	if err != nil {
		return fail(err)
	}

	path := Path(item, f)
	if err := os.WriteFile(path, body, d.fileMode); err != nil {
		return fail(model.IOError(path, err))
	}

	digest := sha3.Sum256(body)
	result.Path = path
	result.Bytes = int64(len(body))
	result.Digest = hex.EncodeToString(digest[:])
	result.Elapsed = time.Since(start)
	return result
}

// Process downloads every configured format of the item, one after another.
// Each format is attempted even if an earlier one failed, unless ctx ends.
func (d *Downloader) Process(ctx context.Context, item model.WorkItem) []model.DownloadResult {
	results := make([]model.DownloadResult, 0, len(d.formats))
	for _, f := range d.formats {
		if err := ctx.Err(); err != nil {
			break
		}

		r := d.Download(ctx, item, f)
		if r.OK() {
			d.logger.Debug("downloaded",
				"sheet", item.Sheet.Name,
				"id", item.Sheet.ID,
				"format", f.String(),
				"bytes", r.Bytes,
			)
		} else {
			d.logger.Warn("download failed",
				"sheet", item.Sheet.Name,
				"id", item.Sheet.ID,
				"format", f.String(),
				"kind", model.ErrorKind(r.Err),
				"error", r.Err,
			)
		}
		results = append(results, r)
	}
	return results
}

// FirstError returns the first failure among results, or nil.
func FirstError(results []model.DownloadResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
