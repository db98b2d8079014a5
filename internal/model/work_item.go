package model

import "time"

// WorkItem is the unit placed on the download queue: the directory the
// sheet's files go into, plus the sheet itself. It is passed by value and
// never mutated after the crawler creates it.
type WorkItem struct {
	// TargetDir is <output>/<series>/<game>, already sanitized and created.
	TargetDir string

	// Series and Game name the item's position in the catalog for logging
	// and reporting.
	Series string
	Game   string

	// FileStem is the sanitized file name without extension. It differs
	// from the sanitized sheet name only when two sheets of one game would
	// otherwise collide.
	FileStem string

	Sheet Sheet
}

// DownloadResult is the outcome of downloading one format of one sheet.
type DownloadResult struct {
	SheetID int         `json:"sheet_id"`
	Sheet   string      `json:"sheet"`
	Series  string      `json:"series"`
	Game    string      `json:"game"`
	Format  SheetFormat `json:"format"`
	URL     string      `json:"url"`

	// Path is the file written. Empty on failure.
	Path string `json:"path,omitempty"`

	// Bytes is the size of the body written to Path.
	Bytes int64 `json:"bytes"`

	// Digest is the hex SHA3-256 of the body.
	Digest string `json:"digest,omitempty"`

	Elapsed time.Duration `json:"elapsed"`

	// Err is non-nil when the download failed. It wraps ErrNetwork or ErrIO.
	Err error `json:"-"`

	// ErrorMessage mirrors Err for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// OK reports whether the download succeeded.
func (r DownloadResult) OK() bool {
	return r.Err == nil
}
