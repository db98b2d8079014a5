package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/nsmarchive/internal/catalog"
	"github.com/nao1215/nsmarchive/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "nsmarchive"

	// DefaultBaseURL is the catalog origin.
	DefaultBaseURL = "https://www.ninsheetmusic.org"

	// DefaultOutputDir is the root of the mirrored tree.
	DefaultOutputDir = "downloads"

	// DefaultWorkers is the download pool size.
	DefaultWorkers = 6

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies nsmarchive in HTTP requests.
	DefaultUserAgent = "nsmarchive/1.0 (+https://github.com/nao1215/nsmarchive)"

	// DefaultMaxBodySize caps a response body. Scores are rarely above a
	// few megabytes.
	DefaultMaxBodySize = 64 << 20

	// DefaultIndexFile is the catalog index name inside the output directory.
	DefaultIndexFile = "catalog.db"

	// DefaultReportFormat is the format of --report files.
	DefaultReportFormat = "text"
)

// Config holds every option of a run. It is built by NewConfig, overlaid by
// the config file and then by CLI flags, and validated once.
type Config struct {
	// BaseURL is the catalog origin; listing and download URLs are built on it.
	BaseURL string

	// OutputDir is the root of the mirrored series/game tree.
	OutputDir string

	// Workers is the number of concurrent download workers.
	Workers int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps each response body in bytes. Zero uses the default.
	MaxBodySize int64

	// Formats are downloaded for every sheet, in order.
	Formats []model.SheetFormat

	// Strict aborts the crawl on the first series failure instead of
	// skipping the series.
	Strict bool

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// Headers are extra request headers.
	Headers map[string]string

	// IndexPath overrides the catalog index location.
	IndexPath string

	// NoIndex disables the catalog index.
	NoIndex bool

	// ReportFile, when set, receives a summary in ReportFormat.
	ReportFile   string
	ReportFormat string

	// Schema overrides the page markers the crawler looks for.
	Schema catalog.Schema

	// ConfigFilePath is the config file given with --config.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		OutputDir:    DefaultOutputDir,
		Workers:      DefaultWorkers,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		Formats:      model.AllFormats(),
		ReportFormat: DefaultReportFormat,
		Schema:       catalog.DefaultSchema(),
	}
}

// XDGConfigDir returns the XDG config directory for nsmarchive.
// On Linux: ~/.config/nsmarchive
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// IndexFile returns where the catalog index is written, or "" when the
// index is disabled.
func (c *Config) IndexFile() string {
	switch {
	case c.NoIndex:
		return ""
	case c.IndexPath != "":
		return c.IndexPath
	default:
		return filepath.Join(c.OutputDir, DefaultIndexFile)
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if len(c.Formats) == 0 {
		return ErrNoFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	switch strings.ToLower(c.ReportFormat) {
	case "text", "markdown", "md", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReportFormat, c.ReportFormat)
	}

	return nil
}

// ParseFormats parses format names such as "pdf", "mid" or "midi",
// dropping duplicates and keeping the given order.
func ParseFormats(names []string) ([]model.SheetFormat, error) {
	formats := make([]model.SheetFormat, 0, len(names))
	seen := make(map[model.SheetFormat]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := model.ParseSheetFormat(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, ErrNoFormats
	}
	return formats, nil
}

// ApplyFile overlays the non-empty settings of f onto c.
func (c *Config) ApplyFile(f *File) error {
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Output != "" {
		c.OutputDir = f.Output
	}
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, f.Timeout)
		}
		c.Timeout = d
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if len(f.Formats) > 0 {
		formats, err := ParseFormats(f.Formats)
		if err != nil {
			return err
		}
		c.Formats = formats
	}
	if f.Strict != nil {
		c.Strict = *f.Strict
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.Index != "" {
		c.IndexPath = f.Index
	}
	if f.NoIndex {
		c.NoIndex = true
	}
	if f.Report.Path != "" {
		c.ReportFile = f.Report.Path
	}
	if f.Report.Format != "" {
		c.ReportFormat = f.Report.Format
	}
	c.Schema = f.Schema.Merge(c.Schema)
	return nil
}
