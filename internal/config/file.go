package config

import "github.com/nao1215/nsmarchive/internal/catalog"

// File is the structure of the .nsmarchive configuration file. Every field
// is optional; empty fields keep the current setting.
type File struct {
	BaseURL string `yaml:"baseURL,omitempty"`
	Output  string `yaml:"output,omitempty"`
	Workers int    `yaml:"workers,omitempty"`

	// Timeout is a Go duration string such as "60s".
	Timeout string `yaml:"timeout,omitempty"`

	UserAgent   string   `yaml:"userAgent,omitempty"`
	MaxBodySize int64    `yaml:"maxBodySize,omitempty"`
	Formats     []string `yaml:"formats,omitempty"`

	// Strict is a pointer so that "strict: false" can be told apart from
	// an absent key.
	Strict *bool `yaml:"strict,omitempty"`

	Proxy   string            `yaml:"proxy,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`

	Index   string `yaml:"index,omitempty"`
	NoIndex bool   `yaml:"noIndex,omitempty"`

	Report ReportFile `yaml:"report,omitempty"`

	// Schema overrides the page markers of the catalog site.
	Schema catalog.Schema `yaml:"schema,omitempty"`
}

// ReportFile configures the summary report file.
type ReportFile struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}
