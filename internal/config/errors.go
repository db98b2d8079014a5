package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// ParseFormats. Callers match them with errors.Is.
var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrNoFormats is returned when no sheet format is selected.
	ErrNoFormats = errors.New("no formats selected")

	// ErrUnknownFormat is returned for a format name other than pdf, mid or mus.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidReportFormat is returned for a report format other than
	// text, markdown or json.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, markdown or json")
)
