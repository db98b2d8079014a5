package model

import (
	"errors"
	"fmt"
)

// Error kinds shared across the crawl and download phases.
// Concrete errors wrap one of these so callers can classify with errors.Is.
var (
	// ErrNetwork covers transport failures, deadlines and non-2xx statuses.
	ErrNetwork = errors.New("network error")

	// ErrParse covers missing expected HTML structure and malformed sheet IDs.
	ErrParse = errors.New("parse error")

	// ErrIO covers directory and file creation or write failures.
	ErrIO = errors.New("io error")
)

// NetworkError wraps err as an ErrNetwork for the given URL.
func NetworkError(url string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNetwork, url, err)
}

// ParseError builds an ErrParse with a formatted message.
func ParseError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// IOError wraps err as an ErrIO for the given path.
func IOError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
}

// ErrorKind returns a short label for the error's kind, or "unknown".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}
