package model

import (
	"fmt"
	"strings"
)

// SheetFormat is one of the file types a sheet can be downloaded as.
// The set is closed: PDF, MID and MUS.
type SheetFormat int

const (
	// FormatPDF is the notation document.
	FormatPDF SheetFormat = iota
	// FormatMID is the MIDI rendition.
	FormatMID
	// FormatMUS is the proprietary score format.
	FormatMUS
)

// AllFormats returns every format in canonical order.
func AllFormats() []SheetFormat {
	return []SheetFormat{FormatPDF, FormatMID, FormatMUS}
}

// String returns the lowercase name, which is both the URL path segment
// and the file extension.
func (f SheetFormat) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatMID:
		return "mid"
	case FormatMUS:
		return "mus"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Extension returns the file extension for the format, without a dot.
func (f SheetFormat) Extension() string {
	return f.String()
}

// ParseSheetFormat maps a case-insensitive name to a SheetFormat.
// "midi" is accepted as an alias of "mid".
func ParseSheetFormat(name string) (SheetFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdf":
		return FormatPDF, nil
	case "mid", "midi":
		return FormatMID, nil
	case "mus":
		return FormatMUS, nil
	default:
		return 0, fmt.Errorf("unknown sheet format %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f SheetFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *SheetFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseSheetFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
