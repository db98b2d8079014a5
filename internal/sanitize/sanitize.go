// Package sanitize turns catalog names into names that are safe to use as a
// single path component on Linux, macOS and Windows.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameBytes bounds a sanitized name, leaving room for an extension
// within the common 255-byte component limit.
const MaxNameBytes = 200

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	whitespaceRun = regexp.MustCompile(`\s+`)

	// reservedNames are device names Windows refuses as file stems.
	reservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// Name returns name as a single safe path component.
//
// The result is NFC-normalized, has separators, reserved punctuation and
// control characters replaced by "_", whitespace runs collapsed, and no
// leading or trailing spaces or trailing dots. It is never empty, "." or "..".
// Name is idempotent: Name(Name(s)) == Name(s).
func Name(name string) string {
	name = strings.ToValidUTF8(name, "_")
	name = norm.NFC.String(name)
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = invalidChars.ReplaceAllString(name, "_")
	name = truncate(name, MaxNameBytes)
	name = strings.TrimLeft(name, " ")
	name = strings.TrimRight(name, " .")

	if name == "" {
		return "_"
	}

	stem, _, _ := strings.Cut(name, ".")
	if reservedNames[strings.ToUpper(stem)] {
		name = "_" + name
	}

	return name
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
