package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestName tests path component sanitization.
func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Game X", "Game X"},
		{"ampersand kept", "Zelda & Friends", "Zelda & Friends"},
		{"separators replaced", "Part 1/2\\3", "Part 1_2_3"},
		{"reserved punctuation", `What? <Now>: "yes"|*`, "What_ _Now__ _yes___"},
		{"control characters", "a\x00b\x1fc", "a_b_c"},
		{"whitespace collapsed", "  Name \t with\n spaces  ", "Name with spaces"},
		{"trailing dots", "Ending...", "Ending"},
		{"dot only", "..", "_"},
		{"empty", "", "_"},
		{"reserved device name", "con", "_con"},
		{"reserved device name with extension", "NUL.txt", "_NUL.txt"},
		{"decomposed accents composed", "Poke\u0301mon", "Pok\u00e9mon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		for _, tt := range tests {
			once := Name(tt.in)
			if twice := Name(once); twice != once {
				t.Errorf("Name not idempotent for %q: %q then %q", tt.in, once, twice)
			}
		}
	})

	t.Run("long names are cut on a rune boundary", func(t *testing.T) {
		t.Parallel()

		got := Name(strings.Repeat("é", 150))
		if len(got) > MaxNameBytes {
			t.Errorf("expected at most %d bytes, got %d", MaxNameBytes, len(got))
		}
		if !utf8.ValidString(got) {
			t.Error("expected valid UTF-8")
		}
	})
}
