package words

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gameshub/wordme/internal/apperr"
)

const (
	MinLen = 5
	MaxLen = 7
)

// Fold strips diacritics, drops every rune that is not an ASCII letter and
// upper-cases the rest: "  coração!" → "CORACAO".
func Fold(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, raw)
	if err != nil {
		s = raw
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize folds raw and checks the result is an acceptable catalogue word.
func Normalize(raw string) (string, error) {
	w := Fold(raw)
	if len(w) < MinLen || len(w) > MaxLen {
		return "", apperr.New(apperr.Validation, fmt.Sprintf("word must have between %d and %d letters", MinLen, MaxLen))
	}
	return w, nil
}

// ValidLength reports whether n is a catalogue bucket.
func ValidLength(n int) bool { return n >= MinLen && n <= MaxLen }
