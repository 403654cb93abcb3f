package canonical

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a display name for matching: lower-case,
// Unicode-decompose and strip combining marks, collapse runs of whitespace.
// Normalization equality is the only name-equality primitive the matching
// tiers use, so this function must stay deterministic.
func NormalizeName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	prevSpace := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}

	return strings.TrimRight(b.String(), " ")
}

// NamesMatch reports whether two raw names normalize identically.
func NamesMatch(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// SplitFullName splits a display name into given name and surname, treating
// the last whitespace token as the surname. Known limitation: multi-word
// surnames and given-name-last orderings are not handled; providers do not
// expose enough structure to do better.
func SplitFullName(raw string) (given, surname string) {
	fields := strings.Fields(strings.TrimSpace(raw))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}
