package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-folded, NFKC-normalized form of s used for
// case-insensitive substring matching. Line breaks become spaces so a
// folded title is a single line.
func Fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	// Casers carry state and are not safe for concurrent use.
	return cases.Fold().String(s)
}
