// Package arabic normalizes text for typing comparison.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tatweel is the Arabic elongation character, semantically inert for typing.
const Tatweel = 'ـ'

// Invisible or alternate space characters mapped to a plain space before
// comparison. Covers NBSP, zero-width space/joiner/non-joiner, and the
// directional marks that editors insert around Arabic text.
var spaceLike = map[rune]struct{}{
	' ': {},
	'​': {},
	'‌': {},
	'‍': {},
	'‎': {},
	'‏': {},
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M)))

// Normalize prepares a string for position-by-position comparison: space-like
// characters become plain spaces, combining marks (harakat and friends) are
// removed after canonical decomposition, and tatweel is dropped. The result of
// normalizing a normalized string is the string itself.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	mapped := strings.Map(func(r rune) rune {
		if _, ok := spaceLike[r]; ok {
			return ' '
		}
		return r
	}, s)
	stripped, _, err := transform.String(stripMarks, mapped)
	if err != nil {
		// transform.String only fails on short destination buffers, which
		// it grows itself; fall back to a manual pass just in case.
		stripped = stripManually(mapped)
	}
	return strings.Map(func(r rune) rune {
		if r == Tatweel {
			return -1
		}
		return r
	}, stripped)
}

func stripManually(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.In(r, unicode.M) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
