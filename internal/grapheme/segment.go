// Package grapheme splits strings into user-perceived characters.
package grapheme

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Segmenter produces the ordered grapheme clusters of a string. Combining
// marks stay attached to their preceding base character.
type Segmenter interface {
	Segments(s string) []string
}

// Default returns the segmenter used for gameplay. The UAX #29 implementation
// is always available; the codepoint fallback stays around for hosts where a
// boundary-aware segmenter is not wanted.
func Default() Segmenter {
	return Uniseg{}
}

// Uniseg segments along UAX #29 grapheme cluster boundaries.
type Uniseg struct{}

// Segments implements Segmenter.
func (Uniseg) Segments(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		out = append(out, cluster)
		s = rest
		state = newState
	}
	return out
}

// Codepoints is the fallback segmenter: it composes the string and splits on
// codepoints. Multi-codepoint emoji and rare clusters split incorrectly, which
// is acceptable for Arabic prose where composition folds marks into the base.
type Codepoints struct{}

// Segments implements Segmenter.
func (Codepoints) Segments(s string) []string {
	if s == "" {
		return nil
	}
	composed := norm.NFC.String(s)
	out := make([]string, 0, len(composed))
	for _, r := range composed {
		out = append(out, string(r))
	}
	return out
}
