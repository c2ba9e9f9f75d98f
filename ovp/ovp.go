// Package ovp computes the optimal viewing position: which letter of a word
// the eye fixates on, and where to start drawing so that letter sits on a
// fixed point.
package ovp

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// AnchorIndex returns the 0-based grapheme index of the fixation letter for a word of n graphemes
func AnchorIndex(n int) int {
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	default:
		return 3
	}
}

// Anchor returns the fixation index for a displayed word. Trailing
// punctuation ("hello." or "Fast!") is drawn but not counted.
func Anchor(word string) int {
	clusters := Graphemes(word)
	n := len(clusters)
	for n > 0 && !isLetterish(clusters[n-1]) {
		n--
	}
	if n == 0 {
		n = len(clusters)
	}
	return AnchorIndex(n)
}

func isLetterish(cluster string) bool {
	for _, r := range cluster {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}

// Graphemes splits word into user-perceived characters
func Graphemes(word string) []string {
	var out []string
	state := -1
	for len(word) > 0 {
		var cluster string
		cluster, word, _, state = uniseg.FirstGraphemeClusterInString(word, state)
		out = append(out, cluster)
	}
	return out
}

// StartX returns the left edge for a word whose anchor glyph must be centred on centerX.
// prefixWidth is the advance of everything before the anchor, anchorWidth the anchor's advance.
func StartX(centerX, prefixWidth, anchorWidth float64) float64 {
	return centerX - (prefixWidth + anchorWidth/2)
}

// Split returns the text before the anchor, the anchor grapheme, and the rest.
// anchor is the index into the word's graphemes.
func Split(word string, anchor int) (prefix, mark, suffix string) {
	clusters := Graphemes(word)
	if len(clusters) == 0 {
		return "", "", ""
	}
	anchor = min(max(anchor, 0), len(clusters)-1)
	for i, c := range clusters {
		switch {
		case i < anchor:
			prefix += c
		case i == anchor:
			mark = c
		default:
			suffix += c
		}
	}
	return prefix, mark, suffix
}

// CellStart returns the starting column on a character grid so the anchor
// grapheme lands on centerCol. Display widths account for wide runes; the
// result never goes below zero.
func CellStart(centerCol int, word string, anchor int) int {
	prefix, _, _ := Split(word, anchor)
	return max(centerCol-runewidth.StringWidth(prefix), 0)
}
