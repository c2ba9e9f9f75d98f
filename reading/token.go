package reading

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Token is one displayed word with the punctuation that follows it
type Token struct {
	Text          string
	Marks         []rune // Trailing punctuation in order, '\n' for a line break
	SentenceStart bool
}

// HasMark reports whether r trails the word
func (t Token) HasMark(r rune) bool {
	return slices.Contains(t.Marks, r)
}

// Graphemes returns the number of user-perceived characters in Text
func (t Token) Graphemes() int {
	return uniseg.GraphemeClusterCount(t.Text)
}

// Display returns the word as shown on screen: text plus printable marks
func (t Token) Display() string {
	if len(t.Marks) == 0 {
		return t.Text
	}
	var b strings.Builder
	b.WriteString(t.Text)
	for _, m := range t.Marks {
		if m != '\n' {
			b.WriteRune(m)
		}
	}
	return b.String()
}

// abbreviations never end a sentence when followed by '.'
var abbreviations = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "st": {},
	"jr": {}, "e.g": {}, "i.e": {}, "vs": {}, "etc": {},
}

// isAbbreviation matches the closed abbreviation set, ignoring case and leading punctuation
func isAbbreviation(t Token) bool {
	if len(t.Marks) == 0 || t.Marks[0] != '.' {
		return false
	}
	word := strings.TrimLeftFunc(t.Text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	_, ok := abbreviations[strings.ToLower(word)]
	return ok
}

// endsSentence reports whether the token closes a sentence. Points inside a
// number ("3.14", "1,000.5") are part of Text, so every '.' mark is a real terminator.
func endsSentence(t Token) bool {
	if t.HasMark('\n') {
		return true
	}
	if !t.HasMark('.') && !t.HasMark('?') && !t.HasMark('!') {
		return false
	}
	return !isAbbreviation(t)
}
