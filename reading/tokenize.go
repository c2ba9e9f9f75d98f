package reading

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into display tokens.
//
// Whitespace separates chunks. Inside a chunk, punctuation between two word
// segments stays in the word ("well-known"), trailing punctuation becomes
// marks, and leading punctuation stays as a prefix. Adjacent word segments
// with nothing between them (ideographs) become separate tokens. A line
// break after a token adds a single '\n' mark.
func Tokenize(text string) []Token {
	text = norm.NFC.String(text)

	var tokens []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if r == '\n' && len(tokens) > 0 {
				addMark(&tokens[len(tokens)-1], '\n')
			}
			i += size
			continue
		}

		j := i
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += size
		}
		tokens = appendChunk(tokens, text[i:j])
		i = j
	}

	for k := range tokens {
		tokens[k].SentenceStart = k == 0 || endsSentence(tokens[k-1])
	}
	return tokens
}

// appendChunk splits one whitespace-free chunk into tokens
func appendChunk(tokens []Token, chunk string) []Token {
	var (
		word    strings.Builder
		pending strings.Builder // Punctuation seen after the last word segment
		hasWord bool
	)

	state := -1
	rest := chunk
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)

		if !isWordSegment(seg) {
			if hasWord {
				pending.WriteString(seg)
			} else {
				word.WriteString(seg)
			}
			continue
		}

		if hasWord && pending.Len() == 0 {
			tokens = append(tokens, Token{Text: word.String()})
			word.Reset()
		}
		word.WriteString(pending.String())
		pending.Reset()
		word.WriteString(seg)
		hasWord = true
	}

	if !hasWord {
		// Punctuation-only chunk ("—", "...") trails the previous word
		if len(tokens) > 0 {
			for _, r := range word.String() {
				addMark(&tokens[len(tokens)-1], r)
			}
		}
		return tokens
	}

	tok := Token{Text: word.String()}
	if pending.Len() > 0 {
		tok.Marks = []rune(pending.String())
	}
	return append(tokens, tok)
}

// isWordSegment reports whether a segment carries letters, digits or symbols
func isWordSegment(seg string) bool {
	for _, r := range seg {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}

// addMark appends a mark; '\n' is recorded once per token
func addMark(t *Token, r rune) {
	if r == '\n' && t.HasMark('\n') {
		return
	}
	t.Marks = append(t.Marks, r)
}
