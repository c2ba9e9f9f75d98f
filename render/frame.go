package render

import "image"

// Emphasis selects how strongly the zone is drawn
type Emphasis uint8

const (
	EmphasisActive Emphasis = iota // reading
	EmphasisPaused                 // frozen, context words brighter
	EmphasisDimmed                 // command line focused
)

// Frame describes what the reading zone shows
type Frame struct {
	Word     string
	Before   []string // ghost words, nearest first
	After    []string // ghost words, nearest first
	Emphasis Emphasis
	Zone     image.Rectangle // in cells
}

// Blank reports whether there is nothing to draw but background
func (f Frame) Blank() bool {
	return f.Word == ""
}
