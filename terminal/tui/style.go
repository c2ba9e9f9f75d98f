package tui

import (
	"github.com/henrythdu/Speedy/terminal"
)

// Style bundles foreground, background, and attributes for text rendering
type Style struct {
	Fg   terminal.RGB
	Bg   terminal.RGB
	Attr terminal.Attr
}

// WithAttr returns a copy of the style with extra attributes
func (s Style) WithAttr(a terminal.Attr) Style {
	s.Attr |= a
	return s
}
