package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/henrythdu/Speedy/terminal"
)

// TextFieldStyle defines text field colors
type TextFieldStyle struct {
	TextFg        terminal.RGB
	TextBg        terminal.RGB
	CursorFg      terminal.RGB
	CursorBg      terminal.RGB
	PlaceholderFg terminal.RGB
	PrefixFg      terminal.RGB
}

// TextFieldOpts configures text field rendering
type TextFieldOpts struct {
	Placeholder string // Shown when empty
	Prefix      string // Left prompt, e.g. "> "
	Focused     bool   // Show cursor
	Style       TextFieldStyle
}

// TextField renders a single-line field on row 0 of the region
func (r Region) TextField(state *TextFieldState, opts TextFieldOpts) {
	if r.W < 3 || r.H < 1 {
		return
	}
	st := opts.Style

	for x := 0; x < r.W; x++ {
		r.Cell(x, 0, ' ', st.TextFg, st.TextBg, terminal.AttrNone)
	}
	x := r.Text(0, 0, opts.Prefix, st.PrefixFg, st.TextBg, terminal.AttrBold)

	viewportW := r.W - x
	if viewportW < 1 {
		return
	}

	if len(state.Text) == 0 && !opts.Focused {
		r.Text(x, 0, Truncate(opts.Placeholder, viewportW), st.PlaceholderFg, st.TextBg, terminal.AttrNone)
		return
	}

	// Scroll is tracked in runes; wide runes make the visible span shorter, which is fine for a prompt
	state.AdjustScroll(viewportW)
	col := x
	for i := state.Scroll; i <= len(state.Text) && col < r.W; i++ {
		ch := ' '
		if i < len(state.Text) {
			ch = state.Text[i]
		}
		fg, bg := st.TextFg, st.TextBg
		if opts.Focused && i == state.Cursor {
			fg, bg = st.CursorFg, st.CursorBg
		}
		w := max(runewidth.RuneWidth(ch), 1)
		if col+w > r.W {
			break
		}
		r.Cell(col, 0, ch, fg, bg, terminal.AttrNone)
		if w == 2 {
			r.Cell(col+1, 0, terminal.RuneContinuation, fg, bg, terminal.AttrNone)
		}
		col += w
	}

	if state.Scroll > 0 {
		r.Cell(x, 0, '◀', st.PlaceholderFg, st.TextBg, terminal.AttrNone)
	}
}
