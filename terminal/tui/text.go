package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/henrythdu/Speedy/terminal"
)

// Text draws s starting at column x of row y and returns the columns used.
// Double-width runes take two cells; the second holds terminal.RuneContinuation.
func (r Region) Text(x, y int, s string, fg, bg terminal.RGB, attr terminal.Attr) int {
	if y < 0 || y >= r.H {
		return 0
	}
	start := x
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > r.W {
			break
		}
		r.Cell(x, y, ch, fg, bg, attr)
		if w == 2 {
			r.Cell(x+1, y, terminal.RuneContinuation, fg, bg, attr)
		}
		x += w
	}
	return x - start
}

// TextStyled draws s with a Style
func (r Region) TextStyled(x, y int, s string, st Style) int {
	return r.Text(x, y, s, st.Fg, st.Bg, st.Attr)
}

// TextRight draws s right-aligned on row y and returns its starting column
func (r Region) TextRight(y int, s string, fg, bg terminal.RGB, attr terminal.Attr) int {
	s = Truncate(s, r.W)
	x := r.W - Width(s)
	r.Text(x, y, s, fg, bg, attr)
	return x
}

// TextCenter draws s centered on row y
func (r Region) TextCenter(y int, s string, fg, bg terminal.RGB, attr terminal.Attr) {
	s = Truncate(s, r.W)
	r.Text((r.W-Width(s))/2, y, s, fg, bg, attr)
}

// Width returns the display width of s in cells
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxW columns, marking the cut with …
func Truncate(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxW {
		return s
	}
	return runewidth.Truncate(s, maxW, "…")
}

// TruncateLeft keeps the end of s, marking the cut with a leading …
func TruncateLeft(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxW {
		return s
	}
	runes := []rune(s)
	w := 1
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > maxW {
			break
		}
		w += rw
		i--
	}
	return "…" + string(runes[i:])
}

// RepeatRune returns a string of n repeated runes
func RepeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(r), n)
}
