package tui

import (
	"github.com/henrythdu/Speedy/terminal"
)

// LineType specifies box drawing character style
type LineType uint8

const (
	LineSingle  LineType = iota // ┌─┐│└┘
	LineDouble                  // ╔═╗║╚╝
	LineRounded                 // ╭─╮│╰╯
	LineHeavy                   // ┏━┓┃┗┛
)

var boxChars = [...][6]rune{
	LineSingle:  {'┌', '─', '┐', '│', '└', '┘'},
	LineDouble:  {'╔', '═', '╗', '║', '╚', '╝'},
	LineRounded: {'╭', '─', '╮', '│', '╰', '╯'},
	LineHeavy:   {'┏', '━', '┓', '┃', '┗', '┛'},
}

const (
	boxTL = iota
	boxH
	boxTR
	boxV
	boxBL
	boxBR
)

// Box draws border around region edge keeping the existing background
func (r Region) Box(line LineType, fg terminal.RGB) {
	if r.W < 2 || r.H < 2 {
		return
	}
	if int(line) >= len(boxChars) {
		line = LineSingle
	}
	chars := boxChars[line]

	put := func(x, y int, ch rune) {
		r.Cell(x, y, ch, fg, r.At(x, y).Bg, terminal.AttrNone)
	}

	put(0, 0, chars[boxTL])
	put(r.W-1, 0, chars[boxTR])
	put(0, r.H-1, chars[boxBL])
	put(r.W-1, r.H-1, chars[boxBR])
	for x := 1; x < r.W-1; x++ {
		put(x, 0, chars[boxH])
		put(x, r.H-1, chars[boxH])
	}
	for y := 1; y < r.H-1; y++ {
		put(0, y, chars[boxV])
		put(r.W-1, y, chars[boxV])
	}
}

// Card draws a titled border and returns the inner content region
func (r Region) Card(title string, line LineType, fg terminal.RGB) Region {
	r.Box(line, fg)
	if title != "" && r.W > 4 {
		label := " " + Truncate(title, r.W-6) + " "
		r.Text(2, 0, label, fg, r.At(2, 0).Bg, terminal.AttrBold)
	}
	return r.Inset(1)
}
