package tui

import (
	"github.com/henrythdu/Speedy/terminal"
)

// Progress bar characters
const (
	progressFull  = '█'
	progressEmpty = '░'
	progressHalf  = '▌'
)

// Progress draws horizontal progress bar (0.0-1.0)
func (r Region) Progress(x, y, w int, pct float64, fg, bg terminal.RGB) {
	if y < 0 || y >= r.H || w <= 0 {
		return
	}
	pct = min(max(pct, 0), 1)

	filled := int(float64(w) * pct)
	remainder := float64(w)*pct - float64(filled)

	for i := 0; i < w && x+i < r.W; i++ {
		ch := progressEmpty
		if i < filled {
			ch = progressFull
		} else if i == filled && remainder >= 0.5 {
			ch = progressHalf
		}
		r.Cell(x+i, y, ch, fg, bg, terminal.AttrNone)
	}
}
