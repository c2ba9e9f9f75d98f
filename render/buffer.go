package render

import (
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/terminal/tui"
)

// Buffer is the cell grid composed each frame before a single flush
// Uses []terminal.Cell directly so regions and the terminal share it without copies
type Buffer struct {
	cells  []terminal.Cell
	width  int
	height int
	bg     terminal.RGB
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear(b.bg)
}

// Clear resets all cells to blank on bg using exponential copy
func (b *Buffer) Clear(bg terminal.RGB) {
	b.bg = bg
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = terminal.Cell{Rune: ' ', Fg: bg, Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns width and height in cells
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Cells exposes the row-major backing slice
func (b *Buffer) Cells() []terminal.Cell {
	return b.cells
}

// Region returns a drawing region covering the whole buffer
func (b *Buffer) Region() tui.Region {
	return tui.NewRegion(b.cells, b.width, 0, 0, b.width, b.height)
}

// Flusher receives a finished cell grid; terminal.Terminal satisfies it
type Flusher interface {
	Flush(cells []terminal.Cell, width, height int)
}

// FlushTo hands the buffer to the terminal's diff renderer
func (b *Buffer) FlushTo(f Flusher) {
	f.Flush(b.cells, b.width, b.height)
}
