package terminal

import (
	"bufio"
	"io"
)

// RuneContinuation marks the right half of a double-width rune
const RuneContinuation rune = -2

// outputBuffer manages double-buffered terminal output with diffing
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool
}

func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		writer:    bufio.NewWriterSize(w, 64*1024),
		colorMode: colorMode,
	}
}

// resize updates buffer dimensions and invalidates the front buffer
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height
	o.forceFullRedraw()
}

func cellEqual(a, b Cell) bool {
	if a.Rune != b.Rune || a.Attrs != b.Attrs || a.Bg != b.Bg {
		return false
	}
	// Blank cells only show their background
	return a.Fg == b.Fg || a.Rune == 0 || a.Rune == ' '
}

// flush writes cells to the terminal, diffing against the front buffer
func (o *outputBuffer) flush(cells []Cell, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}
	if len(cells) < width*height {
		return
	}

	w := o.writer

	for y := 0; y < height; y++ {
		rowStart := y * width
		x := 0

		for x < width {
			idx := rowStart + x
			if cellEqual(cells[idx], o.front[idx]) {
				x++
				continue
			}

			// Position cursor once for this dirty run
			if !o.cursorValid || x != o.cursorX || y != o.cursorY {
				if o.cursorValid && y == o.cursorY && x > o.cursorX {
					writeCursorForward(w, x-o.cursorX)
				} else {
					writeCursorPos(w, x, y)
				}
				o.cursorX = x
				o.cursorY = y
				o.cursorValid = true
			}

			for x < width {
				cidx := rowStart + x
				c := cells[cidx]
				if cellEqual(c, o.front[cidx]) {
					break
				}

				o.front[cidx] = c
				x++

				if c.Rune == RuneContinuation {
					// Covered by the wide rune to the left
					o.cursorX++
					continue
				}

				o.writeStyle(w, c.Fg, c.Bg, c.Attrs)

				r := c.Rune
				if r <= 0 {
					r = ' '
				}
				if r < 0x80 {
					w.WriteByte(byte(r))
				} else {
					w.WriteRune(r)
				}
				o.cursorX++
				if r >= 0x1100 {
					// Possibly double width: re-anchor with an absolute move next time
					o.cursorValid = false
				}
			}
		}
	}

	w.Write(csiSGR0)
	o.lastValid = false
	w.Flush()
}

// writeStyle emits one combined SGR sequence when the style changed
func (o *outputBuffer) writeStyle(w *bufio.Writer, fg, bg RGB, attr Attr) {
	if o.lastValid && fg == o.lastFg && bg == o.lastBg && attr == o.lastAttr {
		return
	}

	if !o.lastValid || attr != o.lastAttr {
		// Attribute changes require a reset, then the full style
		w.Write(csi)
		w.WriteByte('0')
		for _, a := range sgrAttrs {
			if attr&a.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(a.code)
			}
		}
		w.WriteByte(';')
		o.writeColor(w, fg, '3')
		w.WriteByte(';')
		o.writeColor(w, bg, '4')
		w.WriteByte('m')
	} else {
		switch {
		case fg != o.lastFg && bg != o.lastBg:
			w.Write(csi)
			o.writeColor(w, fg, '3')
			w.WriteByte(';')
			o.writeColor(w, bg, '4')
			w.WriteByte('m')
		case fg != o.lastFg:
			o.writeColorFull(w, fg, true)
		default:
			o.writeColorFull(w, bg, false)
		}
	}

	o.lastFg = fg
	o.lastBg = bg
	o.lastAttr = attr
	o.lastValid = true
}

var sgrAttrs = [...]struct {
	attr Attr
	code byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrReverse, '7'},
}

// writeColor writes "38;2;R;G;B" or "38;5;N" (prefix '3' fg, '4' bg) without CSI or 'm'
func (o *outputBuffer) writeColor(w *bufio.Writer, c RGB, prefix byte) {
	w.WriteByte(prefix)
	if o.colorMode == ColorModeTrueColor {
		w.WriteString("8;2;")
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
		return
	}
	w.WriteString("8;5;")
	writeInt(w, int(RGBTo256(c)))
}

// writeColorFull writes a complete fg or bg color sequence
func (o *outputBuffer) writeColorFull(w *bufio.Writer, c RGB, fg bool) {
	if o.colorMode == ColorModeTrueColor {
		if fg {
			w.Write(csiFgRGB)
		} else {
			w.Write(csiBgRGB)
		}
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
		w.WriteByte('m')
		return
	}
	if fg {
		w.Write(csiFg256)
	} else {
		w.Write(csiBg256)
	}
	writeInt(w, int(RGBTo256(c)))
	w.WriteByte('m')
}

// forceFullRedraw clears front buffer to force complete redraw
func (o *outputBuffer) forceFullRedraw() {
	for i := range o.front {
		o.front[i] = Cell{Rune: -1}
	}
	o.lastValid = false
	o.cursorValid = false
}

// clear writes a clear screen with specified background
func (o *outputBuffer) clear(bg RGB) {
	w := o.writer
	w.Write(csiSGR0)
	o.writeColorFull(w, bg, false)
	w.Write(csiClear)

	o.lastValid = false
	o.cursorValid = false
	w.Flush()

	for i := range o.front {
		o.front[i] = Cell{Rune: ' ', Bg: bg}
	}
}

// invalidateCursor marks cursor position as unknown
func (o *outputBuffer) invalidateCursor() {
	o.cursorValid = false
	o.lastValid = false
}
