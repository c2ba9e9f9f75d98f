// Package viewport resolves whether the terminal can show pixel graphics and
// tracks the cell and pixel geometry needed to place them.
package viewport

import (
	"image"
	"math"

	"github.com/henrythdu/Speedy/terminal"
)

// Dimensions is the terminal text area in cells and pixels.
// Pixel fields are zero when the terminal reports none.
type Dimensions struct {
	PixelW, PixelH int
	Cols, Rows     int
	CellW, CellH   float64
}

// NewDimensions derives cell size from pixel and cell extents
func NewDimensions(pixelW, pixelH, cols, rows int) Dimensions {
	d := Dimensions{PixelW: pixelW, PixelH: pixelH, Cols: cols, Rows: rows}
	if cols > 0 {
		d.CellW = float64(pixelW) / float64(cols)
	}
	if rows > 0 {
		d.CellH = float64(pixelH) / float64(rows)
	}
	return d
}

// FromWinsize converts the kernel window size
func FromWinsize(ws terminal.Winsize) Dimensions {
	return NewDimensions(ws.PixelW, ws.PixelH, ws.Cols, ws.Rows)
}

// HasPixels reports whether pixel geometry is known
func (d Dimensions) HasPixels() bool {
	return d.PixelW > 0 && d.PixelH > 0 && d.Cols > 0 && d.Rows > 0
}

// CellToPixel returns the top-left pixel of a cell
func (d Dimensions) CellToPixel(col, row int) image.Point {
	return image.Pt(int(float64(col)*d.CellW), int(float64(row)*d.CellH))
}

// RectToPixels converts a rectangle in cells to pixels.
// Edges are truncated so adjacent rectangles never overlap.
func (d Dimensions) RectToPixels(cells image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: d.CellToPixel(cells.Min.X, cells.Min.Y),
		Max: d.CellToPixel(cells.Max.X, cells.Max.Y),
	}
}

// FontSize returns a pixel size that fills roughly scale rows
func (d Dimensions) FontSize(scale float64) float64 {
	if d.CellH <= 0 {
		return 0
	}
	return math.Round(d.CellH * scale)
}
