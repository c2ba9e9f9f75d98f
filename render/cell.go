package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/ovp"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/viewport"
)

// CellRenderer draws the zone on the character grid for terminals without
// pixel graphics. The anchor letter lands on the zone's centre column.
type CellRenderer struct {
	style Style
}

// NewCellRenderer creates the fallback renderer
func NewCellRenderer(style Style) *CellRenderer {
	return &CellRenderer{style: style}
}

func (c *CellRenderer) Capability() viewport.Capability {
	return viewport.Fallback
}

// Compose writes the word and its context into the zone cells
func (c *CellRenderer) Compose(f Frame, _ viewport.Dimensions, buf *Buffer) error {
	region := buf.Region().Sub(f.Zone.Min.X, f.Zone.Min.Y, f.Zone.Dx(), f.Zone.Dy())
	bg := config.RGB(c.style.Palette.Background)
	region.Fill(bg)
	if region.Empty() || f.Blank() {
		return nil
	}

	textC, anchorC := c.style.colors(f.Emphasis)
	row := min(int(float64(region.H)*c.style.VerticalFraction), region.H-1)
	anchor := ovp.Anchor(f.Word)
	prefix, mark, suffix := ovp.Split(f.Word, anchor)
	start := ovp.CellStart(region.W/2, f.Word, anchor)

	x := start
	x += region.Text(x, row, prefix, config.RGB(textC), bg, terminal.AttrNone)
	x += region.Text(x, row, mark, config.RGB(anchorC), bg, terminal.AttrBold)
	x += region.Text(x, row, suffix, config.RGB(textC), bg, terminal.AttrNone)

	ghostC, ok := c.style.ghostColor(f.Emphasis)
	if !ok {
		return nil
	}
	ghost := config.RGB(ghostC)

	left := start - 1
	for _, g := range f.Before {
		w := runewidth.StringWidth(g)
		if left-w < 0 {
			break
		}
		left -= w
		region.Text(left, row, g, ghost, bg, terminal.AttrNone)
		left--
	}

	right := x + 1
	for _, g := range f.After {
		if right >= region.W {
			break
		}
		right += region.Text(right, row, g, ghost, bg, terminal.AttrNone) + 1
	}
	return nil
}

func (c *CellRenderer) Present() error { return nil }
func (c *CellRenderer) Clear() error   { return nil }
func (c *CellRenderer) Close() error   { return nil }
