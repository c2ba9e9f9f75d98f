package render

import (
	"image"

	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/viewport"
)

// GraphicsRenderer draws the zone as one pixel image
type GraphicsRenderer struct {
	comp  *Compositor
	tx    *Transmitter
	style Style

	canvas *image.RGBA
	zone   image.Rectangle
	ready  bool
}

// NewGraphicsRenderer creates a renderer transmitting through w
func NewGraphicsRenderer(w Writer, words WordSource, style Style) *GraphicsRenderer {
	return &GraphicsRenderer{
		comp:  NewCompositor(words, style),
		tx:    NewTransmitter(w, DefaultImageID),
		style: style,
	}
}

func (g *GraphicsRenderer) Capability() viewport.Capability {
	return viewport.Graphics
}

// Compose fills the zone cells with background and renders the canvas.
// With no pixel geometry nothing is staged and Present removes the image.
func (g *GraphicsRenderer) Compose(f Frame, dims viewport.Dimensions, buf *Buffer) error {
	buf.Region().Sub(f.Zone.Min.X, f.Zone.Min.Y, f.Zone.Dx(), f.Zone.Dy()).
		Fill(config.RGB(g.style.Palette.Background))

	g.ready = false
	if !dims.HasPixels() || f.Zone.Empty() {
		return nil
	}
	px := dims.RectToPixels(f.Zone).Size()
	canvas, err := g.comp.Compose(f, px, g.comp.FontSize(dims))
	if err != nil {
		return err
	}
	g.canvas, g.zone, g.ready = canvas, f.Zone, true
	return nil
}

// Present transmits the staged canvas; identical frames cost nothing
func (g *GraphicsRenderer) Present() error {
	if !g.ready {
		return g.tx.Delete()
	}
	_, err := g.tx.Transmit(g.canvas, g.zone)
	return err
}

// Clear deletes the image and forces the next frame out
func (g *GraphicsRenderer) Clear() error {
	g.tx.Forget()
	return g.tx.Delete()
}

// Close deletes the image
func (g *GraphicsRenderer) Close() error {
	return g.tx.Delete()
}
