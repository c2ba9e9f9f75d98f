package render

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/font"
	"github.com/henrythdu/Speedy/ovp"
	"github.com/henrythdu/Speedy/viewport"
)

// Emphasis strengths relative to full color
const (
	pausedAlpha = 0.7
	dimmedAlpha = 0.4
	minFontSize = 8
	ghostGapEm  = 0.5 // gap between words as a fraction of the font size
)

// WordSource returns rasterized words; *glyphcache.WordCache satisfies it
type WordSource interface {
	Get(word string, size float64) (*font.Word, error)
}

// Style is the visual configuration shared by both renderers
type Style struct {
	Palette          config.Palette
	Ghost            config.Ghost
	VerticalFraction float64
	FontSize         float64 // fixed pixel size, 0 derives from cell height
	FontScale        float64 // rows per em when FontSize is 0
}

// NewStyle assembles a Style from settings
func NewStyle(cfg config.Config) (Style, error) {
	p, err := cfg.Theme.Palette()
	if err != nil {
		return Style{}, err
	}
	return Style{
		Palette:          p,
		Ghost:            cfg.Ghost,
		VerticalFraction: cfg.Layout.VerticalFraction,
		FontSize:         cfg.Font.Size,
		FontScale:        cfg.Font.Scale,
	}, nil
}

// colors returns text and anchor colors for the emphasis
func (s Style) colors(e Emphasis) (text, anchor colorful.Color) {
	p := s.Palette
	switch e {
	case EmphasisPaused:
		return p.Fade(p.Text, pausedAlpha), p.Fade(p.Anchor, pausedAlpha)
	case EmphasisDimmed:
		return p.Fade(p.Dimmed, dimmedAlpha*2), p.Fade(p.Anchor, dimmedAlpha)
	}
	return p.Text, p.Anchor
}

// ghostColor returns the context word color, ok false when ghosts are hidden
func (s Style) ghostColor(e Emphasis) (colorful.Color, bool) {
	g := s.Ghost
	if !g.Enabled {
		return colorful.Color{}, false
	}
	alpha := g.Opacity
	switch e {
	case EmphasisPaused:
		alpha = g.PausedOpacity
	case EmphasisDimmed:
		alpha *= dimmedAlpha
	}
	if alpha <= 0 {
		return colorful.Color{}, false
	}
	return s.Palette.Fade(s.Palette.Text, alpha), true
}

// Compositor draws a frame into an RGBA canvas sized to the reading zone
type Compositor struct {
	words  WordSource
	style  Style
	canvas *image.RGBA
}

// NewCompositor creates a compositor drawing words from src
func NewCompositor(src WordSource, style Style) *Compositor {
	return &Compositor{words: src, style: style}
}

// FontSize returns the pixel size used for the given geometry
func (c *Compositor) FontSize(dims viewport.Dimensions) float64 {
	if c.style.FontSize > 0 {
		return c.style.FontSize
	}
	scale := c.style.FontScale
	if scale <= 0 {
		scale = 3
	}
	return max(dims.FontSize(scale), minFontSize)
}

// Compose paints f into a canvas of size px. The canvas is reused between
// calls of the same size; callers must not keep it across Compose calls.
func (c *Compositor) Compose(f Frame, px image.Point, fontSize float64) (*image.RGBA, error) {
	bounds := image.Rect(0, 0, max(px.X, 1), max(px.Y, 1))
	if c.canvas == nil || c.canvas.Rect != bounds {
		c.canvas = image.NewRGBA(bounds)
	}
	canvas := c.canvas
	bg := config.RGBA(c.style.Palette.Background)
	draw.Draw(canvas, bounds, image.NewUniform(bg), image.Point{}, draw.Src)

	if f.Blank() {
		return canvas, nil
	}

	word, err := c.words.Get(f.Word, fontSize)
	if err != nil {
		return nil, err
	}

	textC, anchorC := c.style.colors(f.Emphasis)
	centerX := float64(bounds.Dx()) / 2
	startX := ovp.StartX(centerX, word.AnchorStart, word.AnchorEnd-word.AnchorStart)
	x := int(math.Round(startX))
	top := c.lineTop(bounds, word)

	drawSpans(canvas, word, x, top, []span{
		{0, word.AnchorStart, config.RGBA(textC)},
		{word.AnchorStart, word.AnchorEnd, config.RGBA(anchorC)},
		{word.AnchorEnd, float64(word.Width()), config.RGBA(textC)},
	})

	ghostC, ok := c.style.ghostColor(f.Emphasis)
	if !ok {
		return canvas, nil
	}
	ghost := config.RGBA(ghostC)
	gap := int(math.Round(fontSize * ghostGapEm))

	left := x - gap
	for _, g := range f.Before {
		if left <= 0 {
			break
		}
		gw, err := c.words.Get(g, fontSize)
		if err != nil {
			return nil, err
		}
		left -= gw.Width()
		drawSpans(canvas, gw, left, top, []span{{0, float64(gw.Width()), ghost}})
		left -= gap
	}

	right := x + word.Width() + gap
	for _, g := range f.After {
		if right >= bounds.Max.X {
			break
		}
		gw, err := c.words.Get(g, fontSize)
		if err != nil {
			return nil, err
		}
		drawSpans(canvas, gw, right, top, []span{{0, float64(gw.Width()), ghost}})
		right += gw.Width() + gap
	}

	return canvas, nil
}

// lineTop places the line box so its middle sits at the configured height
func (c *Compositor) lineTop(bounds image.Rectangle, w *font.Word) int {
	mid := float64(bounds.Dy()) * c.style.VerticalFraction
	return int(math.Round(mid)) - w.Height()/2
}

type span struct {
	from, to float64
	col      color.RGBA
}

// drawSpans colors horizontal slices of the word mask
func drawSpans(dst *image.RGBA, w *font.Word, x, top int, spans []span) {
	for _, s := range spans {
		x0 := int(math.Round(s.from))
		x1 := int(math.Round(s.to))
		if x1 <= x0 {
			continue
		}
		r := image.Rect(x+x0, top, x+x1, top+w.Height())
		draw.DrawMask(dst, r, image.NewUniform(s.col), image.Point{}, w.Mask, image.Pt(x0, 0), draw.Over)
	}
}
