package config

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/henrythdu/Speedy/terminal"
)

// Palette is a parsed Theme
type Palette struct {
	Background colorful.Color
	Text       colorful.Color
	Anchor     colorful.Color
	Dimmed     colorful.Color
	Accent     colorful.Color
	Error      colorful.Color
}

// Palette parses every theme color
func (t Theme) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		val  string
		dst  *colorful.Color
	}{
		{"background", t.Background, &p.Background},
		{"text", t.Text, &p.Text},
		{"anchor", t.Anchor, &p.Anchor},
		{"dimmed", t.Dimmed, &p.Dimmed},
		{"accent", t.Accent, &p.Accent},
		{"error", t.Error, &p.Error},
	}
	for _, f := range fields {
		c, err := ParseColor(f.val)
		if err != nil {
			return Palette{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// ParseColor accepts #RRGGBB and W3C color names
func ParseColor(s string) (colorful.Color, error) {
	tc := tcell.GetColor(s)
	if tc == tcell.ColorDefault {
		return colorful.Color{}, fmt.Errorf("invalid color %q", s)
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return colorful.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// Fade blends c toward the background; alpha 1 keeps c, 0 yields the background
func (p Palette) Fade(c colorful.Color, alpha float64) colorful.Color {
	alpha = min(max(alpha, 0), 1)
	return p.Background.BlendRgb(c, alpha).Clamped()
}

// RGB converts to a terminal cell color
func RGB(c colorful.Color) terminal.RGB {
	r, g, b := c.Clamped().RGB255()
	return terminal.RGB{R: r, G: g, B: b}
}

// RGBA converts to an opaque image color
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
