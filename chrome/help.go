package chrome

import (
	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/terminal/tui"
)

var helpLines = [][2]string{
	{"@path", "load a text file"},
	{"@@", "load the clipboard"},
	{":wpm N", "set speed"},
	{":q", "quit"},
	{"", ""},
	{"space", "pause / resume"},
	{"] [  ↑ ↓", "faster / slower"},
	{"k j  → ←", "next / previous sentence"},
	{"esc q", "back to command line"},
	{"ctrl+c", "quit"},
}

// Help is a card over the reading zone listing commands and keys
type Help struct {
	View    *View
	Layout  *Layout
	Palette config.Palette
}

// IsVisible reports whether help was requested
func (h *Help) IsVisible() bool {
	return h.View.ShowHelp
}

// Render draws the card centred in the zone
func (h *Help) Render(_ render.Context, buf *render.Buffer) error {
	z := h.Layout.Zone
	zone := buf.Region().Sub(z.Min.X, z.Min.Y, z.Dx(), z.Dy())

	w := min(48, zone.W)
	ht := min(len(helpLines)+4, zone.H)
	if w < 10 || ht < 3 {
		return nil
	}
	card := zone.Sub((zone.W-w)/2, (zone.H-ht)/2, w, ht)

	bg := config.RGB(h.Palette.Background)
	fg := config.RGB(h.Palette.Text)
	key := config.RGB(h.Palette.Anchor)
	card.Fill(bg)
	inner := card.Card("Help", tui.LineRounded, config.RGB(h.Palette.Dimmed))

	keyW := 0
	for _, l := range helpLines {
		keyW = max(keyW, tui.Width(l[0]))
	}
	for i, l := range helpLines {
		if i >= inner.H {
			break
		}
		inner.Text(1, i, l[0], key, bg, terminal.AttrBold)
		inner.Text(keyW+3, i, l[1], fg, bg, terminal.AttrNone)
	}
	if inner.H > len(helpLines)+1 {
		inner.TextCenter(inner.H-1, "esc to close", config.RGB(h.Palette.Dimmed), bg, terminal.AttrNone)
	}
	return nil
}
