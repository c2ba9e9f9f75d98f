package chrome

import (
	"fmt"

	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/terminal/tui"
)

const (
	promptPrefix = "> "
	placeholder  = "@file, @@ clipboard, :help"
	idleHint     = "space pause · [ ] speed · j k sentence · esc command"
	progressMin  = 10
)

// Deck draws the status rows below the reading zone
type Deck struct {
	View    *View
	Layout  *Layout
	Palette config.Palette
}

// Render draws status, command line and message into the deck rows
func (d *Deck) Render(_ render.Context, buf *render.Buffer) error {
	l, v, p := d.Layout, d.View, d.Palette
	deck := buf.Region().Sub(l.Deck.Min.X, l.Deck.Min.Y, l.Deck.Dx(), l.Deck.Dy())
	if deck.Empty() {
		return nil
	}

	bg := config.RGB(p.Background)
	fg := config.RGB(p.Text)
	dim := config.RGB(p.Dimmed)
	accent := config.RGB(p.Accent)
	deck.Fill(bg)

	// Row 0: rule
	deck.Text(0, 0, tui.RepeatRune('─', deck.W), dim, bg, terminal.AttrNone)

	// Row 1: badge, label, progress, speed
	if deck.H > 1 {
		badge := tui.Style{Fg: bg, Bg: accent}.WithAttr(terminal.AttrBold)
		x := deck.TextStyled(0, 1, " "+v.Mode+" ", badge)
		x++
		right := fmt.Sprintf("%d wpm  %d/%d", v.WPM, v.Index, v.Total)
		if v.Backend != "" {
			right += "  " + v.Backend
		}
		rx := deck.TextRight(1, right+" ", fg, bg, terminal.AttrNone)
		label := v.Label
		if label == "" {
			label = "no document"
		}
		barW := (rx - x) / 3
		labelW := rx - x - barW - 2
		if barW < progressMin {
			barW, labelW = 0, rx-x-1
		}
		deck.Text(x, 1, tui.TruncateLeft(label, max(labelW, 0)), fg, bg, terminal.AttrNone)
		if barW > 0 {
			deck.Progress(rx-barW-1, 1, barW, v.Progress, accent, bg)
		}
	}

	// Row 2: command field or key hint
	if deck.H > 2 {
		row := deck.Sub(0, 2, deck.W, 1)
		if v.FieldFocused && v.Field != nil {
			row.TextField(v.Field, tui.TextFieldOpts{
				Placeholder: placeholder,
				Prefix:      promptPrefix,
				Focused:     true,
				Style: tui.TextFieldStyle{
					TextFg:        fg,
					TextBg:        bg,
					CursorFg:      bg,
					CursorBg:      fg,
					PlaceholderFg: dim,
					PrefixFg:      accent,
				},
			})
		} else {
			row.Text(0, 0, tui.Truncate(idleHint, row.W), dim, bg, terminal.AttrNone)
		}
	}

	// Row 3: message
	if deck.H > 3 && v.Message != "" {
		col := fg
		if v.Tone == ToneError {
			col = config.RGB(p.Error)
		}
		deck.Text(0, 3, tui.Truncate(v.Message, deck.W), col, bg, terminal.AttrNone)
	}
	return nil
}
