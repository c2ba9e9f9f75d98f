// Package chrome draws everything on the character grid outside the reading
// zone: the deck with status, command line and messages, and the help card.
package chrome

import "image"

// deckRows is the deck height the layout tries to keep
const deckRows = 4

// Layout partitions the screen in cells
type Layout struct {
	Cols, Rows int
	Zone       image.Rectangle
	Deck       image.Rectangle
}

// Compute splits a cols x rows screen: the zone takes zoneFraction of the
// rows from the top, the deck the rest, with the deck kept at deckRows when
// the screen is tall enough and the zone never below one row.
func Compute(cols, rows int, zoneFraction float64) Layout {
	cols, rows = max(cols, 0), max(rows, 0)
	zoneH := int(float64(rows) * zoneFraction)
	if rows-zoneH < deckRows {
		zoneH = rows - deckRows
	}
	zoneH = min(max(zoneH, min(rows, 1)), rows)
	return Layout{
		Cols: cols,
		Rows: rows,
		Zone: image.Rect(0, 0, cols, zoneH),
		Deck: image.Rect(0, zoneH, cols, rows),
	}
}
