// Package tui provides immediate-mode drawing primitives over a terminal cell buffer.
//
// Core abstraction is Region, a rectangular window into a row-major []terminal.Cell.
// All drawing operations are relative to region bounds with automatic clipping, and
// text is measured in display columns so double-width runes occupy two cells.
//
// Usage pattern:
//
//	cells := make([]terminal.Cell, w*h)
//	root := tui.NewRegion(cells, w, 0, 0, w, h)
//	root.Fill(bg)
//	bottom := root.Sub(0, h-4, w, 4)
//	bottom.Box(tui.LineRounded, borderFg)
//	bottom.Inset(1).Text(0, 0, "hello", fg, bg, terminal.AttrNone)
//	term.Flush(cells, w, h)
package tui
