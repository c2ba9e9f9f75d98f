// Package render turns the current reading state into terminal output: a
// layered cell grid for the chrome and, when the terminal supports it, a
// pixel canvas for the reading zone.
package render

import (
	"github.com/henrythdu/Speedy/viewport"
)

// Renderer draws the reading zone. Exactly one variant is chosen at startup.
//
// Compose runs while the cell grid is being built and may paint the zone's
// cells; Present runs after the grid has been flushed and ships anything
// that lives outside the grid.
type Renderer interface {
	Capability() viewport.Capability
	Compose(f Frame, dims viewport.Dimensions, buf *Buffer) error
	Present() error
	// Clear removes zone content that survives a cell flush
	Clear() error
	Close() error
}

// ZoneLayer adapts a Renderer to the orchestrator pipeline
type ZoneLayer struct {
	R Renderer
}

// Render composes the zone for ctx
func (z ZoneLayer) Render(ctx Context, buf *Buffer) error {
	return z.R.Compose(ctx.Frame, ctx.Dims, buf)
}
