package render

import (
	"time"

	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/viewport"
)

// Context is the per-frame state handed to every layer, passed by value
type Context struct {
	Now   time.Time
	Frame Frame
	Dims  viewport.Dimensions
}

// Layer draws part of the cell grid
type Layer interface {
	Render(ctx Context, buf *Buffer) error
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // registration order for stable sort
}

// Orchestrator runs the layer pipeline into one buffer and flushes it
type Orchestrator struct {
	screen   Flusher
	buffer   *Buffer
	bg       terminal.RGB
	layers   []layerEntry
	regCount int
}

// NewOrchestrator creates an orchestrator with the given screen and dimensions
func NewOrchestrator(screen Flusher, width, height int, bg terminal.RGB) *Orchestrator {
	return &Orchestrator{
		screen: screen,
		buffer: NewBuffer(width, height),
		bg:     bg,
		layers: make([]layerEntry, 0, 4),
	}
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (o *Orchestrator) Register(l Layer, priority Priority) {
	entry := layerEntry{layer: l, priority: priority, index: o.regCount}
	o.regCount++

	pos := len(o.layers)
	for i, e := range o.layers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.layers = append(o.layers, layerEntry{})
	copy(o.layers[pos+1:], o.layers[pos:])
	o.layers[pos] = entry
}

// Resize updates buffer dimensions
func (o *Orchestrator) Resize(width, height int) {
	o.buffer.Resize(width, height)
}

// Buffer returns the frame buffer
func (o *Orchestrator) Buffer() *Buffer {
	return o.buffer
}

// RenderFrame executes the pipeline: clear, render visible layers in order, flush.
// A layer error aborts the frame before anything is flushed.
func (o *Orchestrator) RenderFrame(ctx Context) error {
	o.buffer.Clear(o.bg)

	for _, entry := range o.layers {
		if vt, ok := entry.layer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		if err := entry.layer.Render(ctx, o.buffer); err != nil {
			return err
		}
	}

	o.buffer.FlushTo(o.screen)
	return nil
}
