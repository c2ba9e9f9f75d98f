package viewport

import (
	"time"

	"github.com/henrythdu/Speedy/terminal"
)

// ProbeWindow bounds how long geometry and capability replies are awaited
const ProbeWindow = 100 * time.Millisecond

// Queries returns the geometry query sequence: pixel area then cell count
func Queries() []byte {
	q := make([]byte, 0, len(terminal.QueryPixelSize)+len(terminal.QueryCellCount))
	q = append(q, terminal.QueryPixelSize...)
	return append(q, terminal.QueryCellCount...)
}

// Viewport caches Dimensions between resizes.
// After Invalidate, replies are folded in with Apply until both pixel and
// cell extents are known or the probe window lapses, at which point the
// kernel's window size fills the gaps.
type Viewport struct {
	winsize func() terminal.Winsize

	dims  Dimensions
	valid bool

	pending  bool
	deadline time.Time
	pixelW   int
	pixelH   int
	cols     int
	rows     int
	cellW    int
	cellH    int
}

// New creates a viewport backed by the given window size source
func New(winsize func() terminal.Winsize) *Viewport {
	return &Viewport{winsize: winsize}
}

// Dimensions returns the cached geometry; ok is false while a re-query is outstanding
func (v *Viewport) Dimensions() (Dimensions, bool) {
	return v.dims, v.valid && !v.pending
}

// Set installs geometry directly and cancels any pending query
func (v *Viewport) Set(d Dimensions) {
	v.dims = d
	v.valid = true
	v.pending = false
}

// Invalidate drops the cached geometry and opens a probe window ending at now+ProbeWindow.
// The caller sends Queries() to the terminal.
func (v *Viewport) Invalidate(now time.Time) {
	v.valid = false
	v.pending = true
	v.deadline = now.Add(ProbeWindow)
	v.pixelW, v.pixelH = 0, 0
	v.cols, v.rows = 0, 0
	v.cellW, v.cellH = 0, 0
}

// Pending reports whether a re-query is outstanding
func (v *Viewport) Pending() bool {
	return v.pending
}

// Deadline returns the end of the current probe window
func (v *Viewport) Deadline() time.Time {
	return v.deadline
}

// Apply folds a terminal reply into the pending query.
// Returns true when it completed the geometry.
func (v *Viewport) Apply(r terminal.Reply) bool {
	if !v.pending || !r.OK {
		return false
	}
	switch r.Kind {
	case terminal.ReplyPixelSize:
		v.pixelW, v.pixelH = r.Width, r.Height
	case terminal.ReplyCellCount:
		v.cols, v.rows = r.Width, r.Height
	case terminal.ReplyCellSize:
		v.cellW, v.cellH = r.Width, r.Height
	default:
		return false
	}
	if v.cols > 0 && v.rows > 0 && (v.pixelW > 0 || v.cellW > 0) {
		v.commit()
		return true
	}
	return false
}

// Expire completes a pending query from the kernel window size once the
// probe window has passed. Returns true when it committed.
func (v *Viewport) Expire(now time.Time) bool {
	if !v.pending || now.Before(v.deadline) {
		return false
	}
	v.commit()
	return true
}

func (v *Viewport) commit() {
	ws := v.winsize()
	cols, rows := v.cols, v.rows
	if cols <= 0 || rows <= 0 {
		cols, rows = ws.Cols, ws.Rows
	}
	pw, ph := v.pixelW, v.pixelH
	if (pw <= 0 || ph <= 0) && v.cellW > 0 && v.cellH > 0 {
		pw, ph = v.cellW*cols, v.cellH*rows
	}
	if pw <= 0 || ph <= 0 {
		pw, ph = ws.PixelW, ws.PixelH
	}
	v.Set(NewDimensions(pw, ph, cols, rows))
}
