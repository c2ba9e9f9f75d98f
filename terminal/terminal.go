package terminal

import (
	"errors"
	"io"
	"os"
	"time"
)

// ErrInputClosed is returned by Wait when stdin reaches EOF
var ErrInputClosed = errors.New("terminal input closed")

// escapeTimeout is how long a lone ESC waits for the rest of a sequence
const escapeTimeout = 50 * time.Millisecond

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrReverse   Attr = 1 << 4
)

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// Terminal provides low-level terminal access for a single-threaded owner.
// None of the methods are safe for concurrent use.
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions in cells
	Size() (width, height int)

	// Winsize returns cell and pixel dimensions as reported by the kernel
	Winsize() Winsize

	// ColorMode returns detected color capability
	ColorMode() ColorMode

	// Flush writes cell buffer to terminal, cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// Clear fills screen with specified background color
	Clear(bg RGB)

	// Sync forces full redraw on next Flush
	Sync()

	// Write sends raw bytes (queries, graphics commands) after any buffered cell output
	Write(p []byte) error

	// Wait blocks for at most timeout and returns the next event.
	// ok is false when the timeout elapsed with nothing to report.
	Wait(timeout time.Duration) (ev Event, ok bool, err error)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend
	output  *outputBuffer
	decoder *decoder
	queue   []Event

	initialized bool
	finalized   bool
}

// New creates a new Terminal instance
func New(colorMode ...ColorMode) Terminal {
	return newTerminal(newBackend(), colorMode...)
}

func newTerminal(b Backend, colorMode ...ColorMode) *termImpl {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return &termImpl{
		backend: b,
		output:  newOutputBuffer(backendWriter{b}, c),
		decoder: newDecoder(),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	if t.initialized {
		return nil
	}
	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	t.writeRaw(csiAutoWrapOff)
	t.output.clear(RGBBlack)

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	if !t.initialized || t.finalized {
		return
	}

	t.output.writer.Flush()
	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable auto-wrap after leaving the alt screen so the main buffer wraps again
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

func (t *termImpl) Winsize() Winsize {
	return t.backend.Winsize()
}

func (t *termImpl) ColorMode() ColorMode {
	return t.output.colorMode
}

// Flush drops the frame when the buffer no longer matches the terminal size
func (t *termImpl) Flush(cells []Cell, width, height int) {
	if !t.initialized || t.finalized {
		return
	}
	currW, currH := t.backend.Size()
	if currW != width || currH != height {
		return
	}
	t.output.flush(cells, width, height)
}

func (t *termImpl) Clear(bg RGB) {
	if !t.initialized || t.finalized {
		return
	}
	t.output.clear(bg)
}

// Sync clears the screen so the diffing front buffer matches the physical terminal again
func (t *termImpl) Sync() {
	if !t.initialized || t.finalized {
		return
	}
	t.output.clear(RGBBlack)
	t.output.forceFullRedraw()
}

func (t *termImpl) Write(p []byte) error {
	if err := t.output.writer.Flush(); err != nil {
		return err
	}
	t.output.invalidateCursor()
	return t.backend.Write(p)
}

func (t *termImpl) Wait(timeout time.Duration) (Event, bool, error) {
	if ev, ok := t.pop(); ok {
		return ev, true, nil
	}
	if t.backend.Resized() {
		return t.resizeEvent(), true, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		wait := time.Until(deadline)
		if t.decoder.pending() {
			wait = min(wait, escapeTimeout)
		}
		if wait < 0 {
			wait = 0
		}

		data, err := t.backend.Read(wait)
		if err != nil {
			return Event{}, false, err
		}
		if t.backend.Resized() {
			if len(data) > 0 {
				t.queue = t.decoder.decode(data, t.queue)
			}
			return t.resizeEvent(), true, nil
		}

		if len(data) == 0 {
			if ev, ok := t.decoder.flushEscape(); ok {
				return ev, true, nil
			}
			if !time.Now().Before(deadline) {
				return Event{}, false, nil
			}
			continue
		}

		t.queue = t.decoder.decode(data, t.queue)
		if ev, ok := t.pop(); ok {
			return ev, true, nil
		}
		if !time.Now().Before(deadline) && !t.decoder.pending() {
			return Event{}, false, nil
		}
	}
}

func (t *termImpl) pop() (Event, bool) {
	if len(t.queue) == 0 {
		return Event{}, false
	}
	ev := t.queue[0]
	copy(t.queue, t.queue[1:])
	t.queue = t.queue[:len(t.queue)-1]
	return ev, true
}

func (t *termImpl) resizeEvent() Event {
	w, h := t.backend.Size()
	return Event{Type: EventResize, Width: w, Height: h}
}

func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// backendWriter adapts Backend.Write to io.Writer for the buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	// Remove any graphics placements before leaving the alternate screen
	w.Write(AppendGraphicsCommand(nil, "a=d,d=A", nil))

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
