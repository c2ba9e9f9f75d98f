package terminal

import "time"

// Winsize is the kernel's view of the terminal: cells plus optional pixel extents.
// Pixel fields are zero when the terminal does not report them.
type Winsize struct {
	Cols, Rows     int
	PixelW, PixelH int
}

// Backend abstracts platform-specific terminal operations
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Size returns cell dimensions
	Size() (width, height int)
	// Winsize returns cell and pixel dimensions from the kernel
	Winsize() Winsize

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read waits at most timeout for input.
	// Empty data with nil error means the wait elapsed or a resize is pending.
	Read(timeout time.Duration) ([]byte, error)

	// Resized reports and clears a pending window size change
	Resized() bool
}
