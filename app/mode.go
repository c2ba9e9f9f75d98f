// Package app owns the reader's mutable state and drives it from terminal
// input and the reading clock on a single goroutine.
package app

// Mode is the reader's top-level state
type Mode uint8

const (
	ModeCommand Mode = iota // text entry, zone dimmed
	ModeReading             // auto-advance active
	ModePaused              // frozen on the current word
	ModeQuit
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeReading:
		return "READING"
	case ModePaused:
		return "PAUSED"
	case ModeQuit:
		return "QUIT"
	}
	return "UNKNOWN"
}
