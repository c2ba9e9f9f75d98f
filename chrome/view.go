package chrome

import (
	"github.com/henrythdu/Speedy/terminal/tui"
)

// Tone colors the message line
type Tone uint8

const (
	ToneInfo Tone = iota
	ToneError
)

// View is the state the chrome shows, updated by the controller before each frame
type View struct {
	Mode     string // badge text
	Label    string // document name
	Index    int    // 1-based position
	Total    int
	Progress float64
	WPM      int
	Backend  string // graphics or fallback

	Field        *tui.TextFieldState
	FieldFocused bool

	Message string
	Tone    Tone

	ShowHelp bool
}
