package input

import "github.com/henrythdu/Speedy/terminal"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // Ctrl+C
	IntentEscape // Esc, q while reading

	// Playback
	IntentTogglePause  // space
	IntentSpeedUp      // ], Up
	IntentSpeedDown    // [, Down
	IntentNextSentence // k, Right
	IntentPrevSentence // j, Left

	// Command line
	IntentTextChar    // Printable character
	IntentTextEdit    // Editing key handled by the text field
	IntentTextConfirm // Enter
	IntentHistoryPrev // Up
	IntentHistoryNext // Down
)

// Intent represents a parsed semantic action
type Intent struct {
	Type IntentType
	Char rune         // typed char for IntentTextChar
	Key  terminal.Key // raw key for IntentTextEdit
}
