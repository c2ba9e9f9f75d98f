package input

import (
	"maps"

	"github.com/henrythdu/Speedy/terminal"
)

// KeyTable maps keys to intents for each mode
type KeyTable struct {
	// Keys honoured in every mode
	GlobalKeys map[terminal.Key]IntentType

	// Reading/paused bindings
	ReadingRunes map[rune]IntentType
	ReadingKeys  map[terminal.Key]IntentType

	// Command line bindings; unbound keys fall through to the text field
	CommandKeys map[terminal.Key]IntentType
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		GlobalKeys: map[terminal.Key]IntentType{
			terminal.KeyCtrlC: IntentQuit,
		},
		ReadingRunes: map[rune]IntentType{
			' ': IntentTogglePause,
			']': IntentSpeedUp,
			'[': IntentSpeedDown,
			'k': IntentNextSentence,
			'j': IntentPrevSentence,
			'q': IntentEscape,
		},
		ReadingKeys: map[terminal.Key]IntentType{
			terminal.KeyEscape: IntentEscape,
			terminal.KeyUp:     IntentSpeedUp,
			terminal.KeyDown:   IntentSpeedDown,
			terminal.KeyRight:  IntentNextSentence,
			terminal.KeyLeft:   IntentPrevSentence,
		},
		CommandKeys: map[terminal.Key]IntentType{
			terminal.KeyEscape: IntentEscape,
			terminal.KeyEnter:  IntentTextConfirm,
			terminal.KeyUp:     IntentHistoryPrev,
			terminal.KeyDown:   IntentHistoryNext,
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		GlobalKeys:   maps.Clone(kt.GlobalKeys),
		ReadingRunes: maps.Clone(kt.ReadingRunes),
		ReadingKeys:  maps.Clone(kt.ReadingKeys),
		CommandKeys:  maps.Clone(kt.CommandKeys),
	}
}
