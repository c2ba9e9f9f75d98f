package input

// actionRegistry maps canonical action names to intents
// Used by keymap config loader to resolve TOML action strings to bindings
var actionRegistry = map[string]IntentType{
	// Unbind sentinel
	"none": IntentNone,

	"quit":          IntentQuit,
	"escape":        IntentEscape,
	"toggle_pause":  IntentTogglePause,
	"speed_up":      IntentSpeedUp,
	"speed_down":    IntentSpeedDown,
	"next_sentence": IntentNextSentence,
	"prev_sentence": IntentPrevSentence,
	"confirm":       IntentTextConfirm,
	"history_prev":  IntentHistoryPrev,
	"history_next":  IntentHistoryNext,
}

// ActionIntent resolves an action name
func ActionIntent(name string) (IntentType, bool) {
	it, ok := actionRegistry[name]
	return it, ok
}

// ActionName returns the canonical name for an intent, empty if it has none
func ActionName(it IntentType) string {
	for name, v := range actionRegistry {
		if v == it && it != IntentNone {
			return name
		}
	}
	return ""
}
