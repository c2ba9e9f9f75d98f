package input

import (
	"github.com/henrythdu/Speedy/terminal"
)

// Machine parses terminal.Event into semantic Intent
type Machine struct {
	mode     InputMode
	keyTable *KeyTable
}

// NewMachine creates a machine in command mode with the given bindings, nil for defaults
func NewMachine(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{mode: ModeCommand, keyTable: kt}
}

// SetMode updates the parser's mode context
func (m *Machine) SetMode(mode InputMode) {
	m.mode = mode
}

// Mode returns the current parser mode
func (m *Machine) Mode() InputMode {
	return m.mode
}

// Process parses a key event and returns an Intent
// Returns nil for non-key events and keys with no meaning in the current mode
func (m *Machine) Process(ev terminal.Event) *Intent {
	if ev.Type != terminal.EventKey {
		return nil
	}
	if it, ok := m.keyTable.GlobalKeys[ev.Key]; ok {
		return &Intent{Type: it}
	}
	if m.mode == ModeCommand {
		return m.processCommand(ev)
	}
	return m.processReading(ev)
}

func (m *Machine) processReading(ev terminal.Event) *Intent {
	if ev.Key == terminal.KeyRune {
		if it, ok := m.keyTable.ReadingRunes[ev.Rune]; ok {
			return &Intent{Type: it}
		}
		return nil
	}
	if it, ok := m.keyTable.ReadingKeys[ev.Key]; ok {
		return &Intent{Type: it}
	}
	return nil
}

func (m *Machine) processCommand(ev terminal.Event) *Intent {
	if it, ok := m.keyTable.CommandKeys[ev.Key]; ok {
		return &Intent{Type: it}
	}
	if ev.Key == terminal.KeyRune {
		return &Intent{Type: IntentTextChar, Char: ev.Rune}
	}
	return &Intent{Type: IntentTextEdit, Key: ev.Key}
}
