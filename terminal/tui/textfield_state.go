package tui

import (
	"unicode"

	"github.com/henrythdu/Speedy/terminal"
)

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// TextFieldState holds editable single-line text
type TextFieldState struct {
	Text   []rune
	Cursor int // Rune index the cursor sits before
	Scroll int // First visible rune index
}

// NewTextFieldState creates initialized text field state
func NewTextFieldState(initial string) *TextFieldState {
	runes := []rune(initial)
	return &TextFieldState{Text: runes, Cursor: len(runes)}
}

// Value returns current text as string
func (t *TextFieldState) Value() string {
	return string(t.Text)
}

// SetValue replaces text and moves cursor to end
func (t *TextFieldState) SetValue(s string) {
	t.Text = []rune(s)
	t.Cursor = len(t.Text)
	t.Scroll = 0
}

// Clear empties the field
func (t *TextFieldState) Clear() {
	t.Text = t.Text[:0]
	t.Cursor = 0
	t.Scroll = 0
}

// Insert adds rune at cursor position
func (t *TextFieldState) Insert(r rune) {
	t.Text = append(t.Text, 0)
	copy(t.Text[t.Cursor+1:], t.Text[t.Cursor:])
	t.Text[t.Cursor] = r
	t.Cursor++
}

// DeleteBackward removes rune before cursor
func (t *TextFieldState) DeleteBackward() bool {
	if t.Cursor == 0 {
		return false
	}
	t.Text = append(t.Text[:t.Cursor-1], t.Text[t.Cursor:]...)
	t.Cursor--
	return true
}

// DeleteForward removes rune at cursor
func (t *TextFieldState) DeleteForward() bool {
	if t.Cursor >= len(t.Text) {
		return false
	}
	t.Text = append(t.Text[:t.Cursor], t.Text[t.Cursor+1:]...)
	return true
}

// DeleteWordBackward removes the word before cursor along with trailing separators
func (t *TextFieldState) DeleteWordBackward() bool {
	if t.Cursor == 0 {
		return false
	}
	start := t.Cursor
	for start > 0 && !isWordChar(t.Text[start-1]) {
		start--
	}
	for start > 0 && isWordChar(t.Text[start-1]) {
		start--
	}
	t.Text = append(t.Text[:start], t.Text[t.Cursor:]...)
	t.Cursor = start
	return true
}

// DeleteToStart removes from start to cursor
func (t *TextFieldState) DeleteToStart() bool {
	if t.Cursor == 0 {
		return false
	}
	t.Text = append(t.Text[:0], t.Text[t.Cursor:]...)
	t.Cursor = 0
	t.Scroll = 0
	return true
}

// AdjustScroll keeps the cursor visible within viewport width
func (t *TextFieldState) AdjustScroll(viewportW int) {
	if viewportW <= 0 {
		return
	}
	if t.Cursor < t.Scroll {
		t.Scroll = t.Cursor
	}
	if t.Cursor >= t.Scroll+viewportW {
		t.Scroll = t.Cursor - viewportW + 1
	}
	t.Scroll = max(t.Scroll, 0)
}

// HandleKey applies an editing key, returns true if state changed
func (t *TextFieldState) HandleKey(key terminal.Key, r rune) bool {
	switch key {
	case terminal.KeyLeft:
		if t.Cursor > 0 {
			t.Cursor--
			return true
		}
	case terminal.KeyRight:
		if t.Cursor < len(t.Text) {
			t.Cursor++
			return true
		}
	case terminal.KeyHome, terminal.KeyCtrlA:
		t.Cursor = 0
		return true
	case terminal.KeyEnd, terminal.KeyCtrlE:
		t.Cursor = len(t.Text)
		return true
	case terminal.KeyBackspace:
		return t.DeleteBackward()
	case terminal.KeyDelete:
		return t.DeleteForward()
	case terminal.KeyCtrlU:
		return t.DeleteToStart()
	case terminal.KeyCtrlW:
		return t.DeleteWordBackward()
	case terminal.KeyRune:
		if r >= 32 {
			t.Insert(r)
			return true
		}
	}
	return false
}
