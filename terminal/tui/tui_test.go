package tui

import (
	"testing"

	"github.com/henrythdu/Speedy/terminal"
)

func newTestRegion(w, h int) Region {
	return NewRegion(make([]terminal.Cell, w*h), w, 0, 0, w, h)
}

// TestSubClipping verifies nested regions are clipped to parent bounds
func TestSubClipping(t *testing.T) {
	r := newTestRegion(10, 5)
	sub := r.Sub(8, 3, 5, 5)
	if sub.W != 2 || sub.H != 2 {
		t.Errorf("Expected clipped 2x2, got %dx%d", sub.W, sub.H)
	}
	sub.Cell(5, 0, 'x', terminal.RGB{}, terminal.RGB{}, terminal.AttrNone)
	for i, c := range r.Cells {
		if c.Rune == 'x' {
			t.Errorf("Write outside sub-region landed at index %d", i)
		}
	}
}

// TestTruncateLeft verifies the end of a long label survives
func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		in   string
		maxW int
		want string
	}{
		{"notes.txt", 20, "notes.txt"},
		{"/home/reader/books/notes.txt", 10, "…notes.txt"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateLeft(tt.in, tt.maxW); got != tt.want {
			t.Errorf("TruncateLeft(%q, %d): expected %q, got %q", tt.in, tt.maxW, tt.want, got)
		}
	}
}

// TestTextWide verifies double-width runes occupy two cells
func TestTextWide(t *testing.T) {
	r := newTestRegion(6, 1)
	used := r.Text(0, 0, "日本a", terminal.RGB{}, terminal.RGB{}, terminal.AttrNone)
	if used != 5 {
		t.Fatalf("Expected 5 columns, got %d", used)
	}
	want := []rune{'日', terminal.RuneContinuation, '本', terminal.RuneContinuation, 'a'}
	for i, w := range want {
		if r.Cells[i].Rune != w {
			t.Errorf("Cell %d: expected %q, got %q", i, w, r.Cells[i].Rune)
		}
	}
}

// TestTruncate verifies width-aware truncation
func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello…"},
		{"", 3, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.w); got != tt.want {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", tt.in, tt.w, tt.want, got)
		}
	}
	if got := TruncateLeft("/very/long/path.txt", 9); got != "…path.txt" {
		t.Errorf("TruncateLeft: expected %q, got %q", "…path.txt", got)
	}
}

// TestTextFieldEditing verifies the key handling used by the command line
func TestTextFieldEditing(t *testing.T) {
	s := NewTextFieldState("")
	for _, r := range "@notes.txt" {
		s.HandleKey(terminal.KeyRune, r)
	}
	if s.Value() != "@notes.txt" {
		t.Fatalf("Expected typed value, got %q", s.Value())
	}

	s.HandleKey(terminal.KeyBackspace, 0)
	if s.Value() != "@notes.tx" {
		t.Errorf("Expected backspace to remove last rune, got %q", s.Value())
	}

	s.HandleKey(terminal.KeyCtrlW, 0)
	if s.Value() != "@notes." {
		t.Errorf("Expected word delete to remove %q, got %q", "tx", s.Value())
	}

	s.HandleKey(terminal.KeyHome, 0)
	s.HandleKey(terminal.KeyRune, ':')
	if s.Value() != ":@notes." || s.Cursor != 1 {
		t.Errorf("Expected insert at start, got %q cursor=%d", s.Value(), s.Cursor)
	}

	s.HandleKey(terminal.KeyEnd, 0)
	s.HandleKey(terminal.KeyCtrlU, 0)
	if s.Value() != "" {
		t.Errorf("Expected Ctrl+U to clear to start, got %q", s.Value())
	}
}

// TestProgress verifies bar fill proportions
func TestProgress(t *testing.T) {
	r := newTestRegion(10, 1)
	r.Progress(0, 0, 10, 0.5, terminal.RGB{}, terminal.RGB{})
	full := 0
	for _, c := range r.Cells {
		if c.Rune == progressFull {
			full++
		}
	}
	if full != 5 {
		t.Errorf("Expected 5 filled cells, got %d", full)
	}
}
