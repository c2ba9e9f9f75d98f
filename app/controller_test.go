package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/henrythdu/Speedy/chrome"
	"github.com/henrythdu/Speedy/command"
	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/reading"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/source"
	"github.com/henrythdu/Speedy/terminal"
)

type fakeLoader struct {
	files   map[string]string
	clip    string
	clipErr error
	loads   int
}

func (f *fakeLoader) LoadFile(path string) (source.Document, error) {
	f.loads++
	text, ok := f.files[path]
	if !ok {
		return source.Document{}, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return source.Document{Text: text, Label: filepath.Base(path)}, nil
}

func (f *fakeLoader) LoadClipboard() (source.Document, error) {
	f.loads++
	if f.clipErr != nil {
		return source.Document{}, f.clipErr
	}
	return source.Document{Text: f.clip, Label: "clipboard"}, nil
}

func runeKey(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

func specialKey(k terminal.Key) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: k}
}

func typeLine(c *Controller, line string) {
	for _, r := range line {
		c.Handle(runeKey(r))
	}
	c.Handle(specialKey(terminal.KeyEnter))
}

func newTestController(files map[string]string) (*Controller, *fakeLoader) {
	loader := &fakeLoader{files: files, clip: "From the clipboard."}
	c := NewController(Options{
		Loader: loader,
		Timing: reading.DefaultTiming(),
		WPM:    300,
		Ghost:  config.Ghost{Enabled: true, Before: 2, After: 2},
	})
	return c, loader
}

const story = "Dr. Smith runs. Fast! He stops."

// TestControllerLoad verifies a successful load enters reading at the first word
func TestControllerLoad(t *testing.T) {
	c, _ := newTestController(map[string]string{"/tmp/story.txt": story})
	if c.Mode() != ModeCommand {
		t.Fatalf("Expected command mode at start, got %v", c.Mode())
	}
	before := c.Shown()

	typeLine(c, "@/tmp/story.txt")

	if c.Mode() != ModeReading {
		t.Fatalf("Expected reading mode, got %v (message %q)", c.Mode(), c.View().Message)
	}
	if got := c.State().Current().Display(); got != "Dr." {
		t.Errorf("Expected first word Dr., got %q", got)
	}
	if c.Shown() == before {
		t.Errorf("Expected shown stamp to change on load")
	}
	v := c.View()
	if v.Label != "story.txt" || v.Index != 1 || v.Total != 6 || v.FieldFocused {
		t.Errorf("Unexpected view after load: %+v", *v)
	}
	if v.Mode != "READING" {
		t.Errorf("Expected READING badge, got %q", v.Mode)
	}
}

// TestControllerLoadFailures verifies failed and empty loads stay in command mode
func TestControllerLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		message string
	}{
		{"missing file", "@/nope.txt", "does not exist"},
		{"whitespace only", "@/blank.txt", reading.ErrEmptyDocument.Error()},
		{"clipboard error", "@@", "clipboard unavailable"},
		{"unknown command", ":frobnicate", "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, loader := newTestController(map[string]string{"/blank.txt": " \n\t "})
			loader.clipErr = errors.New("clipboard unavailable")

			typeLine(c, tt.line)

			if c.Mode() != ModeCommand {
				t.Errorf("Expected command mode, got %v", c.Mode())
			}
			if c.State() != nil {
				t.Errorf("Expected no reading state")
			}
			v := c.View()
			if !strings.Contains(v.Message, tt.message) {
				t.Errorf("Expected message containing %q, got %q", tt.message, v.Message)
			}
			if v.Tone != chrome.ToneError {
				t.Errorf("Expected error tone")
			}
		})
	}
}

// TestControllerTransitions verifies the mode state machine
func TestControllerTransitions(t *testing.T) {
	c, _ := newTestController(map[string]string{"a.txt": story})
	typeLine(c, "@a.txt")

	c.Handle(runeKey(' '))
	if c.Mode() != ModePaused {
		t.Fatalf("Expected paused after space, got %v", c.Mode())
	}
	stamp := c.Shown()
	c.Handle(runeKey(' '))
	if c.Mode() != ModeReading {
		t.Fatalf("Expected reading after second space, got %v", c.Mode())
	}
	if c.Shown() == stamp {
		t.Errorf("Expected resume to restart the word timer")
	}

	c.Handle(runeKey('q'))
	if c.Mode() != ModeCommand {
		t.Fatalf("Expected command after q, got %v", c.Mode())
	}
	if !c.View().FieldFocused {
		t.Errorf("Expected command field focused")
	}

	// q is text in command mode
	c.Handle(runeKey('q'))
	if c.Mode() != ModeCommand || c.View().Field.Value() != "q" {
		t.Errorf("Expected q typed into field, got mode %v field %q", c.Mode(), c.View().Field.Value())
	}

	// first esc clears the field, second resumes the document paused
	c.Handle(specialKey(terminal.KeyEscape))
	if c.Mode() != ModeCommand || c.View().Field.Value() != "" {
		t.Errorf("Expected field cleared, got mode %v field %q", c.Mode(), c.View().Field.Value())
	}
	c.Handle(specialKey(terminal.KeyEscape))
	if c.Mode() != ModePaused {
		t.Errorf("Expected paused after esc with document, got %v", c.Mode())
	}

	c.Handle(specialKey(terminal.KeyEscape))
	typeLine(c, ":q")
	if c.Mode() != ModeQuit {
		t.Errorf("Expected quit, got %v", c.Mode())
	}
}

// TestControllerCtrlCQuits verifies ctrl+c quits from every mode
func TestControllerCtrlCQuits(t *testing.T) {
	setups := map[string]func(c *Controller){
		"command": func(c *Controller) {},
		"reading": func(c *Controller) { typeLine(c, "@a.txt") },
		"paused": func(c *Controller) {
			typeLine(c, "@a.txt")
			c.Handle(runeKey(' '))
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestController(map[string]string{"a.txt": story})
			setup(c)
			c.Handle(specialKey(terminal.KeyCtrlC))
			if c.Mode() != ModeQuit {
				t.Errorf("Expected quit, got %v", c.Mode())
			}
		})
	}
}

// TestControllerEscWithoutDocument verifies esc in command mode without a document stays put
func TestControllerEscWithoutDocument(t *testing.T) {
	c, _ := newTestController(nil)
	c.Handle(specialKey(terminal.KeyEscape))
	if c.Mode() != ModeCommand {
		t.Errorf("Expected command mode, got %v", c.Mode())
	}
}

// TestControllerNavigation verifies sentence jumps and speed keys
func TestControllerNavigation(t *testing.T) {
	c, _ := newTestController(map[string]string{"a.txt": story})
	typeLine(c, "@a.txt")

	stamp := c.Shown()
	c.Handle(runeKey('k'))
	if got := c.State().Current().Display(); got != "Fast!" {
		t.Errorf("Expected next sentence Fast!, got %q", got)
	}
	if c.Shown() == stamp {
		t.Errorf("Expected jump to restart the word timer")
	}
	c.Handle(specialKey(terminal.KeyRight))
	if got := c.State().Current().Text; got != "He" {
		t.Errorf("Expected next sentence He, got %q", got)
	}
	c.Handle(runeKey('j'))
	if got := c.State().Current().Display(); got != "Fast!" {
		t.Errorf("Expected previous sentence Fast!, got %q", got)
	}

	c.Handle(runeKey(']'))
	c.Handle(specialKey(terminal.KeyUp))
	if c.WPM() != 400 || c.View().WPM != 400 {
		t.Errorf("Expected 400 wpm, got %d (view %d)", c.WPM(), c.View().WPM)
	}
	for i := 0; i < 30; i++ {
		c.Handle(runeKey('['))
	}
	if c.WPM() != reading.MinWPM {
		t.Errorf("Expected clamp at %d, got %d", reading.MinWPM, c.WPM())
	}
}

// TestControllerAdvance verifies auto-advance and the pause at the end
func TestControllerAdvance(t *testing.T) {
	c, _ := newTestController(map[string]string{"a.txt": "one two three"})
	typeLine(c, "@a.txt")

	c.Advance()
	c.Advance()
	if got := c.State().Current().Text; got != "three" {
		t.Fatalf("Expected three, got %q", got)
	}
	c.Advance()
	if c.Mode() != ModePaused {
		t.Fatalf("Expected pause at end, got %v", c.Mode())
	}
	if c.State().Index() != 2 {
		t.Errorf("Expected index to stay on last word, got %d", c.State().Index())
	}

	// advance is ignored unless reading
	c.Advance()
	if c.State().Index() != 2 {
		t.Errorf("Expected no movement while paused")
	}

	c.Handle(runeKey(' '))
	if c.Mode() != ModeReading || c.State().Index() != 0 {
		t.Errorf("Expected restart from the first word, got mode %v index %d", c.Mode(), c.State().Index())
	}
}

// TestControllerCommands verifies :wpm, :help and clipboard loading
func TestControllerCommands(t *testing.T) {
	c, loader := newTestController(nil)

	typeLine(c, ":wpm 720")
	if c.WPM() != 720 {
		t.Errorf("Expected 720 wpm, got %d", c.WPM())
	}

	typeLine(c, ":help")
	if !c.View().ShowHelp {
		t.Errorf("Expected help shown")
	}
	if !c.Frame().Blank() {
		t.Errorf("Expected blank zone under help")
	}
	c.Handle(specialKey(terminal.KeyEscape))
	if c.View().ShowHelp {
		t.Errorf("Expected esc to close help")
	}

	typeLine(c, "@@")
	if c.Mode() != ModeReading || c.View().Label != "clipboard" {
		t.Fatalf("Expected clipboard loaded, got mode %v label %q", c.Mode(), c.View().Label)
	}
	if c.State().WPM() != 720 {
		t.Errorf("Expected loaded document at 720 wpm, got %d", c.State().WPM())
	}
	if loader.loads != 1 {
		t.Errorf("Expected one load, got %d", loader.loads)
	}

	c.Execute(command.Command{Kind: command.KindSetWPM, WPM: 200})
	if c.State().WPM() != 200 {
		t.Errorf("Expected state speed 200, got %d", c.State().WPM())
	}
}

// TestControllerHistory verifies up/down recall of earlier lines
func TestControllerHistory(t *testing.T) {
	c, _ := newTestController(nil)
	typeLine(c, ":wpm 100")
	typeLine(c, ":wpm 200")

	c.Handle(runeKey('x'))
	up := specialKey(terminal.KeyUp)
	down := specialKey(terminal.KeyDown)

	c.Handle(up)
	if got := c.View().Field.Value(); got != ":wpm 200" {
		t.Errorf("Expected newest entry, got %q", got)
	}
	c.Handle(up)
	c.Handle(up)
	if got := c.View().Field.Value(); got != ":wpm 100" {
		t.Errorf("Expected oldest entry, got %q", got)
	}
	c.Handle(down)
	c.Handle(down)
	if got := c.View().Field.Value(); got != "x" {
		t.Errorf("Expected draft restored, got %q", got)
	}
}

// TestControllerFrame verifies emphasis and ghost words per mode
func TestControllerFrame(t *testing.T) {
	c, _ := newTestController(map[string]string{"a.txt": "a b c d e"})
	if !c.Frame().Blank() {
		t.Errorf("Expected blank frame before load")
	}
	typeLine(c, "@a.txt")
	c.Advance()
	c.Advance()

	f := c.Frame()
	if f.Word != "c" || f.Emphasis != render.EmphasisActive {
		t.Errorf("Expected active c, got %+v", f)
	}
	if strings.Join(f.Before, ",") != "b,a" || strings.Join(f.After, ",") != "d,e" {
		t.Errorf("Expected ghosts nearest first, got %v %v", f.Before, f.After)
	}

	c.Handle(runeKey(' '))
	if c.Frame().Emphasis != render.EmphasisPaused {
		t.Errorf("Expected paused emphasis")
	}
	c.Handle(runeKey('q'))
	if c.Frame().Emphasis != render.EmphasisDimmed {
		t.Errorf("Expected dimmed emphasis in command mode")
	}

	c.ghost.Enabled = false
	if f := c.Frame(); f.Before != nil || f.After != nil {
		t.Errorf("Expected no ghosts when disabled, got %v %v", f.Before, f.After)
	}
}
