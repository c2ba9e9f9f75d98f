package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/henrythdu/Speedy/chrome"
	"github.com/henrythdu/Speedy/command"
	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/input"
	"github.com/henrythdu/Speedy/reading"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/source"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/terminal/tui"
)

// maxHistory bounds the command line history
const maxHistory = 100

// Options configures a Controller
type Options struct {
	Loader  source.Loader
	Keys    *input.KeyTable // nil for defaults
	Timing  reading.Timing
	WPM     int
	Ghost   config.Ghost
	Backend string // shown in the status row
	Logger  *slog.Logger
}

// Controller owns the reading state and applies every keystroke through Handle.
// It is not safe for concurrent use; the Loop is its only caller.
type Controller struct {
	loader  source.Loader
	machine *input.Machine
	timing  reading.Timing
	wpm     int
	ghost   config.Ghost
	log     *slog.Logger

	mode     Mode
	state    *reading.State // nil until a document loads
	label    string
	shown    uint64 // bumped whenever a word starts its display time
	finished bool   // playback ran off the last word

	field   *tui.TextFieldState
	history []string
	histPos int
	draft   string

	view  chrome.View
	dirty bool
}

// NewController creates a controller in command mode with no document
func NewController(o Options) *Controller {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		loader:  o.Loader,
		machine: input.NewMachine(o.Keys),
		timing:  o.Timing,
		wpm:     reading.ClampWPM(o.WPM),
		ghost:   o.Ghost,
		log:     log,
		field:   tui.NewTextFieldState(""),
		dirty:   true,
	}
	c.view.Backend = o.Backend
	c.view.Field = c.field
	c.setMode(ModeCommand)
	c.changed()
	return c
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// State returns the loaded document's reading state, nil before the first load
func (c *Controller) State() *reading.State {
	return c.state
}

// WPM returns the speed applied to the next word
func (c *Controller) WPM() int {
	return c.wpm
}

// Shown changes every time a word begins its display time
func (c *Controller) Shown() uint64 {
	return c.shown
}

// View returns the chrome's view of the controller, kept current after every change
func (c *Controller) View() *chrome.View {
	return &c.view
}

// Dirty reports whether anything visible changed since the last MarkClean
func (c *Controller) Dirty() bool {
	return c.dirty
}

// MarkDirty forces the next iteration to render
func (c *Controller) MarkDirty() {
	c.dirty = true
}

// MarkClean is called after a frame has been presented
func (c *Controller) MarkClean() {
	c.dirty = false
}

// Handle is the single entry point for key events
func (c *Controller) Handle(ev terminal.Event) {
	if ev.Type != terminal.EventKey {
		return
	}
	it := c.machine.Process(ev)
	if it == nil {
		return
	}
	c.apply(it)
	c.changed()
}

// Advance moves playback on when the current word's time is up.
// Running off the last word pauses instead.
func (c *Controller) Advance() {
	if c.mode != ModeReading {
		return
	}
	if c.state.Advance() {
		c.shown++
	} else {
		c.finished = true
		c.setMode(ModePaused)
		c.info("End of document, space to read again")
		c.log.Info("reached end of document", "label", c.label, "words", c.state.Len())
	}
	c.changed()
}

// Execute runs a parsed command line
func (c *Controller) Execute(cmd command.Command) {
	switch cmd.Kind {
	case command.KindNone:
	case command.KindLoadFile:
		doc, err := c.loader.LoadFile(cmd.Path)
		if err != nil {
			c.fail(err)
			break
		}
		c.open(doc)
	case command.KindLoadClipboard:
		doc, err := c.loader.LoadClipboard()
		if err != nil {
			c.fail(err)
			break
		}
		c.open(doc)
	case command.KindQuit:
		c.mode = ModeQuit
	case command.KindHelp:
		c.view.ShowHelp = !c.view.ShowHelp
	case command.KindSetWPM:
		c.wpm = reading.ClampWPM(cmd.WPM)
		if c.state != nil {
			c.state.SetWPM(c.wpm)
		}
		c.info(fmt.Sprintf("Speed set to %d wpm", c.wpm))
	case command.KindUnknown:
		c.fail(errors.New(cmd.Err))
	}
	c.changed()
}

// Frame describes the reading zone for the current state
func (c *Controller) Frame() render.Frame {
	if c.state == nil || c.view.ShowHelp {
		return render.Frame{}
	}
	f := render.Frame{Word: c.state.Current().Display()}
	switch c.mode {
	case ModeReading:
		f.Emphasis = render.EmphasisActive
	case ModePaused:
		f.Emphasis = render.EmphasisPaused
	default:
		f.Emphasis = render.EmphasisDimmed
	}
	if c.ghost.Enabled {
		prev, next := c.state.Context(c.ghost.Before, c.ghost.After)
		f.Before = texts(prev)
		f.After = texts(next)
	}
	return f
}

func (c *Controller) apply(it *input.Intent) {
	switch it.Type {
	case input.IntentQuit:
		c.mode = ModeQuit

	case input.IntentEscape:
		c.escape()

	case input.IntentTogglePause:
		switch c.mode {
		case ModeReading:
			c.setMode(ModePaused)
		case ModePaused:
			if c.finished {
				c.state.Seek(0)
				c.finished = false
			}
			c.setMode(ModeReading)
			c.shown++
		}

	case input.IntentSpeedUp, input.IntentSpeedDown:
		if c.state == nil {
			return
		}
		delta := reading.WPMStep
		if it.Type == input.IntentSpeedDown {
			delta = -delta
		}
		c.wpm = c.state.AdjustWPM(delta)

	case input.IntentNextSentence, input.IntentPrevSentence:
		if c.state == nil {
			return
		}
		var moved bool
		if it.Type == input.IntentNextSentence {
			moved = c.state.JumpToNextSentence()
		} else {
			moved = c.state.JumpToPreviousSentence()
		}
		if moved {
			c.finished = false
			c.shown++
		}

	case input.IntentTextChar:
		c.field.Insert(it.Char)
		c.histPos = len(c.history)

	case input.IntentTextEdit:
		c.field.HandleKey(it.Key, 0)

	case input.IntentTextConfirm:
		line := strings.TrimSpace(c.field.Value())
		c.field.Clear()
		c.view.Message = ""
		if line == "" {
			return
		}
		c.remember(line)
		c.Execute(command.Parse(line))

	case input.IntentHistoryPrev:
		if c.histPos == len(c.history) {
			c.draft = c.field.Value()
		}
		if c.histPos > 0 {
			c.histPos--
			c.field.SetValue(c.history[c.histPos])
		}

	case input.IntentHistoryNext:
		if c.histPos >= len(c.history) {
			return
		}
		c.histPos++
		if c.histPos == len(c.history) {
			c.field.SetValue(c.draft)
		} else {
			c.field.SetValue(c.history[c.histPos])
		}
	}
}

// escape steps back: reading to command, then help, typed text, and finally
// back to the paused document
func (c *Controller) escape() {
	switch c.mode {
	case ModeReading, ModePaused:
		c.setMode(ModeCommand)
	case ModeCommand:
		switch {
		case c.view.ShowHelp:
			c.view.ShowHelp = false
		case c.field.Value() != "":
			c.field.Clear()
		case c.state != nil:
			c.setMode(ModePaused)
		}
	}
}

// open replaces the document; zero words never leave command mode
func (c *Controller) open(doc source.Document) {
	st, err := reading.NewState(reading.Tokenize(doc.Text), c.wpm, c.timing)
	if err != nil {
		c.fail(fmt.Errorf("%s: %w", doc.Label, err))
		return
	}
	c.state, c.label, c.finished = st, doc.Label, false
	c.view.ShowHelp = false
	c.setMode(ModeReading)
	c.shown++
	c.info(fmt.Sprintf("Loaded %s, %d words", doc.Label, st.Len()))
	c.log.Info("document loaded", "label", doc.Label, "words", st.Len(), "wpm", st.WPM())
}

func (c *Controller) remember(line string) {
	if n := len(c.history); n == 0 || c.history[n-1] != line {
		c.history = append(c.history, line)
		if len(c.history) > maxHistory {
			c.history = c.history[len(c.history)-maxHistory:]
		}
	}
	c.histPos = len(c.history)
	c.draft = ""
}

func (c *Controller) setMode(m Mode) {
	c.mode = m
	if m == ModeCommand {
		c.machine.SetMode(input.ModeCommand)
	} else {
		c.machine.SetMode(input.ModeReading)
		c.view.ShowHelp = false
	}
}

func (c *Controller) info(msg string) {
	c.view.Message, c.view.Tone = msg, chrome.ToneInfo
}

func (c *Controller) fail(err error) {
	c.view.Message, c.view.Tone = err.Error(), chrome.ToneError
	c.log.Warn("command failed", "error", err)
}

// changed refreshes the view and schedules a render
func (c *Controller) changed() {
	v := &c.view
	v.Mode = c.mode.String()
	v.Label = c.label
	v.WPM = c.wpm
	v.FieldFocused = c.mode == ModeCommand
	if c.state != nil {
		v.Index = c.state.Index() + 1
		v.Total = c.state.Len()
		v.Progress = c.state.Progress()
	}
	c.dirty = true
}

func texts(tokens []reading.Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Display()
	}
	return out
}
