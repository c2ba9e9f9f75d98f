package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/henrythdu/Speedy/chrome"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/viewport"
)

const (
	// IdleTimeout bounds the wait while nothing is auto-advancing
	IdleTimeout = 100 * time.Millisecond
	// RefreshInterval is the longest the screen goes without a redraw
	RefreshInterval = 250 * time.Millisecond
)

// Screen is the part of the terminal the loop drives
type Screen interface {
	render.Flusher
	Write(p []byte) error
	Wait(timeout time.Duration) (terminal.Event, bool, error)
}

// LoopConfig wires a Loop
type LoopConfig struct {
	Screen       Screen
	Controller   *Controller
	Renderer     render.Renderer
	Orchestrator *render.Orchestrator
	Viewport     *viewport.Viewport
	Layout       *chrome.Layout // updated in place on resize
	ZoneFraction float64
	Logger       *slog.Logger
	Now          func() time.Time // nil for time.Now
}

// Loop is the reader's scheduler: one bounded wait per iteration, then either
// the event that arrived or the auto-advance the timeout stands for
type Loop struct {
	screen   Screen
	ctrl     *Controller
	renderer render.Renderer
	orch     *render.Orchestrator
	vp       *viewport.Viewport
	layout   *chrome.Layout
	fraction float64
	log      *slog.Logger
	now      func() time.Time

	shown      uint64    // controller stamp the deadline belongs to
	deadline   time.Time // when the current word's display time ends
	lastRender time.Time
	frames     uint64
}

// NewLoop creates a loop from cfg
func NewLoop(cfg LoopConfig) *Loop {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Loop{
		screen:   cfg.Screen,
		ctrl:     cfg.Controller,
		renderer: cfg.Renderer,
		orch:     cfg.Orchestrator,
		vp:       cfg.Viewport,
		layout:   cfg.Layout,
		fraction: cfg.ZoneFraction,
		log:      log,
		now:      now,
	}
}

// Run drives the controller until it quits or a frame cannot be delivered.
// Events read before the loop started (during capability probing) are
// dispatched first. Closed input ends the session without error.
func (l *Loop) Run(pending []terminal.Event) error {
	for _, ev := range pending {
		if err := l.dispatch(ev, l.now()); err != nil {
			return err
		}
	}

	for l.ctrl.Mode() != ModeQuit {
		now := l.now()
		l.syncClock(now)

		if l.ctrl.Dirty() || now.Sub(l.lastRender) >= RefreshInterval {
			if err := l.render(now); err != nil {
				return err
			}
		}

		ev, ok, err := l.screen.Wait(l.timeout(now))
		if err != nil {
			if errors.Is(err, terminal.ErrInputClosed) {
				l.log.Info("input closed, exiting")
				return nil
			}
			return fmt.Errorf("wait for input: %w", err)
		}

		now = l.now()
		if ok {
			if err := l.dispatch(ev, now); err != nil {
				return err
			}
			l.syncClock(now)
		}
		l.tick(now, !ok)
	}
	return nil
}

// Frames returns how many frames have been presented
func (l *Loop) Frames() uint64 {
	return l.frames
}

// tick handles what the passage of time owes: an expired geometry probe and,
// when the wait timed out, the auto-advance of a word whose display time is up.
// An iteration that handled an event never advances; an overdue word moves on
// at the next zero-length wait.
func (l *Loop) tick(now time.Time, timedOut bool) {
	if l.vp.Pending() && !now.Before(l.vp.Deadline()) {
		l.vp.Expire(now)
		l.ctrl.MarkDirty()
		l.restartWord(now)
	}
	if timedOut && l.reading() && !now.Before(l.deadline) {
		l.ctrl.Advance()
		l.syncClock(now)
	}
}

func (l *Loop) dispatch(ev terminal.Event, now time.Time) error {
	switch ev.Type {
	case terminal.EventKey:
		l.ctrl.Handle(ev)
	case terminal.EventResize:
		return l.resize(ev.Width, ev.Height, now)
	case terminal.EventReply:
		if ev.Reply.Kind == terminal.ReplyGraphics && !ev.Reply.OK {
			l.log.Warn("graphics command rejected", "id", ev.Reply.ImageID, "message", ev.Reply.Message)
			return nil
		}
		if l.vp.Apply(ev.Reply) {
			d, _ := l.vp.Dimensions()
			l.log.Debug("geometry refreshed", "px", d.PixelW, "py", d.PixelH, "cols", d.Cols, "rows", d.Rows)
			l.ctrl.MarkDirty()
			l.restartWord(now)
		}
	}
	return nil
}

// resize rebuilds the layout and, for the pixel renderer, removes the image
// and re-queries geometry. Reading holds until the answers arrive.
func (l *Loop) resize(w, h int, now time.Time) error {
	*l.layout = chrome.Compute(w, h, l.fraction)
	l.orch.Resize(w, h)
	l.ctrl.MarkDirty()

	if l.renderer.Capability() != viewport.Graphics {
		return nil
	}
	if err := l.renderer.Clear(); err != nil {
		return fmt.Errorf("clear zone: %w", err)
	}
	l.vp.Invalidate(now)
	if err := l.screen.Write(viewport.Queries()); err != nil {
		return fmt.Errorf("query geometry: %w", err)
	}
	l.log.Debug("resize", "cols", w, "rows", h)
	return nil
}

func (l *Loop) render(now time.Time) error {
	f := l.ctrl.Frame()
	f.Zone = l.layout.Zone

	var dims viewport.Dimensions
	if !l.vp.Pending() {
		dims, _ = l.vp.Dimensions()
	}
	ctx := render.Context{Now: now, Frame: f, Dims: dims}
	if err := l.orch.RenderFrame(ctx); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	if err := l.renderer.Present(); err != nil {
		return fmt.Errorf("transmit frame: %w", err)
	}
	l.frames++
	l.lastRender = now
	l.ctrl.MarkClean()
	return nil
}

// syncClock starts a new display deadline whenever the controller shows a new word
func (l *Loop) syncClock(now time.Time) {
	if s := l.ctrl.Shown(); s != l.shown {
		l.shown = s
		l.restartWord(now)
	}
}

func (l *Loop) restartWord(now time.Time) {
	if st := l.ctrl.State(); st != nil {
		l.deadline = now.Add(st.CurrentDelay())
	}
}

// reading reports whether auto-advance may fire
func (l *Loop) reading() bool {
	return l.ctrl.Mode() == ModeReading && !l.vp.Pending()
}

func (l *Loop) timeout(now time.Time) time.Duration {
	t := IdleTimeout
	if l.reading() {
		t = l.deadline.Sub(now)
	}
	if l.vp.Pending() {
		t = min(t, l.vp.Deadline().Sub(now))
	}
	t = min(t, RefreshInterval-now.Sub(l.lastRender))
	return max(t, 0)
}
