package viewport

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/henrythdu/Speedy/terminal"
)

var (
	// ErrGraphicsUnavailable is returned when graphics were forced but no pixel geometry exists
	ErrGraphicsUnavailable = errors.New("graphics forced but terminal reports no pixel geometry")

	// ErrConflictingOverrides is returned when both --graphics and --fallback are set
	ErrConflictingOverrides = errors.New("--graphics and --fallback are mutually exclusive")
)

// Capability is the rendering path chosen once at startup
type Capability uint8

const (
	Fallback Capability = iota
	Graphics
)

func (c Capability) String() string {
	if c == Graphics {
		return "graphics"
	}
	return "fallback"
}

// Override is the operator's explicit choice
type Override uint8

const (
	Auto Override = iota
	ForceGraphics
	ForceFallback
)

// ParseOverride combines the two CLI switches
func ParseOverride(graphics, fallback bool) (Override, error) {
	switch {
	case graphics && fallback:
		return Auto, ErrConflictingOverrides
	case graphics:
		return ForceGraphics, nil
	case fallback:
		return ForceFallback, nil
	}
	return Auto, nil
}

// Prober is the part of the terminal used for detection
type Prober interface {
	Write(p []byte) error
	Wait(timeout time.Duration) (terminal.Event, bool, error)
	Winsize() terminal.Winsize
}

// Result is the outcome of detection
type Result struct {
	Capability Capability
	Dimensions Dimensions
	// Reason names the check that decided the capability
	Reason string
	// Deferred holds key and resize events read while waiting for replies
	Deferred []terminal.Event
}

// Detector resolves the rendering capability
type Detector struct {
	Override Override
	IsTTY    bool
	Getenv   func(string) string
	Window   time.Duration
}

// NewDetector creates a detector reading the process environment
func NewDetector(o Override) *Detector {
	fd := os.Stdout.Fd()
	return &Detector{
		Override: o,
		IsTTY:    isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		Getenv:   os.Getenv,
		Window:   ProbeWindow,
	}
}

// Resolve picks Graphics or Fallback and measures the initial geometry.
// Order: operator override, environment gates, then a live probe.
func (d *Detector) Resolve(p Prober) (Result, error) {
	switch d.Override {
	case ForceFallback:
		return Result{Capability: Fallback, Dimensions: FromWinsize(p.Winsize()), Reason: "override"}, nil
	case ForceGraphics:
		res, err := d.probe(p, false)
		if err != nil {
			return res, err
		}
		res.Capability, res.Reason = Graphics, "override"
		if !res.Dimensions.HasPixels() {
			return res, ErrGraphicsUnavailable
		}
		return res, nil
	}

	if !d.IsTTY {
		return Result{Capability: Fallback, Dimensions: FromWinsize(p.Winsize()), Reason: "not a tty"}, nil
	}
	if mux := d.multiplexer(); mux != "" {
		return Result{Capability: Fallback, Dimensions: FromWinsize(p.Winsize()), Reason: mux}, nil
	}

	res, err := d.probe(p, true)
	if err != nil {
		return res, err
	}
	if res.Capability == Graphics && !res.Dimensions.HasPixels() {
		res.Capability, res.Reason = Fallback, "no pixel geometry"
	}
	return res, nil
}

func (d *Detector) multiplexer() string {
	switch {
	case d.getenv("TMUX") != "":
		return "tmux"
	case d.getenv("STY") != "":
		return "screen"
	}
	return ""
}

// kittyHint reports environment variables set by terminals known to speak the graphics protocol
func (d *Detector) kittyHint() bool {
	term := strings.ToLower(d.getenv("TERM"))
	prog := strings.ToLower(d.getenv("TERM_PROGRAM"))
	return strings.Contains(term, "kitty") ||
		strings.Contains(term, "ghostty") ||
		strings.Contains(prog, "kitty") ||
		strings.Contains(prog, "ghostty") ||
		d.getenv("KITTY_WINDOW_ID") != "" ||
		d.getenv("KONSOLE_VERSION") != ""
}

func (d *Detector) getenv(key string) string {
	if d.Getenv == nil {
		return ""
	}
	return d.Getenv(key)
}

// probe sends geometry queries, optionally the graphics query, and a DA1
// fence, then reads replies until the fence arrives or the window lapses
func (d *Detector) probe(p Prober, graphics bool) (Result, error) {
	window := d.Window
	if window <= 0 {
		window = ProbeWindow
	}
	start := time.Now()
	vp := New(p.Winsize)
	vp.Invalidate(start)
	vp.deadline = start.Add(window)

	query := Queries()
	if graphics {
		query = append(query, terminal.QueryKittyGraphics...)
	}
	query = append(query, terminal.QueryDeviceAttributes...)
	if err := p.Write(query); err != nil {
		return Result{}, err
	}

	var res Result
	answered, fenced := false, false
	for !fenced {
		remaining := time.Until(vp.deadline)
		if remaining <= 0 {
			break
		}
		ev, ok, err := p.Wait(remaining)
		if err != nil {
			return res, err
		}
		if !ok {
			continue
		}
		switch ev.Type {
		case terminal.EventReply:
			switch ev.Reply.Kind {
			case terminal.ReplyDeviceAttributes:
				fenced = true
			case terminal.ReplyGraphics:
				if ev.Reply.ImageID == terminal.KittyProbeID {
					answered = true
					if ev.Reply.OK {
						res.Capability, res.Reason = Graphics, "probe"
					} else {
						res.Reason = "probe: " + ev.Reply.Message
					}
				}
			default:
				vp.Apply(ev.Reply)
			}
		case terminal.EventKey, terminal.EventResize:
			res.Deferred = append(res.Deferred, ev)
		}
	}

	if graphics && !answered {
		// A fence without a graphics reply is a definite no; silence is not
		if !fenced && d.kittyHint() {
			res.Capability, res.Reason = Graphics, "environment"
		} else if res.Reason == "" {
			res.Reason = "no graphics reply"
		}
	}

	vp.Expire(vp.deadline)
	res.Dimensions, _ = vp.Dimensions()
	slog.Debug("capability probe",
		"capability", res.Capability.String(),
		"reason", res.Reason,
		"fenced", fenced,
		"pixels", res.Dimensions.HasPixels(),
		"elapsed", time.Since(start))
	return res, nil
}
