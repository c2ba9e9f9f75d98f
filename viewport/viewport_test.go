package viewport

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/henrythdu/Speedy/terminal"
)

// fakeProber replays scripted events and records writes
type fakeProber struct {
	events  []terminal.Event
	written []byte
	ws      terminal.Winsize
}

func (f *fakeProber) Write(p []byte) error {
	f.written = append(f.written, p...)
	return nil
}

func (f *fakeProber) Wait(timeout time.Duration) (terminal.Event, bool, error) {
	if len(f.events) == 0 {
		time.Sleep(timeout)
		return terminal.Event{}, false, nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true, nil
}

func (f *fakeProber) Winsize() terminal.Winsize {
	return f.ws
}

func reply(r terminal.Reply) terminal.Event {
	r.OK = r.OK || r.Kind != terminal.ReplyGraphics
	return terminal.Event{Type: terminal.EventReply, Reply: r}
}

var (
	pixelReply = reply(terminal.Reply{Kind: terminal.ReplyPixelSize, Width: 800, Height: 480})
	cellReply  = reply(terminal.Reply{Kind: terminal.ReplyCellCount, Width: 80, Height: 24})
	fence      = reply(terminal.Reply{Kind: terminal.ReplyDeviceAttributes})
	graphicsOK = terminal.Event{Type: terminal.EventReply, Reply: terminal.Reply{
		Kind: terminal.ReplyGraphics, ImageID: terminal.KittyProbeID, OK: true}}
	graphicsErr = terminal.Event{Type: terminal.EventReply, Reply: terminal.Reply{
		Kind: terminal.ReplyGraphics, ImageID: terminal.KittyProbeID, Message: "EINVAL"}}
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestDimensions verifies cell size derivation and rectangle conversion
func TestDimensions(t *testing.T) {
	d := NewDimensions(800, 480, 80, 24)
	if d.CellW != 10 || d.CellH != 20 {
		t.Fatalf("Expected cell 10x20, got %vx%v", d.CellW, d.CellH)
	}
	got := d.RectToPixels(image.Rect(2, 1, 12, 5))
	want := image.Rect(20, 20, 120, 100)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !d.HasPixels() {
		t.Errorf("Expected HasPixels")
	}
	if NewDimensions(0, 0, 80, 24).HasPixels() {
		t.Errorf("Expected no pixels for zero extents")
	}
	if NewDimensions(0, 0, 0, 0).CellW != 0 {
		t.Errorf("Expected zero cell width for zero columns")
	}
	if got := d.FontSize(3); got != 60 {
		t.Errorf("Expected font size 60, got %v", got)
	}
}

// TestViewportApply verifies replies complete a pending query
func TestViewportApply(t *testing.T) {
	v := New(func() terminal.Winsize { return terminal.Winsize{Cols: 1, Rows: 1} })
	now := time.Now()
	v.Invalidate(now)

	if _, ok := v.Dimensions(); ok {
		t.Fatalf("Expected invalid dimensions while pending")
	}
	if v.Apply(pixelReply.Reply) {
		t.Errorf("Expected pixel reply alone to leave query pending")
	}
	if !v.Apply(cellReply.Reply) {
		t.Fatalf("Expected cell reply to complete query")
	}
	d, ok := v.Dimensions()
	if !ok || d.Cols != 80 || d.PixelW != 800 || d.CellH != 20 {
		t.Errorf("Expected 80 cols 800px, got %+v ok=%v", d, ok)
	}
	if v.Apply(cellReply.Reply) {
		t.Errorf("Expected replies ignored once committed")
	}
}

// TestViewportCellSizeReply verifies pixel area is derived from a cell size reply
func TestViewportCellSizeReply(t *testing.T) {
	v := New(func() terminal.Winsize { return terminal.Winsize{} })
	v.Invalidate(time.Now())
	v.Apply(terminal.Reply{Kind: terminal.ReplyCellSize, Width: 9, Height: 18, OK: true})
	if !v.Apply(cellReply.Reply) {
		t.Fatalf("Expected completion")
	}
	d, _ := v.Dimensions()
	if d.PixelW != 720 || d.PixelH != 432 {
		t.Errorf("Expected 720x432, got %dx%d", d.PixelW, d.PixelH)
	}
}

// TestViewportExpire verifies the kernel window size fills missing replies
func TestViewportExpire(t *testing.T) {
	v := New(func() terminal.Winsize {
		return terminal.Winsize{Cols: 100, Rows: 30, PixelW: 1000, PixelH: 600}
	})
	now := time.Now()
	v.Invalidate(now)

	if v.Expire(now.Add(ProbeWindow / 2)) {
		t.Errorf("Expected no expiry inside the window")
	}
	if !v.Expire(now.Add(ProbeWindow)) {
		t.Fatalf("Expected expiry at the deadline")
	}
	d, ok := v.Dimensions()
	if !ok || d.Cols != 100 || d.PixelH != 600 {
		t.Errorf("Expected ioctl geometry, got %+v ok=%v", d, ok)
	}
}

// TestParseOverride verifies the CLI switches are mutually exclusive
func TestParseOverride(t *testing.T) {
	tests := []struct {
		graphics, fallback bool
		want               Override
		err                error
	}{
		{false, false, Auto, nil},
		{true, false, ForceGraphics, nil},
		{false, true, ForceFallback, nil},
		{true, true, Auto, ErrConflictingOverrides},
	}
	for _, tt := range tests {
		got, err := ParseOverride(tt.graphics, tt.fallback)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("ParseOverride(%v,%v): expected %v/%v, got %v/%v",
				tt.graphics, tt.fallback, tt.want, tt.err, got, err)
		}
	}
}

// TestResolve verifies the detection order
func TestResolve(t *testing.T) {
	pixels := terminal.Winsize{Cols: 80, Rows: 24, PixelW: 800, PixelH: 480}
	noPixels := terminal.Winsize{Cols: 80, Rows: 24}

	tests := []struct {
		name     string
		override Override
		tty      bool
		env      map[string]string
		events   []terminal.Event
		ws       terminal.Winsize
		want     Capability
		err      error
		probed   bool
	}{
		{name: "forced fallback", override: ForceFallback, tty: true, want: Fallback},
		{name: "not a tty", tty: false, want: Fallback},
		{name: "tmux", tty: true, env: map[string]string{"TMUX": "/tmp/x"}, want: Fallback},
		{name: "screen", tty: true, env: map[string]string{"STY": "1.pts"}, want: Fallback},
		{
			name: "probe ok", tty: true, probed: true, want: Graphics,
			events: []terminal.Event{pixelReply, cellReply, graphicsOK, fence},
		},
		{
			name: "probe error", tty: true, probed: true, want: Fallback,
			events: []terminal.Event{pixelReply, cellReply, graphicsErr, fence},
		},
		{
			name: "fence without reply", tty: true, probed: true, want: Fallback,
			env:    map[string]string{"TERM": "xterm-kitty"},
			events: []terminal.Event{pixelReply, cellReply, fence},
		},
		{
			name: "silence with kitty env", tty: true, probed: true, want: Graphics,
			env: map[string]string{"TERM": "xterm-kitty"}, ws: pixels,
		},
		{
			name: "probe ok without pixels", tty: true, probed: true, want: Fallback,
			events: []terminal.Event{graphicsOK, fence}, ws: noPixels,
		},
		{
			name: "forced graphics with ioctl pixels", override: ForceGraphics, probed: true,
			want: Graphics, events: []terminal.Event{fence}, ws: pixels,
		},
		{
			name: "forced graphics without pixels", override: ForceGraphics, probed: true,
			want: Graphics, events: []terminal.Event{fence}, ws: noPixels, err: ErrGraphicsUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProber{events: tt.events, ws: tt.ws}
			d := &Detector{Override: tt.override, IsTTY: tt.tty, Getenv: envOf(tt.env), Window: 20 * time.Millisecond}
			res, err := d.Resolve(p)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Expected error %v, got %v", tt.err, err)
			}
			if res.Capability != tt.want {
				t.Errorf("Expected %v, got %v (reason %q)", tt.want, res.Capability, res.Reason)
			}
			if tt.probed != (len(p.written) > 0) {
				t.Errorf("Expected probed=%v, wrote %q", tt.probed, p.written)
			}
		})
	}
}

// TestResolveDefersKeys verifies keystrokes and resizes during the probe are kept in order
func TestResolveDefersKeys(t *testing.T) {
	key := terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'}
	resize := terminal.Event{Type: terminal.EventResize, Width: 100, Height: 30}
	p := &fakeProber{events: []terminal.Event{key, graphicsOK, resize, pixelReply, cellReply, fence}}
	d := &Detector{IsTTY: true, Getenv: envOf(nil), Window: 20 * time.Millisecond}

	res, err := d.Resolve(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Deferred) != 2 || res.Deferred[0].Rune != 'x' || res.Deferred[1].Type != terminal.EventResize {
		t.Errorf("Expected deferred key x then resize, got %+v", res.Deferred)
	}
	if res.Dimensions.Cols != 80 || res.Dimensions.PixelW != 800 {
		t.Errorf("Expected replied geometry, got %+v", res.Dimensions)
	}
}
