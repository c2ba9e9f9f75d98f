package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/henrythdu/Speedy/reading"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDefaultIsValid verifies the built-in settings pass validation
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected valid defaults, got %v", err)
	}
	timing := cfg.Timing.ReadingTiming()
	want := reading.DefaultTiming()
	for r, v := range want.Multipliers {
		if timing.Multipliers[r] != v {
			t.Errorf("Multiplier %q: expected %v, got %v", r, v, timing.Multipliers[r])
		}
	}
}

// TestLoadOverrides verifies file values replace defaults key by key
func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[timing]
wpm = 450

[timing.multipliers]
";" = 2.0
newline = 5.0

[theme]
anchor = "gold"

[ghost]
enabled = false
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timing.WPM != 450 {
		t.Errorf("Expected wpm 450, got %d", cfg.Timing.WPM)
	}
	if cfg.Ghost.Enabled {
		t.Errorf("Expected ghost disabled")
	}
	if cfg.Theme.Text != "#A9B1D6" {
		t.Errorf("Expected default text color kept, got %q", cfg.Theme.Text)
	}
	timing := cfg.Timing.ReadingTiming()
	if timing.Multipliers[';'] != 2.0 || timing.Multipliers['\n'] != 5.0 {
		t.Errorf("Expected ; 2.0 and newline 5.0, got %v", timing.Multipliers)
	}
	if timing.Multipliers['.'] != 3.0 {
		t.Errorf("Expected default period multiplier kept, got %v", timing.Multipliers['.'])
	}
}

// TestLoadMissing verifies the required flag on absent files
func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	if _, err := Load(missing, false); err != nil {
		t.Errorf("Expected defaults for optional missing file, got %v", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Errorf("Expected error for required missing file")
	}
	if _, err := Load("", true); err != nil {
		t.Errorf("Expected defaults for empty path, got %v", err)
	}
}

// TestLoadRejects verifies invalid settings are reported
func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[timing]\nspeed = 3\n", "timing.speed"},
		{"wpm range", "[timing]\nwpm = 5\n", "timing.wpm"},
		{"bad color", "[theme]\nanchor = \"notacolor\"\n", "theme.anchor"},
		{"opacity", "[ghost]\nopacity = 2.0\n", "opacities"},
		{"zone", "[layout]\nzone_fraction = 1.0\n", "zone_fraction"},
		{"multiplier key", "[timing.multipliers]\nab = 2.0\n", "ab"},
		{"syntax", "[timing\n", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			if err == nil {
				t.Fatalf("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

// TestWriteRoundTrip verifies written defaults load back unchanged
func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Default()); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(writeConfig(t, buf.String()), true)
	if err != nil {
		t.Fatalf("Load of written defaults failed: %v", err)
	}
	if cfg.Timing.WPM != reading.DefaultWPM || cfg.Layout.VerticalFraction != 0.42 {
		t.Errorf("Unexpected round trip %+v", cfg)
	}
}

// TestPalette verifies color parsing and fading
func TestPalette(t *testing.T) {
	p, err := Default().Theme.Palette()
	if err != nil {
		t.Fatal(err)
	}
	if got := RGB(p.Background); got.R != 0x1A || got.G != 0x1B || got.B != 0x26 {
		t.Errorf("Expected #1A1B26, got %+v", got)
	}
	if got := RGBA(p.Anchor); got.R != 0xF7 || got.A != 0xFF {
		t.Errorf("Expected anchor red channel F7 opaque, got %+v", got)
	}
	if got := RGB(p.Fade(p.Text, 0)); got != RGB(p.Background) {
		t.Errorf("Expected zero alpha to yield background, got %+v", got)
	}
	if got := RGB(p.Fade(p.Text, 1)); got != RGB(p.Text) {
		t.Errorf("Expected full alpha to keep color, got %+v", got)
	}

	if _, err := ParseColor("red"); err != nil {
		t.Errorf("Expected named color to parse, got %v", err)
	}
	if _, err := ParseColor(""); err == nil {
		t.Errorf("Expected error for empty color")
	}
}
