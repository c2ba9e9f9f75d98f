// Package config holds user settings loaded from a TOML file.
//
// Every field has a default; a file only needs the keys it changes. Unknown
// keys are rejected so typos surface at startup.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/henrythdu/Speedy/reading"
)

// Config is the complete settings tree
type Config struct {
	Timing Timing `toml:"timing"`
	Theme  Theme  `toml:"theme"`
	Ghost  Ghost  `toml:"ghost"`
	Font   Font   `toml:"font"`
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
}

// Timing controls playback speed and pauses
type Timing struct {
	WPM               int                `toml:"wpm"`
	LongWordThreshold int                `toml:"long_word_threshold"`
	LongWordPenalty   float64            `toml:"long_word_penalty"`
	Multipliers       map[string]float64 `toml:"multipliers"`
}

// Theme names colors as hex (#RRGGBB) or W3C names
type Theme struct {
	Background string `toml:"background"`
	Text       string `toml:"text"`
	Anchor     string `toml:"anchor"`
	Dimmed     string `toml:"dimmed"`
	Accent     string `toml:"accent"`
	Error      string `toml:"error"`
}

// Ghost configures the faint context words around the current one
type Ghost struct {
	Enabled       bool    `toml:"enabled"`
	Before        int     `toml:"before"`
	After         int     `toml:"after"`
	Opacity       float64 `toml:"opacity"`
	PausedOpacity float64 `toml:"paused_opacity"`
}

// Font selects the typeface; Size 0 derives it from the cell height
type Font struct {
	Path  string  `toml:"path"`
	Size  float64 `toml:"size"`
	Scale float64 `toml:"scale"`
}

// Layout splits the screen between the reading zone and the deck
type Layout struct {
	ZoneFraction     float64 `toml:"zone_fraction"`
	VerticalFraction float64 `toml:"vertical_fraction"`
}

// Cache bounds the rasterized word cache
type Cache struct {
	Capacity int `toml:"capacity"`
}

// newlineKey names the line-break mark in [timing.multipliers]
const newlineKey = "newline"

// Default returns the built-in settings
func Default() Config {
	t := reading.DefaultTiming()
	return Config{
		Timing: Timing{
			WPM:               reading.DefaultWPM,
			LongWordThreshold: t.LongWordThreshold,
			LongWordPenalty:   t.LongWordPenalty,
			Multipliers:       multipliersToConfig(t.Multipliers),
		},
		Theme: Theme{
			Background: "#1A1B26",
			Text:       "#A9B1D6",
			Anchor:     "#F7768E",
			Dimmed:     "#646E96",
			Accent:     "#7AA2F7",
			Error:      "#DB4B4B",
		},
		Ghost: Ghost{
			Enabled:       true,
			Before:        3,
			After:         3,
			Opacity:       0.2,
			PausedOpacity: 0.6,
		},
		Font: Font{
			Scale: 3,
		},
		Layout: Layout{
			ZoneFraction:     0.85,
			VerticalFraction: 0.42,
		},
		Cache: Cache{
			Capacity: 1000,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/speedy/config.toml or the platform equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "speedy", "config.toml")
}

// Load reads settings from path over the defaults.
// A missing file is an error only when required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Default(), fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks ranges and colors
func (c *Config) Validate() error {
	var errs []error
	if c.Timing.WPM < reading.MinWPM || c.Timing.WPM > reading.MaxWPM {
		errs = append(errs, fmt.Errorf("timing.wpm %d outside [%d,%d]", c.Timing.WPM, reading.MinWPM, reading.MaxWPM))
	}
	if c.Timing.LongWordThreshold < 1 {
		errs = append(errs, fmt.Errorf("timing.long_word_threshold must be positive"))
	}
	if c.Timing.LongWordPenalty < 1 {
		errs = append(errs, fmt.Errorf("timing.long_word_penalty must be >= 1"))
	}
	for k, v := range c.Timing.Multipliers {
		if _, err := markRune(k); err != nil {
			errs = append(errs, err)
		}
		if v < 1 {
			errs = append(errs, fmt.Errorf("timing.multipliers.%q must be >= 1", k))
		}
	}
	if _, err := c.Theme.Palette(); err != nil {
		errs = append(errs, err)
	}
	if c.Ghost.Before < 0 || c.Ghost.After < 0 {
		errs = append(errs, fmt.Errorf("ghost word counts must not be negative"))
	}
	if !unit(c.Ghost.Opacity) || !unit(c.Ghost.PausedOpacity) {
		errs = append(errs, fmt.Errorf("ghost opacities must be within [0,1]"))
	}
	if c.Font.Size < 0 || c.Font.Scale <= 0 {
		errs = append(errs, fmt.Errorf("font.size must be >= 0 and font.scale > 0"))
	}
	if c.Layout.ZoneFraction <= 0 || c.Layout.ZoneFraction >= 1 {
		errs = append(errs, fmt.Errorf("layout.zone_fraction must be within (0,1)"))
	}
	if !unit(c.Layout.VerticalFraction) {
		errs = append(errs, fmt.Errorf("layout.vertical_fraction must be within [0,1]"))
	}
	if c.Cache.Capacity < 1 {
		errs = append(errs, fmt.Errorf("cache.capacity must be positive"))
	}
	return errors.Join(errs...)
}

// ReadingTiming converts the timing section
func (t Timing) ReadingTiming() reading.Timing {
	out := reading.Timing{
		LongWordThreshold: t.LongWordThreshold,
		LongWordPenalty:   t.LongWordPenalty,
		Multipliers:       make(map[rune]float64, len(t.Multipliers)),
	}
	for k, v := range t.Multipliers {
		if r, err := markRune(k); err == nil {
			out.Multipliers[r] = v
		}
	}
	return out
}

func multipliersToConfig(m map[rune]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for r, v := range m {
		if r == '\n' {
			out[newlineKey] = v
		} else {
			out[string(r)] = v
		}
	}
	return out
}

func markRune(key string) (rune, error) {
	if key == newlineKey {
		return '\n', nil
	}
	r := []rune(key)
	if len(r) != 1 {
		return 0, fmt.Errorf("timing.multipliers key %q must be one character or %q", key, newlineKey)
	}
	return r[0], nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
