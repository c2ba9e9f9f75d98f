// Package font loads the reading font and rasterizes words into alpha masks.
//
// An embedded Go Mono face is always available; a user font is tried first
// when configured and silently replaced by the embedded one when it cannot
// be read or parsed.
package font

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrNoFont is returned when neither the configured nor the embedded font can be used
	ErrNoFont = errors.New("font: no usable font")

	// ErrInvalidSize is returned for non-positive pixel sizes
	ErrInvalidSize = errors.New("font: size must be positive")
)

// EmbeddedName is the name reported by the built-in font
const EmbeddedName = "Go Mono"

// Font is a parsed OpenType font with faces cached per pixel size.
// Safe for concurrent use.
type Font struct {
	name string
	sf   *opentype.Font

	mu    sync.Mutex
	faces map[float64]xfont.Face
}

var (
	defaultOnce sync.Once
	defaultFont *Font
	defaultErr  error
)

// Default returns the embedded font, parsed once per process
func Default() (*Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = Parse(gomono.TTF, EmbeddedName)
	})
	if defaultErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFont, defaultErr)
	}
	return defaultFont, nil
}

// Load reads the font at path. An empty path, an unreadable file or an
// unparsable file yields the embedded font instead.
func Load(path string) (*Font, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("font unreadable, using embedded", "path", path, "error", err)
		return Default()
	}
	f, err := Parse(data, path)
	if err != nil {
		slog.Warn("font invalid, using embedded", "path", path, "error", err)
		return Default()
	}
	return f, nil
}

// Parse parses TrueType/OpenType data
func Parse(data []byte, name string) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("font: empty data for %s", name)
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: failed to parse %s: %w", name, err)
	}
	return &Font{
		name:  name,
		sf:    sf,
		faces: make(map[float64]xfont.Face),
	}, nil
}

// Name returns the path or embedded name the font was loaded from
func (f *Font) Name() string {
	return f.name
}

// Face returns the face for a pixel size, creating it on first use
func (f *Font) Face(size float64) (xfont.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, ErrInvalidSize
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.sf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font: face at %.1fpx: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Close releases every cached face
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for size, face := range f.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(f.faces, size)
	}
	return errors.Join(errs...)
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
