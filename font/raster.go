package font

import (
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/henrythdu/Speedy/ovp"
)

// Word is a rasterized word: an alpha mask plus the geometry needed to
// place its anchor letter. The mask origin is the top-left of the line box;
// the baseline sits at Ascent.
type Word struct {
	Text     string
	Size     float64
	Mask     *image.Alpha
	Advances []float64 // per grapheme cluster, pixels
	Ascent   int
	Descent  int

	// Anchor is the fixation grapheme index, AnchorStart/AnchorEnd its pixel span
	Anchor      int
	AnchorStart float64
	AnchorEnd   float64
}

// AnchorOffset is the distance from the mask's left edge to the anchor centre
func (w *Word) AnchorOffset() float64 {
	return (w.AnchorStart + w.AnchorEnd) / 2
}

// Width returns the mask width in pixels
func (w *Word) Width() int {
	return w.Mask.Rect.Dx()
}

// Height returns the mask height in pixels
func (w *Word) Height() int {
	return w.Mask.Rect.Dy()
}

// Rasterizer draws words with one font
type Rasterizer struct {
	font *Font
}

// NewRasterizer creates a rasterizer over f
func NewRasterizer(f *Font) *Rasterizer {
	return &Rasterizer{font: f}
}

// Font returns the rasterizer's font
func (r *Rasterizer) Font() *Font {
	return r.font
}

// Rasterize draws word at size pixels into a fresh alpha mask.
// Clusters are drawn left to right with their own advances; an empty word
// produces a 1px wide blank mask.
func (r *Rasterizer) Rasterize(word string, size float64) (*Word, error) {
	face, err := r.font.Face(size)
	if err != nil {
		return nil, err
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	clusters := ovp.Graphemes(word)
	advances := make([]float64, len(clusters))
	var total fixed.Int26_6
	for i, c := range clusters {
		adv := xfont.MeasureString(face, c)
		advances[i] = fixedToFloat64(adv)
		total += adv
	}

	width := max(total.Ceil(), 1)
	height := max(ascent+descent, 1)
	mask := image.NewAlpha(image.Rect(0, 0, width, height))

	drawer := &xfont.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(ascent)},
	}
	for _, c := range clusters {
		drawer.DrawString(c)
	}

	out := &Word{
		Text:     word,
		Size:     size,
		Mask:     mask,
		Advances: advances,
		Ascent:   ascent,
		Descent:  descent,
	}
	if len(clusters) > 0 {
		out.Anchor = ovp.Anchor(word)
		for i := 0; i < out.Anchor; i++ {
			out.AnchorStart += advances[i]
		}
		out.AnchorEnd = out.AnchorStart + advances[out.Anchor]
	}
	return out, nil
}
