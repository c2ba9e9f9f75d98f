package render

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"image"
	"strconv"

	"github.com/henrythdu/Speedy/terminal"
)

// chunkSize is the largest base64 payload per graphics escape
const chunkSize = 4096

// DefaultImageID addresses the single reading-zone image
const DefaultImageID = 1

// Writer receives complete escape sequences; terminal.Terminal satisfies it
type Writer interface {
	Write(p []byte) error
}

// Transmitter ships canvases to the terminal with the kitty graphics
// protocol. Every frame reuses one image id and deletes the previous
// placement first, so at most one image is ever visible.
type Transmitter struct {
	w  Writer
	id int

	visible  bool
	prev     []byte
	prevRect image.Rectangle
	prevZone image.Rectangle

	zbuf bytes.Buffer
	zw   *zlib.Writer
	enc  []byte
	out  []byte
}

// NewTransmitter creates a transmitter using image id
func NewTransmitter(w Writer, id int) *Transmitter {
	t := &Transmitter{w: w, id: id}
	t.zw = zlib.NewWriter(&t.zbuf)
	return t
}

// ID returns the image id
func (t *Transmitter) ID() int {
	return t.id
}

// Visible reports whether an image is currently placed
func (t *Transmitter) Visible() bool {
	return t.visible
}

// Transmit places img over zone (in cells). A frame identical to the last
// one in content and placement is skipped; sent reports whether bytes were written.
func (t *Transmitter) Transmit(img *image.RGBA, zone image.Rectangle) (sent bool, err error) {
	rect := img.Bounds()
	if t.visible && rect == t.prevRect && zone == t.prevZone && t.samePixels(img) {
		return false, nil
	}

	payload, err := t.compress(img)
	if err != nil {
		return false, err
	}

	out := terminal.AppendCursorPos(t.out[:0], zone.Min.X, zone.Min.Y)
	if t.visible {
		out = terminal.AppendGraphicsCommand(out, t.deleteControl(), nil)
	}

	for first := true; first || len(payload) > 0; first = false {
		n := min(len(payload), chunkSize)
		chunk := payload[:n]
		payload = payload[n:]

		more := "0"
		if len(payload) > 0 {
			more = "1"
		}
		control := "m=" + more
		if first {
			control = t.transmitControl(rect, zone) + ",m=" + more
		}
		out = terminal.AppendGraphicsCommand(out, control, chunk)
	}
	t.out = out

	if err := t.w.Write(out); err != nil {
		t.visible = false
		t.prev = t.prev[:0]
		return false, err
	}

	t.visible = true
	t.prevRect = rect
	t.prevZone = zone
	t.prev = appendPixels(t.prev[:0], img)
	return true, nil
}

// Delete removes the placed image, if any
func (t *Transmitter) Delete() error {
	if !t.visible {
		return nil
	}
	t.visible = false
	t.prev = t.prev[:0]
	t.out = terminal.AppendGraphicsCommand(t.out[:0], t.deleteControl(), nil)
	return t.w.Write(t.out)
}

// Forget drops the remembered frame so the next Transmit always sends.
// Used after the screen was cleared underneath the image.
func (t *Transmitter) Forget() {
	t.prev = t.prev[:0]
	t.prevRect = image.Rectangle{}
}

func (t *Transmitter) deleteControl() string {
	return "a=d,d=I,i=" + strconv.Itoa(t.id)
}

func (t *Transmitter) transmitControl(rect, zone image.Rectangle) string {
	b := make([]byte, 0, 64)
	b = append(b, "a=T,f=32,o=z,i="...)
	b = strconv.AppendInt(b, int64(t.id), 10)
	b = append(b, ",s="...)
	b = strconv.AppendInt(b, int64(rect.Dx()), 10)
	b = append(b, ",v="...)
	b = strconv.AppendInt(b, int64(rect.Dy()), 10)
	b = append(b, ",c="...)
	b = strconv.AppendInt(b, int64(zone.Dx()), 10)
	b = append(b, ",r="...)
	b = strconv.AppendInt(b, int64(zone.Dy()), 10)
	b = append(b, ",C=1,q=2"...)
	return string(b)
}

// compress zlib-deflates the RGBA rows and base64-encodes the result
func (t *Transmitter) compress(img *image.RGBA) ([]byte, error) {
	t.zbuf.Reset()
	t.zw.Reset(&t.zbuf)
	rowLen := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		off := y * img.Stride
		if _, err := t.zw.Write(img.Pix[off : off+rowLen]); err != nil {
			return nil, err
		}
	}
	if err := t.zw.Close(); err != nil {
		return nil, err
	}
	n := base64.StdEncoding.EncodedLen(t.zbuf.Len())
	if cap(t.enc) < n {
		t.enc = make([]byte, n)
	}
	t.enc = t.enc[:n]
	base64.StdEncoding.Encode(t.enc, t.zbuf.Bytes())
	return t.enc, nil
}

func (t *Transmitter) samePixels(img *image.RGBA) bool {
	rowLen := img.Rect.Dx() * 4
	if len(t.prev) != rowLen*img.Rect.Dy() {
		return false
	}
	for y := 0; y < img.Rect.Dy(); y++ {
		off := y * img.Stride
		if !bytes.Equal(t.prev[y*rowLen:(y+1)*rowLen], img.Pix[off:off+rowLen]) {
			return false
		}
	}
	return true
}

func appendPixels(dst []byte, img *image.RGBA) []byte {
	rowLen := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		off := y * img.Stride
		dst = append(dst, img.Pix[off:off+rowLen]...)
	}
	return dst
}
