package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments
var (
	// CSI sequences
	csi      = []byte("\x1b[")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0  = []byte("\x1b[0m")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")
	csiCursorPos  = []byte("\x1b[") // followed by row;colH

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM ?7l keeps the cursor at the right edge so the bottom-right cell never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Color prefixes
	csiFg256 = []byte("\x1b[38;5;") // followed by N;m
	csiBg256 = []byte("\x1b[48;5;") // followed by N;m
	csiFgRGB = []byte("\x1b[38;2;") // followed by R;G;B;m
	csiBgRGB = []byte("\x1b[48;2;") // followed by R;G;B;m
)

// Terminal queries. Replies arrive on stdin and are decoded as EventReply.
var (
	// QueryPixelSize asks for the text area size in pixels: ESC [ 4 ; h ; w t
	QueryPixelSize = []byte("\x1b[14t")
	// QueryCellCount asks for the text area size in cells: ESC [ 8 ; rows ; cols t
	QueryCellCount = []byte("\x1b[18t")
	// QueryDeviceAttributes (DA1) is answered by every terminal and fences earlier queries
	QueryDeviceAttributes = []byte("\x1b[c")
	// QueryKittyGraphics transmits a 1x1 RGB pixel with a=q, answered with OK or an error
	QueryKittyGraphics = []byte("\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\")
)

// APC framing for the kitty graphics protocol
var (
	apcGraphicsStart = []byte("\x1b_G")
	apcEnd           = []byte("\x1b\\")
)

// KittyProbeID is the image id used by QueryKittyGraphics
const KittyProbeID = 31

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csiCursorPos)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward writes cursor forward N positions
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	writeInt(w, n)
	w.WriteByte('C')
}

// AppendCursorPos appends a 0-indexed cursor move to dst
func AppendCursorPos(dst []byte, x, y int) []byte {
	dst = append(dst, csiCursorPos...)
	dst = appendInt(dst, y+1)
	dst = append(dst, ';')
	dst = appendInt(dst, x+1)
	return append(dst, 'H')
}

// AppendGraphicsCommand frames control keys and an optional payload as a kitty graphics APC
func AppendGraphicsCommand(dst []byte, control string, payload []byte) []byte {
	dst = append(dst, apcGraphicsStart...)
	dst = append(dst, control...)
	if len(payload) > 0 {
		dst = append(dst, ';')
		dst = append(dst, payload...)
	}
	return append(dst, apcEnd...)
}

func appendInt(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}
