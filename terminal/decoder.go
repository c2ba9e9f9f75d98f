package terminal

import (
	"bytes"
	"strconv"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey    EventType = iota
	EventResize           // Window size changed (SIGWINCH)
	EventReply            // Terminal answered a query
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int // For EventResize
	Height    int // For EventResize
	Reply     Reply
}

// ReplyKind identifies which query a reply answers
type ReplyKind uint8

const (
	ReplyNone             ReplyKind = iota
	ReplyPixelSize                  // ESC [ 4 ; height ; width t
	ReplyCellSize                   // ESC [ 6 ; height ; width t
	ReplyCellCount                  // ESC [ 8 ; rows ; cols t
	ReplyDeviceAttributes           // ESC [ ? ... c
	ReplyGraphics                   // ESC _ G i=N ; message ESC \
)

// Reply is a decoded terminal report.
// Width/Height carry pixels for ReplyPixelSize and ReplyCellSize, cols/rows for ReplyCellCount.
type Reply struct {
	Kind    ReplyKind
	Width   int
	Height  int
	ImageID int
	OK      bool
	Message string
}

const (
	maxCSILen = 64
	maxAPCLen = 4096
)

// decoder assembles raw stdin bytes into events.
// Partial sequences stay buffered until the next feed.
type decoder struct {
	buf []byte
}

func newDecoder() *decoder {
	return &decoder{buf: make([]byte, 0, 256)}
}

// decode appends data and returns out extended with every complete event
func (d *decoder) decode(data []byte, out []Event) []Event {
	d.buf = append(d.buf, data...)

	consumed := 0
	for consumed < len(d.buf) {
		n, ev, ok := d.parseOne(d.buf[consumed:])
		if n == 0 {
			break // Incomplete, wait for more data
		}
		consumed += n
		if ok {
			out = append(out, ev)
		}
	}

	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
	} else if consumed > 0 {
		copy(d.buf, d.buf[consumed:])
		d.buf = d.buf[:len(d.buf)-consumed]
	}
	return out
}

// pending reports whether an incomplete sequence is buffered
func (d *decoder) pending() bool {
	return len(d.buf) > 0
}

// flushEscape resolves a stale buffer after the escape timeout.
// A lone ESC becomes the Escape key; anything else that never completed is dropped.
func (d *decoder) flushEscape() (Event, bool) {
	if len(d.buf) == 0 {
		return Event{}, false
	}
	lone := len(d.buf) == 1 && d.buf[0] == 0x1b
	d.buf = d.buf[:0]
	if lone {
		return Event{Type: EventKey, Key: KeyEscape}, true
	}
	return Event{}, false
}

// parseOne parses the first event in data.
// Returns bytes consumed (0 when incomplete) and whether an event was produced.
func (d *decoder) parseOne(data []byte) (int, Event, bool) {
	b := data[0]

	switch {
	case b >= 0x20 && b < 0x7f:
		return 1, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}, true

	case b == 0x1b:
		if len(data) < 2 {
			return 0, Event{}, false
		}
		return parseEscape(data)

	case b < 0x20:
		ev := parseControl(b)
		return 1, ev, ev.Key != KeyNone

	case b == 0x7f:
		return 1, Event{Type: EventKey, Key: KeyBackspace}, true
	}

	// UTF-8 multibyte
	seqLen := utf8SeqLen(b)
	if seqLen == 0 {
		return 1, Event{}, false // Invalid start byte, skip
	}
	if len(data) < seqLen {
		return 0, Event{}, false
	}
	r, size := decodeRune(data)
	return size, Event{Type: EventKey, Key: KeyRune, Rune: r}, true
}

// parseEscape handles everything introduced by ESC
func parseEscape(data []byte) (int, Event, bool) {
	switch data[1] {
	case '[':
		return parseCSI(data)
	case '_':
		return parseAPC(data)
	case 'O':
		if len(data) < 3 {
			return 0, Event{}, false
		}
		if key, mod, ok := lookupSS3(data[2:3]); ok {
			return 3, Event{Type: EventKey, Key: key, Modifiers: mod}, true
		}
		return 3, Event{}, false
	case 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
	}

	if data[1] < 0x20 {
		ev := parseControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev, ev.Key != KeyNone
	}
	if data[1] < 0x7f {
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}, true
	}
	// ESC followed by a UTF-8 lead byte: report the ESC, the rune follows on the next parse
	return 1, Event{Type: EventKey, Key: KeyEscape}, true
}

// parseCSI parses keys and the ESC [ ... t / ESC [ ? ... c reports
func parseCSI(data []byte) (int, Event, bool) {
	end := 2
	limit := min(len(data), maxCSILen)
	for end < limit {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a parameter/intermediate byte: malformed, drop the introducer
			return 2, Event{}, false
		}
		end++
	}
	if end >= limit {
		if len(data) >= maxCSILen {
			return 2, Event{}, false
		}
		return 0, Event{}, false
	}

	final := data[end]
	params := data[2:end]
	n := end + 1

	switch final {
	case 't':
		if reply, ok := parseWindowReport(params); ok {
			return n, Event{Type: EventReply, Reply: reply}, true
		}
		return n, Event{}, false
	case 'c':
		if len(params) > 0 && params[0] == '?' {
			return n, Event{Type: EventReply, Reply: Reply{Kind: ReplyDeviceAttributes, OK: true}}, true
		}
	}

	if key, mod, ok := lookupCSI(data[2:n]); ok {
		return n, Event{Type: EventKey, Key: key, Modifiers: mod}, true
	}
	// Unknown but well-formed: consume so it never leaks as text
	return n, Event{}, false
}

// parseWindowReport decodes "4;h;w", "6;h;w" and "8;rows;cols"
func parseWindowReport(params []byte) (Reply, bool) {
	fields := bytes.Split(params, []byte{';'})
	if len(fields) != 3 {
		return Reply{}, false
	}
	vals := [3]int{}
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil || v < 0 {
			return Reply{}, false
		}
		vals[i] = v
	}

	switch vals[0] {
	case 4:
		return Reply{Kind: ReplyPixelSize, Height: vals[1], Width: vals[2], OK: true}, true
	case 6:
		return Reply{Kind: ReplyCellSize, Height: vals[1], Width: vals[2], OK: true}, true
	case 8:
		return Reply{Kind: ReplyCellCount, Height: vals[1], Width: vals[2], OK: true}, true
	}
	return Reply{}, false
}

// parseAPC decodes ESC _ ... ESC \ ; only graphics ("G") replies produce events
func parseAPC(data []byte) (int, Event, bool) {
	idx := bytes.Index(data[2:], apcEnd)
	if idx < 0 {
		if len(data) > maxAPCLen {
			return 2, Event{}, false
		}
		return 0, Event{}, false
	}
	body := data[2 : 2+idx]
	n := 2 + idx + len(apcEnd)

	if len(body) == 0 || body[0] != 'G' {
		return n, Event{}, false
	}
	return n, Event{Type: EventReply, Reply: parseGraphicsReply(body[1:])}, true
}

// parseGraphicsReply decodes "i=31;OK" or "i=31;ENOENT:message"
func parseGraphicsReply(body []byte) Reply {
	reply := Reply{Kind: ReplyGraphics}

	control, message, _ := bytes.Cut(body, []byte{';'})
	for _, kv := range bytes.Split(control, []byte{','}) {
		k, v, ok := bytes.Cut(kv, []byte{'='})
		if !ok || string(k) != "i" {
			continue
		}
		if id, err := strconv.Atoi(string(v)); err == nil {
			reply.ImageID = id
		}
	}

	reply.Message = string(message)
	reply.OK = reply.Message == "OK"
	return reply
}

// parseControl maps control characters to keys
func parseControl(b byte) Event {
	switch b {
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var lo rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size, lo, r = 2, 0x80, rune(b&0x1f)
	case b&0xf0 == 0xe0:
		size, lo, r = 3, 0x800, rune(b&0x0f)
	case b&0xf8 == 0xf0:
		size, lo, r = 4, 0x10000, rune(b&0x07)
	default:
		return 0xFFFD, 1
	}

	if len(data) < size {
		return 0xFFFD, 1
	}
	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}
	if r < lo {
		return 0xFFFD, 1 // Overlong encoding
	}
	return r, size
}
