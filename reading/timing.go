package reading

import (
	"math"
	"time"
)

// Reading speed bounds in words per minute
const (
	MinWPM     = 50
	MaxWPM     = 1000
	DefaultWPM = 300
	WPMStep    = 50
)

// Timing holds the delay rules applied on top of the base per-word delay
type Timing struct {
	// LongWordThreshold is the grapheme count above which LongWordPenalty applies
	LongWordThreshold int
	LongWordPenalty   float64
	// Multipliers maps a trailing mark to its pause factor; the largest one wins
	Multipliers map[rune]float64
}

// DefaultTiming returns the standard pause table
func DefaultTiming() Timing {
	return Timing{
		LongWordThreshold: 10,
		LongWordPenalty:   1.15,
		Multipliers: map[rune]float64{
			'.':  3.0,
			'?':  3.0,
			'!':  3.0,
			'\n': 4.0,
			',':  1.5,
		},
	}
}

// ClampWPM bounds wpm to [MinWPM, MaxWPM]
func ClampWPM(wpm int) int {
	return min(max(wpm, MinWPM), MaxWPM)
}

// BaseDelayMillis returns round(60000 / wpm) for a clamped wpm
func BaseDelayMillis(wpm int) int {
	return int(math.Round(60000 / float64(ClampWPM(wpm))))
}

// PunctuationMultiplier returns the largest multiplier among marks, 1.0 if none apply
func (t Timing) PunctuationMultiplier(marks []rune) float64 {
	m := 1.0
	for _, r := range marks {
		if v, ok := t.Multipliers[r]; ok && v > m {
			m = v
		}
	}
	return m
}

// LengthPenalty returns the long word factor for tok
func (t Timing) LengthPenalty(tok Token) float64 {
	if t.LongWordPenalty > 0 && tok.Graphemes() > t.LongWordThreshold {
		return t.LongWordPenalty
	}
	return 1.0
}

// Delay returns how long tok stays on screen at wpm
func (t Timing) Delay(tok Token, wpm int) time.Duration {
	base := float64(BaseDelayMillis(wpm))
	ms := math.Round(base * t.PunctuationMultiplier(tok.Marks) * t.LengthPenalty(tok))
	return time.Duration(ms) * time.Millisecond
}
