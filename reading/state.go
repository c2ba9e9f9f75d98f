package reading

import (
	"errors"
	"time"
)

// ErrEmptyDocument is returned when a document yields no tokens
var ErrEmptyDocument = errors.New("document contains no words")

// State tracks playback position and speed over one loaded document.
// A State always holds at least one token and its index is always valid.
type State struct {
	tokens []Token
	index  int
	wpm    int
	timing Timing
}

// NewState creates a State at the first token, wpm is clamped to the valid range
func NewState(tokens []Token, wpm int, timing Timing) (*State, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyDocument
	}
	return &State{
		tokens: tokens,
		wpm:    ClampWPM(wpm),
		timing: timing,
	}, nil
}

// Current returns the token at the playback position
func (s *State) Current() Token {
	return s.tokens[s.index]
}

// Index returns the playback position
func (s *State) Index() int {
	return s.index
}

// Len returns the number of tokens
func (s *State) Len() int {
	return len(s.tokens)
}

// WPM returns the current speed
func (s *State) WPM() int {
	return s.wpm
}

// AtEnd reports whether the last token is showing
func (s *State) AtEnd() bool {
	return s.index == len(s.tokens)-1
}

// Progress returns the fraction of the document shown so far, in (0, 1]
func (s *State) Progress() float64 {
	return float64(s.index+1) / float64(len(s.tokens))
}

// Advance moves to the next token, returns false at the end
func (s *State) Advance() bool {
	if s.index+1 >= len(s.tokens) {
		return false
	}
	s.index++
	return true
}

// Seek moves to i clamped to the valid range
func (s *State) Seek(i int) {
	s.index = min(max(i, 0), len(s.tokens)-1)
}

// JumpToNextSentence moves to the next sentence start after the current token,
// or to the last token when none follows. Returns whether the index changed.
func (s *State) JumpToNextSentence() bool {
	prev := s.index
	s.index = len(s.tokens) - 1
	for i := prev + 1; i < len(s.tokens); i++ {
		if s.tokens[i].SentenceStart {
			s.index = i
			break
		}
	}
	return s.index != prev
}

// JumpToPreviousSentence moves to the nearest sentence start before the current token,
// or to the first token when none precedes. Returns whether the index changed.
func (s *State) JumpToPreviousSentence() bool {
	prev := s.index
	s.index = 0
	for i := prev - 1; i >= 0; i-- {
		if s.tokens[i].SentenceStart {
			s.index = i
			break
		}
	}
	return s.index != prev
}

// AdjustWPM changes speed by delta, clamped, and returns the new speed
func (s *State) AdjustWPM(delta int) int {
	s.wpm = ClampWPM(s.wpm + delta)
	return s.wpm
}

// SetWPM sets the speed, clamped, and returns the new speed
func (s *State) SetWPM(wpm int) int {
	s.wpm = ClampWPM(wpm)
	return s.wpm
}

// CurrentDelay returns how long the current token stays on screen
func (s *State) CurrentDelay() time.Duration {
	return s.timing.Delay(s.Current(), s.wpm)
}

// Context returns up to before tokens preceding and after tokens following the current one,
// nearest first in both slices
func (s *State) Context(before, after int) (prev, next []Token) {
	for i := 1; i <= before && s.index-i >= 0; i++ {
		prev = append(prev, s.tokens[s.index-i])
	}
	for i := 1; i <= after && s.index+i < len(s.tokens); i++ {
		next = append(next, s.tokens[s.index+i])
	}
	return prev, next
}
