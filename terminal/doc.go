// Package terminal provides direct ANSI terminal control for a single-threaded reader loop.
//
// Features:
//   - Raw mode and alternate screen with clean restoration on exit/panic
//   - Bounded input wait (poll with timeout) instead of a reader goroutine
//   - Key decoding plus terminal replies (CSI 14t/18t geometry, DA1, kitty graphics APC)
//   - SIGWINCH resize notification surfaced through the same wait
//   - Double-buffered cell output with diffing for the character-grid chrome
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
