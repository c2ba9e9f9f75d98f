// Package command parses the command line typed in command mode.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/henrythdu/Speedy/reading"
)

// Kind identifies a parsed command
type Kind uint8

const (
	KindNone          Kind = iota // empty input
	KindLoadFile                  // @path
	KindLoadClipboard             // @@ or a bare @
	KindQuit                      // :q, :quit
	KindHelp                      // :h, :help, :?
	KindSetWPM                    // :wpm N
	KindUnknown
)

// Command is the result of parsing one line
type Command struct {
	Kind Kind
	Path string // KindLoadFile
	WPM  int    // KindSetWPM, clamped
	Err  string // KindUnknown: message for the status line
}

// Parse interprets input. It never fails; bad input yields KindUnknown with a message.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{Kind: KindNone}
	}

	if rest, ok := strings.CutPrefix(input, "@"); ok {
		path := strings.TrimSpace(rest)
		if path == "" || path == "@" {
			return Command{Kind: KindLoadClipboard}
		}
		return Command{Kind: KindLoadFile, Path: expandHome(path)}
	}

	rest, ok := strings.CutPrefix(input, ":")
	if !ok {
		return unknown("Unknown command: %s (try :help)", input)
	}

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return unknown("Empty command")
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "q", "quit":
		return Command{Kind: KindQuit}
	case "h", "help", "?":
		return Command{Kind: KindHelp}
	case "wpm":
		return parseWPM(args)
	default:
		return unknown("Unknown command: %s", cmd)
	}
}

func parseWPM(args []string) Command {
	if len(args) != 1 {
		return unknown("Usage: :wpm <%d-%d>", reading.MinWPM, reading.MaxWPM)
	}
	value, err := strconv.Atoi(args[0])
	if err != nil {
		return unknown("Invalid number format")
	}
	return Command{Kind: KindSetWPM, WPM: reading.ClampWPM(value)}
}

func unknown(format string, a ...any) Command {
	return Command{Kind: KindUnknown, Err: fmt.Sprintf(format, a...)}
}
