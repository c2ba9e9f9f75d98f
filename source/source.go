// Package source loads raw document text from files and the system clipboard.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrEmptyDocument        = errors.New("document is empty")
	ErrBinary               = errors.New("not a UTF-8 text file")
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrTooLarge             = errors.New("file too large")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// MaxFileSize caps documents read from disk
const MaxFileSize = 64 << 20

// sniffLen is how much of a file is scanned for NUL bytes
const sniffLen = 8192

// Formats that need an extractor this reader does not ship
var unsupportedExt = map[string]string{
	".pdf":  "PDF",
	".epub": "EPUB",
	".docx": "DOCX",
	".mobi": "MOBI",
}

// Document is loaded text plus a label for the status line
type Document struct {
	Text  string
	Label string
}

// Loader supplies documents to the reader
type Loader interface {
	LoadFile(path string) (Document, error)
	LoadClipboard() (Document, error)
}

// Sources is the default Loader over the filesystem and system clipboard
type Sources struct {
	ReadFile      func(string) ([]byte, error)
	ReadClipboard func() (string, error)
}

// New returns a Loader backed by os.ReadFile and the system clipboard
func New() *Sources {
	return &Sources{
		ReadFile:      os.ReadFile,
		ReadClipboard: readClipboard,
	}
}

func readClipboard() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	return clipboard.ReadAll()
}

// LoadFile reads path as text. UTF-16 with a byte order mark is transcoded;
// anything else must be valid UTF-8.
func (s *Sources) LoadFile(path string) (Document, error) {
	if kind, ok := unsupportedExt[strings.ToLower(filepath.Ext(path))]; ok {
		return Document{}, fmt.Errorf("%s: %w: %s", path, ErrUnsupportedFormat, kind)
	}

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return Document{}, fmt.Errorf("%s: is a directory", path)
		}
		if info.Size() > MaxFileSize {
			return Document{}, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, info.Size())
		}
	}

	data, err := s.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return Document{Text: text, Label: filepath.Base(path)}, nil
}

// LoadClipboard reads the clipboard's text content
func (s *Sources) LoadClipboard() (Document, error) {
	text, err := s.ReadClipboard()
	if err != nil {
		return Document{}, fmt.Errorf("clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("clipboard: %w", ErrEmptyDocument)
	}
	return Document{Text: text, Label: "clipboard"}, nil
}

// Decode converts raw bytes into document text, honouring a UTF-8 or UTF-16 BOM
func Decode(data []byte) (string, error) {
	if !hasUTF16BOM(data) && !utf8.Valid(data) {
		return "", ErrBinary
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", ErrBinary
	}
	if bytes.IndexByte(out[:min(len(out), sniffLen)], 0) >= 0 {
		return "", ErrBinary
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", ErrEmptyDocument
	}
	return string(out), nil
}

func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 &&
		((data[0] == 0xFE && data[1] == 0xFF) || (data[0] == 0xFF && data[1] == 0xFE))
}
