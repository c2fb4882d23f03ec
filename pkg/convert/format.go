package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a layout representation
type Format int

const (
	FormatUnknown Format = iota
	FormatHOCR
	FormatDjvused
	FormatText
	FormatDocAI
)

// ErrUnknownFormat is returned for format names or files that match no codec
var ErrUnknownFormat = errors.New("unknown format")

var formatNames = map[Format]string{
	FormatHOCR:    "hocr",
	FormatDjvused: "djvused",
	FormatText:    "txt",
	FormatDocAI:   "docai",
}

var formatAliases = map[string]Format{
	"hocr":    FormatHOCR,
	"html":    FormatHOCR,
	"h":       FormatHOCR,
	"djvused": FormatDjvused,
	"djvu":    FormatDjvused,
	"d":       FormatDjvused,
	"txt":     FormatText,
	"text":    FormatText,
	"t":       FormatText,
	"docai":   FormatDocAI,
	"gdocai":  FormatDocAI,
	"json":    FormatDocAI,
}

var formatExtensions = map[string]Format{
	".hocr":    FormatHOCR,
	".html":    FormatHOCR,
	".htm":     FormatHOCR,
	".xhtml":   FormatHOCR,
	".djvused": FormatDjvused,
	".djvu":    FormatDjvused,
	".dsed":    FormatDjvused,
	".sed":     FormatDjvused,
	".txt":     FormatText,
	".json":    FormatDocAI,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// CanLoad reports whether the format can be read into a layout page
func (f Format) CanLoad() bool {
	return f == FormatHOCR || f == FormatDjvused || f == FormatDocAI
}

// CanSave reports whether a layout page can be written in the format
func (f Format) CanSave() bool {
	return f == FormatHOCR || f == FormatDjvused || f == FormatText
}

// ParseFormat resolves a format name or alias, case-insensitively
func ParseFormat(name string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromFilename guesses the format from a file extension
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := formatExtensions[ext]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: cannot guess the format of %q", ErrUnknownFormat, name)
}
