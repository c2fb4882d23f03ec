// Package djvused reads and writes page layouts as djvused hidden text scripts.
//
// A script is a single S-expression tree:
//
//	(page 0 0 2480 3508
//	  (column 200 300 2280 3200
//	    (para 200 300 2280 400
//	      (line 200 300 2280 400
//	        (word 200 300 480 400
//	          "Hello")))))
//
// Containers hold child nodes of the next level down (page > column > para >
// line > word); words hold one quoted string. Strings use C-like escapes:
// \t, \r, \n, \NNN octal bytes and backslash before any other character.
//
// Save produces byte-exact output: two spaces of indent per level, closing
// parentheses appended to the last line of the last child, and siblings
// separated by a single newline.
//
// The format has no slots for the page number or image file name; Load fills
// them with DefaultPageNum and DefaultPageImage and Save drops them.
package djvused

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gardar/pdfsed/pkg/layout"
)

const (
	DefaultPageNum   = 1          // Page number assigned by Load
	DefaultPageImage = "page.png" // Image file name assigned by Load
)

// ErrMalformedNode is matched by every syntax error reported by Load
var ErrMalformedNode = errors.New("malformed djvused node")

// SyntaxError describes a syntax violation at a byte offset of the script
type SyntaxError struct {
	Offset int    // Byte offset where the problem was detected
	Msg    string // Description of the problem
	Err    error  // Underlying cause, io.ErrUnexpectedEOF for truncated input
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("djvused: offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is makes every SyntaxError match ErrMalformedNode
func (e *SyntaxError) Is(target error) bool { return target == ErrMalformedNode }

// Load reads a page layout from a djvused script.
// The stream is read to the end, its lifecycle stays with the caller.
func Load(r io.Reader) (*layout.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read djvused script: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a page layout from an in-memory djvused script.
// Anything after the page node is ignored.
func Unmarshal(data []byte) (*layout.Page, error) {
	p := newParser(data)
	page, err := p.page()
	if err != nil {
		return nil, err
	}
	page.Num = DefaultPageNum
	page.Image = DefaultPageImage
	return page, nil
}

// Save writes the page layout as a djvused script
func Save(page *layout.Page, w io.Writer) error {
	if page == nil {
		return fmt.Errorf("djvused: nil page")
	}
	if _, err := w.Write(Marshal(page)); err != nil {
		return fmt.Errorf("failed to write djvused script: %w", err)
	}
	return nil
}

// Marshal returns the djvused script for the page
func Marshal(page *layout.Page) []byte {
	var buf bytes.Buffer
	writeNode(&buf, page, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}
