// Package txt writes page layouts as plain text.
//
// The output follows the layout loosely: columns and paragraphs are separated
// by an empty line, each line of text ends with a newline and words are joined
// by single spaces. Boxes are dropped, so the projection cannot be read back.
package txt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gardar/pdfsed/pkg/layout"
)

// Load always fails: plain text carries no structure to rebuild a layout from
func Load(r io.Reader) (*layout.Page, error) {
	return nil, fmt.Errorf("%w: plain text layout reconstruction is not feasible", errors.ErrUnsupported)
}

// Save writes the text of the page
func Save(page *layout.Page, w io.Writer) error {
	if page == nil {
		return fmt.Errorf("txt: nil page")
	}
	bw := bufio.NewWriter(w)
	for cn, column := range page.Columns {
		if cn > 0 {
			bw.WriteString("\n")
		}
		for pn, para := range column.Paragraphs {
			if pn > 0 {
				bw.WriteString("\n")
			}
			for _, line := range para.Lines {
				bw.WriteString(lineText(line))
				bw.WriteString("\n")
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write plain text: %w", err)
	}
	return nil
}

// Text returns what Save would write. Writing to memory cannot fail, so
// the only error Save can report is a nil page, for which Text returns "".
func Text(page *layout.Page) string {
	if page == nil {
		return ""
	}
	var sb strings.Builder
	_ = Save(page, &sb)
	return sb.String()
}

func lineText(line *layout.Line) string {
	words := make([]string, len(line.Words))
	for i, w := range line.Words {
		words[i] = w.Text
	}
	return strings.Join(words, " ")
}
