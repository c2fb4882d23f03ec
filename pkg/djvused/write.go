package djvused

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gardar/pdfsed/pkg/layout"
)

// writeNode writes n without a trailing newline so the parent can append
// its closing parenthesis to the last emitted line.
func writeNode(buf *bytes.Buffer, n layout.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	b := n.Bounds()
	fmt.Fprintf(buf, "%s(%s %d %d %d %d\n", indent, n.Kind(), b.X1, b.Y1, b.X2, b.Y2)

	if w, ok := n.(*layout.Word); ok {
		buf.WriteString(indent)
		buf.WriteString("  \"")
		buf.WriteString(Escape(w.Text))
		buf.WriteString("\")")
		return
	}

	children := n.Children()
	for i, c := range children {
		writeNode(buf, c, depth+1)
		if i < len(children)-1 {
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte(')')
}

// Escape encodes text for a djvused string literal (without the quotes).
// The text is handled as UTF-8 bytes: quote, backslash, tab, CR and LF get
// their short escapes, other bytes below 0x20 become three-digit octal
// escapes, everything else is copied unchanged.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
