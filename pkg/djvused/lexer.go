package djvused

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenAtom tokenKind = iota
	tokenInt
	tokenString
)

func (k tokenKind) String() string {
	switch k {
	case tokenAtom:
		return "atom"
	case tokenInt:
		return "integer"
	case tokenString:
		return "string"
	}
	return "unknown"
}

type token struct {
	kind   tokenKind
	offset int
	text   string // atom name or decoded string
	num    int
}

// lexer reads djvused tokens from an in-memory script.
// pos is the offset of the next unread byte.
type lexer struct {
	src []byte
	pos int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

// skipSpace advances past whitespace and reports whether input remains
func (l *lexer) skipSpace() bool {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	return l.pos < len(l.src)
}

// peek returns the next non-whitespace byte without consuming it
func (l *lexer) peek() (byte, bool) {
	if !l.skipSpace() {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *lexer) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) unexpectedEOF(what string) error {
	return &SyntaxError{Offset: l.pos, Msg: "unexpected end of input in " + what, Err: io.ErrUnexpectedEOF}
}

// next reads one token: an integer, a quoted string or a bare atom
func (l *lexer) next() (token, error) {
	if !l.skipSpace() {
		return token{}, l.unexpectedEOF("token")
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		n, err := strconv.Atoi(string(l.src[start:l.pos]))
		if err != nil {
			return token{}, l.errorf(start, "bad integer %q: %v", l.src[start:l.pos], err)
		}
		return token{kind: tokenInt, offset: start, num: n}, nil

	case c == '"':
		s, err := l.readString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokenString, offset: start, text: s}, nil

	case c == '(' || c == ')':
		return token{}, l.errorf(start, "unexpected %q", c)
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || c == '(' || c == ')' {
			break
		}
		l.pos++
	}
	return token{kind: tokenAtom, offset: start, text: string(l.src[start:l.pos])}, nil
}

// readString consumes a quoted string starting at the opening quote.
// Escapes are \t, \r, \n, \NNN (three octal digits) and \c for any other
// byte c. The collected bytes must form valid UTF-8.
func (l *lexer) readString() (string, error) {
	start := l.pos
	l.pos++ // opening quote

	var buf []byte
	for {
		if l.eof() {
			return "", l.unexpectedEOF("string")
		}
		c := l.src[l.pos]
		l.pos++

		switch c {
		case '"':
			if !utf8.Valid(buf) {
				return "", l.errorf(start, "string is not valid UTF-8")
			}
			return string(buf), nil

		case '\\':
			if l.eof() {
				return "", l.unexpectedEOF("string escape")
			}
			e := l.src[l.pos]
			switch {
			case e == 't':
				buf = append(buf, '\t')
				l.pos++
			case e == 'r':
				buf = append(buf, '\r')
				l.pos++
			case e == 'n':
				buf = append(buf, '\n')
				l.pos++
			case isDigit(e):
				b, err := l.readOctal()
				if err != nil {
					return "", err
				}
				buf = append(buf, b)
			default:
				buf = append(buf, e)
				l.pos++
			}

		default:
			buf = append(buf, c)
		}
	}
}

// readOctal decodes exactly three octal digits into one byte
func (l *lexer) readOctal() (byte, error) {
	start := l.pos - 1 // the backslash
	if len(l.src)-l.pos < 3 {
		return 0, l.unexpectedEOF("octal escape")
	}
	digits := l.src[l.pos : l.pos+3]
	for _, d := range digits {
		if !isOctal(d) {
			return 0, l.errorf(start, "bad octal escape \\%s", digits)
		}
	}
	v := int(digits[0]-'0')<<6 | int(digits[1]-'0')<<3 | int(digits[2]-'0')
	if v > 0xff {
		return 0, l.errorf(start, "octal escape \\%s out of byte range", digits)
	}
	l.pos += 3
	return byte(v), nil
}
