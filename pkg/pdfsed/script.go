package pdfsed

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenAtom tokenKind = iota
	tokenString
)

type token struct {
	kind tokenKind
	text string
	line int
}

// Command is one semicolon-terminated script statement
type Command struct {
	Name string
	Line int
	args []token
}

// SyntaxError describes a malformed script
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pdfsed script line %d: %s", e.Line, e.Msg)
}

// Parse reads a whole script and splits it into commands.
// Empty commands (";;") are dropped.
func Parse(r io.Reader) ([]Command, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdfsed script: %w", err)
	}
	lx := &lexer{src: string(data), line: 1}

	var commands []Command
	var current []token
	flush := func() {
		if len(current) > 0 {
			commands = append(commands, Command{Name: current[0].text, Line: current[0].line, args: current[1:]})
		}
		current = nil
	}
	for {
		tok, end, err := lx.next()
		if err != nil {
			return nil, err
		}
		if end {
			flush()
			if lx.eof() {
				return commands, nil
			}
			continue
		}
		if len(current) == 0 && tok.kind != tokenAtom {
			return nil, &SyntaxError{Line: tok.line, Msg: fmt.Sprintf("command expected, got string %q", tok.text)}
		}
		current = append(current, tok)
	}
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (lx *lexer) skipSpace() {
	for !lx.eof() && isSpace(lx.src[lx.pos]) {
		if lx.src[lx.pos] == '\n' {
			lx.line++
		}
		lx.pos++
	}
}

// next returns the next token; end reports a ';' or the end of input
func (lx *lexer) next() (tok token, end bool, err error) {
	lx.skipSpace()
	if lx.eof() {
		return token{}, true, nil
	}
	switch c := lx.src[lx.pos]; c {
	case ';':
		lx.pos++
		return token{}, true, nil
	case '"':
		return lx.readString()
	default:
		start := lx.pos
		for !lx.eof() && !isSpace(lx.src[lx.pos]) && lx.src[lx.pos] != ';' {
			lx.pos++
		}
		return token{kind: tokenAtom, text: lx.src[start:lx.pos], line: lx.line}, false, nil
	}
}

// readString reads a quoted string; \t \r \n are escapes, any other
// escaped character stands for itself
func (lx *lexer) readString() (token, bool, error) {
	line := lx.line
	lx.pos++ // opening quote
	var sb strings.Builder
	for {
		if lx.eof() {
			return token{}, false, &SyntaxError{Line: line, Msg: "unterminated string"}
		}
		c := lx.src[lx.pos]
		lx.pos++
		switch c {
		case '"':
			return token{kind: tokenString, text: sb.String(), line: line}, false, nil
		case '\n':
			lx.line++
		case '\\':
			if lx.eof() {
				return token{}, false, &SyntaxError{Line: line, Msg: "unterminated string"}
			}
			c = lx.src[lx.pos]
			lx.pos++
			switch c {
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			case 'n':
				c = '\n'
			case '\n':
				lx.line++
			}
		}
		sb.WriteByte(c)
	}
}

// Quote returns s as a script string literal
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// argReader hands out the arguments of a command with type checks
type argReader struct {
	cmd Command
	pos int
}

func (c Command) reader() *argReader {
	return &argReader{cmd: c}
}

func (a *argReader) done() bool { return a.pos >= len(a.cmd.args) }

func (a *argReader) errorf(format string, args ...any) error {
	return &SyntaxError{Line: a.cmd.Line, Msg: fmt.Sprintf("%s: ", a.cmd.Name) + fmt.Sprintf(format, args...)}
}

func (a *argReader) take(what string) (token, error) {
	if a.done() {
		return token{}, a.errorf("%s expected", what)
	}
	tok := a.cmd.args[a.pos]
	a.pos++
	return tok, nil
}

func (a *argReader) atom() (string, error) {
	tok, err := a.take("keyword")
	if err != nil {
		return "", err
	}
	if tok.kind != tokenAtom {
		return "", a.errorf("keyword expected, got string %q", tok.text)
	}
	return tok.text, nil
}

func (a *argReader) str() (string, error) {
	tok, err := a.take("string")
	if err != nil {
		return "", err
	}
	if tok.kind != tokenString {
		return "", a.errorf("quoted string expected, got %q", tok.text)
	}
	return tok.text, nil
}

func (a *argReader) float() (float64, error) {
	tok, err := a.take("number")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok.text, 64)
	if tok.kind != tokenAtom || err != nil {
		return 0, a.errorf("number expected, got %q", tok.text)
	}
	return v, nil
}

func (a *argReader) integer() (int, error) {
	tok, err := a.take("integer")
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok.text)
	if tok.kind != tokenAtom || err != nil {
		return 0, a.errorf("integer expected, got %q", tok.text)
	}
	return v, nil
}

// color reads a 0xRRGGBB colour
func (a *argReader) color() (rgb, error) {
	tok, err := a.take("colour")
	if err != nil {
		return rgb{}, err
	}
	hex, ok := strings.CutPrefix(strings.ToLower(tok.text), "0x")
	v, err := strconv.ParseUint(hex, 16, 32)
	if tok.kind != tokenAtom || !ok || err != nil || v > 0xffffff {
		return rgb{}, a.errorf("colour 0xRRGGBB expected, got %q", tok.text)
	}
	return rgb{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

type rgb struct {
	R, G, B uint8
}

func (c rgb) String() string {
	return fmt.Sprintf("0x%02x%02x%02x", c.R, c.G, c.B)
}
