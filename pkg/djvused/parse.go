package djvused

import (
	"io"

	"github.com/gardar/pdfsed/pkg/layout"
)

// parser is a recursive-descent parser over the token stream; each layout
// level has its own production returning a typed node.
type parser struct {
	lex *lexer
}

func newParser(src []byte) *parser {
	return &parser{lex: newLexer(src)}
}

func (p *parser) page() (*layout.Page, error) {
	bbox, err := p.open(layout.KindPage)
	if err != nil {
		return nil, err
	}
	page := &layout.Page{BBox: bbox}
	err = p.children(func() error {
		col, err := p.column()
		if err == nil {
			page.Columns = append(page.Columns, col)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (p *parser) column() (*layout.Column, error) {
	bbox, err := p.open(layout.KindColumn)
	if err != nil {
		return nil, err
	}
	col := &layout.Column{BBox: bbox}
	err = p.children(func() error {
		para, err := p.paragraph()
		if err == nil {
			col.Paragraphs = append(col.Paragraphs, para)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (p *parser) paragraph() (*layout.Paragraph, error) {
	bbox, err := p.open(layout.KindParagraph)
	if err != nil {
		return nil, err
	}
	para := &layout.Paragraph{BBox: bbox}
	err = p.children(func() error {
		line, err := p.line()
		if err == nil {
			para.Lines = append(para.Lines, line)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return para, nil
}

func (p *parser) line() (*layout.Line, error) {
	bbox, err := p.open(layout.KindLine)
	if err != nil {
		return nil, err
	}
	line := &layout.Line{BBox: bbox}
	err = p.children(func() error {
		word, err := p.word()
		if err == nil {
			line.Words = append(line.Words, word)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (p *parser) word() (*layout.Word, error) {
	bbox, err := p.open(layout.KindWord)
	if err != nil {
		return nil, err
	}
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenString {
		return nil, p.lex.errorf(tok.offset, "word content must be a string, got %v", tok.kind)
	}

	c, ok := p.lex.peek()
	if !ok {
		return nil, p.lex.unexpectedEOF("word node")
	}
	if c != ')' {
		return nil, p.lex.errorf(p.lex.pos, "expected ')' after word text, got %q", c)
	}
	p.lex.pos++
	return &layout.Word{BBox: bbox, Text: tok.text}, nil
}

// open consumes "(" <kind> <x1> <y1> <x2> <y2> and checks the node kind.
// Anything before the opening parenthesis is skipped.
func (p *parser) open(want layout.Kind) (layout.BBox, error) {
	for !p.lex.eof() && p.lex.src[p.lex.pos] != '(' {
		p.lex.pos++
	}
	if p.lex.eof() {
		return layout.BBox{}, &SyntaxError{Offset: p.lex.pos, Msg: "missing opening paren of " + want.String() + " node", Err: io.ErrUnexpectedEOF}
	}
	p.lex.pos++

	tok, err := p.lex.next()
	if err != nil {
		return layout.BBox{}, err
	}
	if tok.kind != tokenAtom {
		return layout.BBox{}, p.lex.errorf(tok.offset, "expected node type, got %v", tok.kind)
	}
	kind, ok := layout.ParseKind(tok.text)
	if !ok {
		return layout.BBox{}, p.lex.errorf(tok.offset, "unknown node type %q", tok.text)
	}
	if kind != want {
		return layout.BBox{}, p.lex.errorf(tok.offset, "unexpected %s node, want %s", kind, want)
	}

	var coords [4]int
	for i := range coords {
		tok, err := p.lex.next()
		if err != nil {
			return layout.BBox{}, err
		}
		if tok.kind != tokenInt {
			return layout.BBox{}, p.lex.errorf(tok.offset, "bbox coordinate must be an integer, got %v", tok.kind)
		}
		coords[i] = tok.num
	}
	return layout.NewBBox(coords[0], coords[1], coords[2], coords[3]), nil
}

// children parses child nodes until the closing parenthesis of the parent,
// skipping junk between them
func (p *parser) children(child func() error) error {
	for {
		c, ok := p.lex.peek()
		if !ok {
			return p.lex.unexpectedEOF("node list")
		}
		switch c {
		case ')':
			p.lex.pos++
			return nil
		case '(':
			if err := child(); err != nil {
				return err
			}
		default:
			p.lex.pos++
		}
	}
}
