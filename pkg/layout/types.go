package layout

import "fmt"

// Kind identifies one of the five node types of a layout tree
type Kind int

const (
	KindPage Kind = iota
	KindColumn
	KindParagraph
	KindLine
	KindWord
)

var kindNames = [...]string{
	KindPage:      "page",
	KindColumn:    "column",
	KindParagraph: "para",
	KindLine:      "line",
	KindWord:      "word",
}

// String returns the djvused atom for the kind
func (k Kind) String() string {
	if k < KindPage || k > KindWord {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Child returns the kind allowed directly below k.
// Words have no children and report false.
func (k Kind) Child() (Kind, bool) {
	if k < KindPage || k >= KindWord {
		return 0, false
	}
	return k + 1, true
}

// ParseKind maps a djvused atom back to its kind
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Node is the common view over pages, columns, paragraphs, lines and words
type Node interface {
	Kind() Kind
	Bounds() BBox
	// Children returns the ordered child nodes, nil for words
	Children() []Node
}

// Page is one page of recognized text and the root of a layout tree
type Page struct {
	Num     int       // Page number (1-based)
	Image   string    // Source image file name
	BBox    BBox      // Page box, normally 0 0 width height
	Columns []*Column // Content areas
}

// Column is a content area (column or region) of a page
type Column struct {
	BBox       BBox
	Paragraphs []*Paragraph
}

// Paragraph groups consecutive lines
type Paragraph struct {
	BBox  BBox
	Lines []*Line
}

// Line is a line of text
type Line struct {
	BBox  BBox
	Words []*Word
}

// Word is a recognized word with its box, the only leaf of the tree
type Word struct {
	BBox BBox
	Text string
}

func (*Page) Kind() Kind      { return KindPage }
func (*Column) Kind() Kind    { return KindColumn }
func (*Paragraph) Kind() Kind { return KindParagraph }
func (*Line) Kind() Kind      { return KindLine }
func (*Word) Kind() Kind      { return KindWord }

func (p *Page) Bounds() BBox      { return p.BBox }
func (c *Column) Bounds() BBox    { return c.BBox }
func (p *Paragraph) Bounds() BBox { return p.BBox }
func (l *Line) Bounds() BBox      { return l.BBox }
func (w *Word) Bounds() BBox      { return w.BBox }

func (p *Page) Children() []Node      { return nodes(p.Columns) }
func (c *Column) Children() []Node    { return nodes(c.Paragraphs) }
func (p *Paragraph) Children() []Node { return nodes(p.Lines) }
func (l *Line) Children() []Node      { return nodes(l.Words) }
func (*Word) Children() []Node        { return nil }

func nodes[T Node](items []T) []Node {
	out := make([]Node, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Walk visits n and its descendants depth-first, parents before children.
// depth is 0 for n itself. Returning false from fn skips the children of
// the visited node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}

// WordCount returns the number of words on the page
func (p *Page) WordCount() int {
	count := 0
	for _, col := range p.Columns {
		for _, para := range col.Paragraphs {
			for _, line := range para.Lines {
				count += len(line.Words)
			}
		}
	}
	return count
}

// Clone returns a deep copy of the page
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	out := *p
	out.Columns = cloneAll(p.Columns, func(c *Column) *Column {
		return &Column{BBox: c.BBox, Paragraphs: cloneAll(c.Paragraphs, func(para *Paragraph) *Paragraph {
			return &Paragraph{BBox: para.BBox, Lines: cloneAll(para.Lines, func(l *Line) *Line {
				return &Line{BBox: l.BBox, Words: cloneAll(l.Words, func(w *Word) *Word {
					word := *w
					return &word
				})}
			})}
		})}
	})
	return &out
}

// cloneAll keeps nil slices nil so clones compare equal with reflect.DeepEqual
func cloneAll[T any](items []*T, clone func(*T) *T) []*T {
	if items == nil {
		return nil
	}
	out := make([]*T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}
