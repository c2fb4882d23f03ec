package hocr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gardar/pdfsed/pkg/layout"
)

// capabilities lists the element classes Save emits
var capabilities = strings.Join([]string{ClassPage, ClassArea, ClassParagraph, ClassLine, ClassWord}, " ")

// Save writes the page as an indented hOCR document.
// Element boxes are flipped against the page height.
func Save(page *layout.Page, w io.Writer) error {
	if page == nil {
		return fmt.Errorf("hocr: nil page")
	}
	bw := bufio.NewWriter(w)
	if err := html.Render(bw, GenerateDocument(page)); err != nil {
		return fmt.Errorf("error rendering hOCR document: %w", err)
	}
	bw.WriteString("\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write hOCR: %w", err)
	}
	return nil
}

// GenerateDocument builds the hOCR node tree of a page, doctype included
func GenerateDocument(page *layout.Page) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(text("\n"))

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	appendIndented(root, head, 1)
	appendIndented(head, element(atom.Title), 2)
	appendIndented(head, element(atom.Meta,
		"http-equiv", "Content-Type",
		"content", "text/html; charset=utf-8"), 2)
	appendIndented(head, element(atom.Meta,
		"name", "ocr-capabilities",
		"content", capabilities), 2)
	closeIndented(head, 1)

	body := element(atom.Body)
	appendIndented(root, body, 1)
	appendIndented(body, pageElement(page), 2)
	closeIndented(body, 1)
	closeIndented(root, 0)

	return doc
}

func pageElement(page *layout.Page) *html.Node {
	height := page.BBox.Y2
	pageNode := element(atom.Div, "class", ClassPage, "title", pageTitle(page))

	for _, column := range page.Columns {
		area := element(atom.Div, "class", ClassArea, "title", FormatBBox(column.BBox, height))
		appendIndented(pageNode, area, 3)

		for _, para := range column.Paragraphs {
			par := element(atom.P, "class", ClassParagraph, "title", FormatBBox(para.BBox, height))
			appendIndented(area, par, 4)

			for _, line := range para.Lines {
				lineNode := element(atom.Span, "class", ClassLine, "title", FormatBBox(line.BBox, height))
				appendIndented(par, lineNode, 5)

				for i, word := range line.Words {
					if i > 0 {
						lineNode.AppendChild(text(" "))
					}
					wordNode := element(atom.Span, "class", ClassWord, "title", FormatBBox(word.BBox, height))
					wordNode.AppendChild(text(word.Text))
					lineNode.AppendChild(wordNode)
				}
			}
			closeIndented(par, 4)
		}
		closeIndented(area, 3)
	}
	closeIndented(pageNode, 2)
	return pageNode
}

// element creates an element node from key/value attribute pairs
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendIndented puts child on its own line, indented two spaces per depth
func appendIndented(parent, child *html.Node, depth int) {
	parent.AppendChild(text("\n" + strings.Repeat("  ", depth)))
	parent.AppendChild(child)
}

// closeIndented moves the closing tag of a non-empty parent to its own line
func closeIndented(parent *html.Node, depth int) {
	if parent.FirstChild == nil {
		return
	}
	parent.AppendChild(text("\n" + strings.Repeat("  ", depth)))
}
