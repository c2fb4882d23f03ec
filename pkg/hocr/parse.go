package hocr

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/gardar/pdfsed/pkg/layout"
)

// Load parses an hOCR document and returns its first page.
// Warnings report page properties that were ignored.
func Load(r io.Reader) (*layout.Page, []string, error) {
	pages, warnings, err := load(r, true)
	if err != nil {
		return nil, warnings, err
	}
	return pages[0], warnings, nil
}

// LoadPages parses an hOCR document and returns every ocr_page in document order
func LoadPages(r io.Reader) ([]*layout.Page, []string, error) {
	return load(r, false)
}

func load(r io.Reader, firstOnly bool) ([]*layout.Page, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read hOCR: %w", err)
	}

	var warnings []string
	data, warning, err := toUTF8(data)
	if err != nil {
		return nil, nil, err
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, warnings, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var pageNodes []*html.Node
	collectNodes(doc, func(n *html.Node) bool {
		if !hasClass(n, ClassPage) {
			return false
		}
		pageNodes = append(pageNodes, n)
		return true
	})
	if len(pageNodes) == 0 {
		return nil, warnings, fmt.Errorf("%w: no %s element found", ErrInvalidFormat, ClassPage)
	}
	if firstOnly {
		pageNodes = pageNodes[:1]
	}

	pages := make([]*layout.Page, 0, len(pageNodes))
	for _, n := range pageNodes {
		page, pageWarnings, err := processPage(n)
		warnings = append(warnings, pageWarnings...)
		if err != nil {
			return nil, warnings, err
		}
		pages = append(pages, page)
	}
	return pages, warnings, nil
}

// toUTF8 transcodes input that is not valid UTF-8 using the encoding
// declared by the document or guessed from its content
func toUTF8(data []byte) ([]byte, string, error) {
	if utf8.Valid(data) {
		return data, "", nil
	}
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode hOCR as %s: %w", name, err)
	}
	return decoded, fmt.Sprintf("hOCR input is not valid UTF-8, decoded as %s", name), nil
}

// processPage extracts page information and its columns
func processPage(n *html.Node) (*layout.Page, []string, error) {
	title, ok := getAttr(n, "title")
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s element has no title", ErrMissingBBox, ClassPage)
	}
	info, warnings, err := parsePageInfo(title)
	if err != nil {
		return nil, warnings, err
	}
	if !info.hasBBox {
		return nil, warnings, fmt.Errorf("%w in page title %q", ErrMissingBBox, title)
	}

	page := &layout.Page{Num: info.num, Image: info.image, BBox: info.bbox}
	height := info.bbox.Y2

	for _, areaNode := range childElements(n, ClassArea) {
		column, err := processArea(areaNode, height)
		if err != nil {
			return nil, warnings, err
		}
		if column != nil {
			page.Columns = append(page.Columns, column)
		}
	}
	return page, warnings, nil
}

// processArea turns an ocr_carea into a column, nil when it holds no text
func processArea(n *html.Node, height int) (*layout.Column, error) {
	column := &layout.Column{}
	for _, parNode := range childElements(n, ClassParagraph) {
		para, err := processParagraph(parNode, height)
		if err != nil {
			return nil, err
		}
		if para != nil {
			column.Paragraphs = append(column.Paragraphs, para)
		}
	}
	if len(column.Paragraphs) == 0 {
		return nil, nil
	}
	bbox, err := elementBBox(n, height)
	if err != nil {
		return nil, err
	}
	column.BBox = bbox
	return column, nil
}

// processParagraph turns an ocr_par into a paragraph, nil when it holds no text
func processParagraph(n *html.Node, height int) (*layout.Paragraph, error) {
	para := &layout.Paragraph{}
	for _, lineNode := range childElements(n, lineClasses...) {
		line, err := processLine(lineNode, height)
		if err != nil {
			return nil, err
		}
		if line != nil {
			para.Lines = append(para.Lines, line)
		}
	}
	if len(para.Lines) == 0 {
		return nil, nil
	}
	bbox, err := elementBBox(n, height)
	if err != nil {
		return nil, err
	}
	para.BBox = bbox
	return para, nil
}

// processLine turns a line element into a line, nil when it holds no words
func processLine(n *html.Node, height int) (*layout.Line, error) {
	line := &layout.Line{}
	for _, wordNode := range childElements(n, ClassWord) {
		word, err := processWord(wordNode, height)
		if err != nil {
			return nil, err
		}
		if word != nil {
			line.Words = append(line.Words, word)
		}
	}
	if len(line.Words) == 0 {
		return nil, nil
	}
	bbox, err := elementBBox(n, height)
	if err != nil {
		return nil, err
	}
	line.BBox = bbox
	return line, nil
}

// processWord reads a word element, nil when its text is blank
func processWord(n *html.Node, height int) (*layout.Word, error) {
	text := extractTextContent(n)
	if text == "" {
		return nil, nil
	}
	bbox, err := elementBBox(n, height)
	if err != nil {
		return nil, err
	}
	return &layout.Word{BBox: bbox, Text: text}, nil
}

// elementBBox reads the flipped bbox of an element title
func elementBBox(n *html.Node, height int) (layout.BBox, error) {
	title, ok := getAttr(n, "title")
	if !ok {
		return layout.BBox{}, fmt.Errorf("%w: <%s> element has no title", ErrMissingBBox, n.Data)
	}
	return titleBBox(title, height)
}
