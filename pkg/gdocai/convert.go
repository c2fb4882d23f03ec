package gdocai

import (
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/pdfsed/pkg/layout"
)

// PagesFromProto converts every page of a Document AI response into a
// layout page. Blocks become columns; paragraphs, lines and tokens are
// assigned to their parents by text anchor containment. Boxes are scaled to
// the page dimension and flipped into layout coordinates.
func PagesFromProto(doc *documentaipb.Document) []*layout.Page {
	if doc == nil {
		return nil
	}
	pages := make([]*layout.Page, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		num := int(page.PageNumber)
		if num == 0 {
			num = i + 1
		}
		pages = append(pages, PageFromProto(page, doc.Text, num))
	}
	return pages
}

// PageFromProto converts a single Document AI page. fullText is the text of
// the whole document that the page's text anchors point into.
func PageFromProto(page *documentaipb.Document_Page, fullText string, pageNumber int) *layout.Page {
	width, height := pageSize(page.Dimension)
	result := &layout.Page{
		Num:   pageNumber,
		Image: fmt.Sprintf("page_%d.png", pageNumber),
		BBox:  layout.NewBBox(0, 0, width, height),
	}
	cv := converter{page: page, fullText: fullText, height: height}

	// Track which paragraphs and lines are assigned to avoid duplication
	assignedParagraphs := make(map[*documentaipb.Document_Page_Paragraph]bool)
	assignedLines := make(map[*documentaipb.Document_Page_Line]bool)

	for _, block := range page.Blocks {
		column := &layout.Column{BBox: cv.bbox(block.Layout)}
		for _, para := range page.Paragraphs {
			if !isElementInParent(para.Layout, block.Layout) {
				continue
			}
			assignedParagraphs[para] = true
			if p := cv.paragraph(para, assignedLines); p != nil {
				column.Paragraphs = append(column.Paragraphs, p)
			}
		}
		if len(column.Paragraphs) > 0 {
			result.Columns = append(result.Columns, column)
		}
	}

	// Paragraphs outside any block and lines outside any paragraph are
	// gathered in a trailing column
	var orphans []*layout.Paragraph
	for _, para := range page.Paragraphs {
		if assignedParagraphs[para] {
			continue
		}
		if p := cv.paragraph(para, assignedLines); p != nil {
			orphans = append(orphans, p)
		}
	}
	var looseLines []*layout.Line
	for _, line := range page.Lines {
		if assignedLines[line] {
			continue
		}
		if l := cv.line(line); l != nil {
			looseLines = append(looseLines, l)
		}
	}
	if len(looseLines) > 0 {
		orphans = append(orphans, &layout.Paragraph{BBox: unionOf(looseLines), Lines: looseLines})
	}
	if len(orphans) > 0 {
		result.Columns = append(result.Columns, &layout.Column{BBox: unionOf(orphans), Paragraphs: orphans})
	}

	return result
}

// converter carries the per-page state shared by the element conversions
type converter struct {
	page     *documentaipb.Document_Page
	fullText string
	height   int
}

// paragraph converts a paragraph and the lines it contains, nil when empty
func (cv converter) paragraph(para *documentaipb.Document_Page_Paragraph,
	assigned map[*documentaipb.Document_Page_Line]bool) *layout.Paragraph {

	result := &layout.Paragraph{BBox: cv.bbox(para.Layout)}
	for _, line := range cv.page.Lines {
		if !isElementInParent(line.Layout, para.Layout) {
			continue
		}
		assigned[line] = true
		if l := cv.line(line); l != nil {
			result.Lines = append(result.Lines, l)
		}
	}
	if len(result.Lines) == 0 {
		return nil
	}
	return result
}

// line converts a line and the tokens it contains, nil when no token has text
func (cv converter) line(line *documentaipb.Document_Page_Line) *layout.Line {
	result := &layout.Line{BBox: cv.bbox(line.Layout)}
	for _, token := range cv.page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}
		text := tokenText(token, cv.fullText)
		if text == "" {
			continue
		}
		result.Words = append(result.Words, &layout.Word{BBox: cv.bbox(token.Layout), Text: text})
	}
	if len(result.Words) == 0 {
		return nil
	}
	return result
}

// bbox converts a layout bounding polygon into a flipped layout box.
// Normalized vertices are preferred; absolute vertices are the fallback.
func (cv converter) bbox(l *documentaipb.Document_Page_Layout) layout.BBox {
	if l == nil || l.BoundingPoly == nil {
		return layout.BBox{}
	}
	poly := l.BoundingPoly
	var xs, ys []float64
	if len(poly.NormalizedVertices) > 0 && cv.page.Dimension != nil {
		for _, v := range poly.NormalizedVertices {
			xs = append(xs, float64(v.X)*float64(cv.page.Dimension.Width))
			ys = append(ys, float64(v.Y)*float64(cv.page.Dimension.Height))
		}
	} else {
		for _, v := range poly.Vertices {
			xs = append(xs, float64(v.X))
			ys = append(ys, float64(v.Y))
		}
	}
	if len(xs) == 0 {
		return layout.BBox{}
	}
	box := layout.NewBBox(
		int(math.Round(minOf(xs))), int(math.Round(minOf(ys))),
		int(math.Round(maxOf(xs))), int(math.Round(maxOf(ys))),
	)
	return box.FlipY(cv.height)
}

// tokenText returns the cleaned text of a token
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	text := textFromLayout(token.Layout, fullText)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

func pageSize(dim *documentaipb.Document_Page_Dimension) (int, int) {
	if dim == nil {
		return 0, 0
	}
	return int(math.Round(float64(dim.Width))), int(math.Round(float64(dim.Height)))
}

// isElementInParent checks if an element's text range lies within its parent's
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	if elementLayout == nil || parentLayout == nil ||
		elementLayout.TextAnchor == nil || parentLayout.TextAnchor == nil ||
		len(elementLayout.TextAnchor.TextSegments) == 0 || len(parentLayout.TextAnchor.TextSegments) == 0 {
		return false
	}

	elementStart := elementLayout.TextAnchor.TextSegments[0].StartIndex
	elementEnd := elementLayout.TextAnchor.TextSegments[0].EndIndex
	parentStart := parentLayout.TextAnchor.TextSegments[0].StartIndex
	parentEnd := parentLayout.TextAnchor.TextSegments[0].EndIndex

	return elementStart >= parentStart && elementEnd <= parentEnd
}

// unionOf returns the box covering all items
func unionOf[T layout.Node](items []T) layout.BBox {
	box := items[0].Bounds()
	for _, item := range items[1:] {
		box = box.Union(item.Bounds())
	}
	return box
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Max(m, v)
	}
	return m
}
