package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Indices count runes of the document text and are clamped to it.
func textFromLayout(l *documentaipb.Document_Page_Layout, fullText string) string {
	if l == nil || l.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	var result strings.Builder
	total := int64(len(runes))

	for _, seg := range l.TextAnchor.TextSegments {
		start := max(seg.StartIndex, 0)
		end := min(seg.EndIndex, total)
		start = min(start, end)
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}
