package hocr

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// collectNodes walks the descendants of n in document order. When match
// reports true the walk does not descend into that node.
func collectNodes(n *html.Node, match func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			continue
		}
		collectNodes(c, match)
	}
}

// childElements returns the nearest descendants of n carrying one of classes
func childElements(n *html.Node, classes ...string) []*html.Node {
	var found []*html.Node
	collectNodes(n, func(c *html.Node) bool {
		if !hasClass(c, classes...) {
			return false
		}
		found = append(found, c)
		return true
	})
	return found
}

// hasClass reports whether the class attribute of n lists one of classes
func hasClass(n *html.Node, classes ...string) bool {
	value, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	for _, token := range strings.Fields(value) {
		if slices.Contains(classes, token) {
			return true
		}
	}
	return false
}

// getAttr returns the value of a specific attribute of a node
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// extractTextContent gets all text from a node and its children, trimmed
func extractTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
