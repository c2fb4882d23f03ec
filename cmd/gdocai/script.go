package main

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/gardar/pdfsed/pkg/layout"
	"github.com/gardar/pdfsed/pkg/pdfsed"
)

// pageWidth is the width in points of composed pages (A4)
const pageWidth = 595.0

// layoutName is the file name of the layout of a page in the given format
func layoutName(page *layout.Page, ext string) string {
	return fmt.Sprintf("page_%d.%s", page.Num, ext)
}

// writeScript writes a pdfsed script composing one searchable page per
// layout page. The background is the page of sourcePDF when set, else
// the page image. Images and text default to the width of the page. Page
// files are looked up in dir, relative to the script.
func writeScript(w io.Writer, title string, pages []*layout.Page, dir, ext, sourcePDF string) error {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "set title %s creator \"gdocai\";\n", pdfsed.Quote(title))
	}
	for _, page := range pages {
		height := pageWidth
		if page.BBox.Width() > 0 {
			height = math.Round(pageWidth * float64(page.BBox.Height()) / float64(page.BBox.Width()))
		}
		fmt.Fprintf(&sb, "\ncreate page size %g %g;\n", pageWidth, height)
		if sourcePDF != "" {
			fmt.Fprintf(&sb, "draw pdf %s page %d;\n", pdfsed.Quote(sourcePDF), page.Num)
		} else {
			fmt.Fprintf(&sb, "draw image %s;\n", pdfsed.Quote(filepath.Join(dir, page.Image)))
		}
		fmt.Fprintf(&sb, "draw text %s;\n", pdfsed.Quote(filepath.Join(dir, layoutName(page, ext))))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
