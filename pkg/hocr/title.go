package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gardar/pdfsed/pkg/layout"
)

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// bboxChunk returns the "bbox ..." property of a title
func bboxChunk(title string) (string, bool) {
	for _, part := range strings.Split(title, ";") {
		part = strings.TrimSpace(part)
		if fields := strings.Fields(part); len(fields) > 0 && fields[0] == "bbox" {
			return part, true
		}
	}
	return "", false
}

// ParseBBox parses a single bbox property: exactly "bbox" followed by four
// base-10 integers. It does not flip the box.
func ParseBBox(chunk string) (layout.BBox, error) {
	fields := strings.Fields(chunk)
	if len(fields) != 5 || fields[0] != "bbox" {
		return layout.BBox{}, fmt.Errorf("%w: %q", ErrInvalidBBox, chunk)
	}
	var v [4]int
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return layout.BBox{}, fmt.Errorf("%w: %q", ErrInvalidBBox, chunk)
		}
		v[i] = n
	}
	return layout.NewBBox(v[0], v[1], v[2], v[3]), nil
}

// titleBBox reads the bbox property of an element title and flips it
// into layout coordinates against pageHeight
func titleBBox(title string, pageHeight int) (layout.BBox, error) {
	chunk, ok := bboxChunk(title)
	if !ok {
		return layout.BBox{}, fmt.Errorf("%w in title %q", ErrMissingBBox, title)
	}
	bbox, err := ParseBBox(chunk)
	if err != nil {
		return layout.BBox{}, err
	}
	return bbox.FlipY(pageHeight), nil
}

// FormatBBox composes the bbox property of an element from a layout box,
// flipping it against pageHeight
func FormatBBox(bbox layout.BBox, pageHeight int) string {
	f := bbox.FlipY(pageHeight)
	return fmt.Sprintf("bbox %d %d %d %d", f.X1, f.Y1, f.X2, f.Y2)
}

// pageInfo holds the properties read from an ocr_page title
type pageInfo struct {
	image   string
	num     int
	bbox    layout.BBox
	hasBBox bool
}

// parsePageInfo reads image, ppageno and bbox from a page title.
// A broken bbox is fatal; image and ppageno problems and unknown properties
// only produce warnings.
func parsePageInfo(title string) (pageInfo, []string, error) {
	info := pageInfo{image: DefaultPageImage, num: DefaultPageNum}
	var warnings []string

	for _, chunk := range strings.Split(title, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		key := strings.Fields(chunk)[0]
		value := strings.TrimSpace(chunk[len(key):])

		switch key {
		case "image":
			name := strings.Trim(value, `"`)
			if name == "" {
				warnings = append(warnings,
					fmt.Sprintf("Failed parsing hOCR image file name: %q. Ignoring...", chunk))
				continue
			}
			info.image = name
		case "ppageno":
			n, err := strconv.Atoi(value)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("Failed parsing hOCR page number: %q. Ignoring...", value))
				continue
			}
			info.num = n
		case "bbox":
			bbox, err := ParseBBox(chunk)
			if err != nil {
				return info, warnings, err
			}
			info.bbox = bbox
			info.hasBBox = true
		default:
			warnings = append(warnings,
				fmt.Sprintf("Unknown hOCR page info chunk: %q. Skipping...", chunk))
		}
	}
	return info, warnings, nil
}

// pageTitle composes the ocr_page title: image, bbox, ppageno in that order
func pageTitle(page *layout.Page) string {
	return fmt.Sprintf("image \"%s\"; %s; ppageno %d",
		page.Image, FormatBBox(page.BBox, page.BBox.Y2), page.Num)
}
