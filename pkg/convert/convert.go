// Package convert moves page layouts between the supported OCR formats.
//
// Every conversion runs the same pipeline: a codec loads the input into a
// layout page, the bounding boxes are recalculated (scaled, shifted and
// re-aggregated bottom-up) and another codec writes the page out.
//
// Key Types:
//
// - Format: hocr, djvused, txt (output only) and docai (input only)
// - Config: formats, scale, offset and page overrides for Convert
//
// Main Functions:
//
// - Convert: runs the full load → recalculate → save pipeline
// - Load, LoadFile, Save: dispatch to the codec of a format
// - ParseFormat, FormatFromFilename: resolve formats from names or files
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/gardar/pdfsed/pkg/djvused"
	"github.com/gardar/pdfsed/pkg/gdocai"
	"github.com/gardar/pdfsed/pkg/hocr"
	"github.com/gardar/pdfsed/pkg/layout"
	"github.com/gardar/pdfsed/pkg/txt"
)

// BigScale is the scale factor above which Convert warns
const BigScale = 3.0

// Config contains settings for a conversion
type Config struct {
	From   Format  // Input format
	To     Format  // Output format
	Scale  float64 // Uniform coordinate scale factor
	Offset []int   // X and Y added to every word after scaling
	Page   int     // 1-based page of multi-page inputs, 0 for the first
	Image  string  // Replaces the page image name when set
	Num    int     // Replaces the page number when positive
}

// DefaultConfig returns a hOCR to hOCR conversion without scaling
func DefaultConfig() Config {
	return Config{
		From:  FormatHOCR,
		To:    FormatHOCR,
		Scale: 1.0,
	}
}

// Convert reads a layout in cfg.From, recalculates its boxes and writes it
// in cfg.To. Warnings collect the non-fatal problems met on the way.
func Convert(r io.Reader, w io.Writer, cfg Config) ([]string, error) {
	if !cfg.From.CanLoad() {
		return nil, fmt.Errorf("%w: cannot read %s", ErrUnknownFormat, cfg.From)
	}
	if !cfg.To.CanSave() {
		return nil, fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, cfg.To)
	}

	var warnings []string
	if cfg.Scale > BigScale {
		warnings = append(warnings, fmt.Sprintf("scaling factor %g is rather big", cfg.Scale))
	}

	page, loadWarnings, err := Load(r, cfg.From, cfg.Page)
	warnings = append(warnings, loadWarnings...)
	if err != nil {
		return warnings, err
	}

	if cfg.Image != "" {
		page.Image = cfg.Image
	}
	if cfg.Num > 0 {
		page.Num = cfg.Num
	}

	if _, err := layout.RecalculateBBox(page, cfg.Scale, cfg.Offset); err != nil {
		return warnings, err
	}
	return warnings, Save(page, w, cfg.To)
}

// Load reads one page in the given format. pageIndex selects a page of a
// multi-page input, 1-based; 0 selects the first page.
func Load(r io.Reader, f Format, pageIndex int) (*layout.Page, []string, error) {
	var (
		pages    []*layout.Page
		warnings []string
		err      error
	)
	switch f {
	case FormatHOCR:
		pages, warnings, err = hocr.LoadPages(r)
	case FormatDjvused:
		var page *layout.Page
		page, err = djvused.Load(r)
		pages = []*layout.Page{page}
	case FormatDocAI:
		pages, err = gdocai.LoadPages(r)
	case FormatText:
		_, err = txt.Load(r)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, warnings, err
	}
	page, err := selectPage(pages, pageIndex)
	return page, warnings, err
}

func selectPage(pages []*layout.Page, index int) (*layout.Page, error) {
	if index == 0 {
		index = 1
	}
	if index < 1 || index > len(pages) {
		return nil, fmt.Errorf("%w: page %d requested, input has %d", layout.ErrInvalidArgument, index, len(pages))
	}
	return pages[index-1], nil
}

// LoadFile reads the first page of a layout file, guessing its format
// from the extension
func LoadFile(path string) (*layout.Page, []string, error) {
	f, err := FormatFromFilename(path)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	page, warnings, err := Load(file, f, 0)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return page, warnings, nil
}

// Save writes the page in the given format
func Save(page *layout.Page, w io.Writer, f Format) error {
	switch f {
	case FormatHOCR:
		return hocr.Save(page, w)
	case FormatDjvused:
		return djvused.Save(page, w)
	case FormatText:
		return txt.Save(page, w)
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, f)
	}
}
