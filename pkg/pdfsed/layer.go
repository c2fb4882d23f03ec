package pdfsed

import (
	"fmt"
	"math"

	"golang.org/x/text/encoding"

	"github.com/gardar/pdfsed/pkg/convert"
	"github.com/gardar/pdfsed/pkg/layout"
)

// textPlacement maps layout pixels to page points
type textPlacement struct {
	x, y  float64 // offset in points from the bottom-left page corner
	dpi   float64 // resolution of the layout coordinates
	scale float64 // uniform scale applied after the offset
}

// point converts a layout coordinate pair to points, y measured from the bottom
func (p textPlacement) point(px, py int) (float64, float64) {
	return p.scale * (p.x + 72*float64(px)/p.dpi), p.scale * (p.y + 72*float64(py)/p.dpi)
}

// drawText handles: draw text "file" [dpi D] [pos X Y] [scale S]
func (r *runner) drawText(args *argReader) error {
	name, err := args.str()
	if err != nil {
		return err
	}
	path := r.resolve(name)
	page, warnings, err := convert.LoadFile(path)
	for _, w := range warnings {
		r.log.Warn(w, "file", path)
	}
	if err != nil {
		return err
	}

	place := textPlacement{
		dpi:   math.Round(float64(page.BBox.X2) / (r.pageW / 72)),
		scale: 1,
	}
	for !args.done() {
		prop, err := args.atom()
		if err != nil {
			return err
		}
		switch prop {
		case "dpi":
			if place.dpi, err = args.float(); err != nil {
				return err
			}
		case "pos":
			if place.x, err = args.float(); err != nil {
				return err
			}
			if place.y, err = args.float(); err != nil {
				return err
			}
		case "scale":
			if place.scale, err = args.float(); err != nil {
				return err
			}
		default:
			return args.errorf("unknown text property %q", prop)
		}
	}
	if !(place.dpi > 0) {
		return args.errorf("text resolution must be positive, got %g", place.dpi)
	}

	words, encodingErrors := r.drawOCRLayer(page, place)
	r.log.Info("text drawn", "file", path, "words", words, "dpi", place.dpi,
		"x", place.x, "y", place.y, "scale", place.scale)
	if encodingErrors > 0 {
		r.log.Warn(fmt.Sprintf("%d of %d words are not representable in %s", encodingErrors, words, r.cfg.Encoding),
			"file", path)
	}
	return nil
}

// drawOCRLayer draws the words of a layout page onto a layer of the
// current PDF page. It returns the number of words drawn and how many of
// them needed character replacement.
func (r *runner) drawOCRLayer(page *layout.Page, place textPlacement) (words, encodingErrors int) {
	pdf := r.pdf
	layerName := fmt.Sprintf("%s (Page %d)", r.cfg.LayerName, r.pages)

	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(r.cfg.Font.Name, r.cfg.Font.Style, r.cfg.Font.Size)

	if r.cfg.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	for _, column := range page.Columns {
		for _, para := range column.Paragraphs {
			for _, line := range para.Lines {
				for _, word := range line.Words {
					if !r.drawWord(word, line, place) {
						encodingErrors++
					}
					words++
				}
			}
		}
	}

	pdf.EndLayer()
	if r.cfg.Debug {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(0, 0, 0)
	} else {
		pdf.SetAlpha(1.0, "Normal")
	}
	pdf.SetFontSize(r.cfg.Font.Size)
	return words, encodingErrors
}

// drawWord renders a single word with its baseline on the bottom of its
// line, stretched to the word width. It reports false when the text had
// to be approximated in the target encoding.
func (r *runner) drawWord(word *layout.Word, line *layout.Line, place textPlacement) bool {
	pdf := r.pdf
	x, baseline := place.point(word.BBox.X1, line.BBox.Y1)
	x2, _ := place.point(word.BBox.X2, line.BBox.Y1)
	wordWidth := x2 - x

	text, exact := r.encode(word.Text)

	pdf.SetFontSize(r.cfg.Font.Size)
	if strWidth := pdf.GetStringWidth(text); strWidth > 0 && wordWidth > 0 {
		pdf.SetFontSize(r.cfg.Font.Size * wordWidth / strWidth)
	}
	pdf.Text(x, r.pageH-baseline, text)

	if r.cfg.Debug {
		_, top := place.point(word.BBox.X1, word.BBox.Y2)
		_, bottom := place.point(word.BBox.X1, word.BBox.Y1)
		pdf.Rect(x, r.pageH-top, wordWidth, top-bottom, "D")
	}
	return exact
}

// encode converts UTF-8 text to the code page of the core font,
// replacing characters it cannot represent
func (r *runner) encode(s string) (string, bool) {
	out, err := r.encoding.NewEncoder().String(s)
	if err == nil {
		return out, true
	}
	out, _ = encoding.ReplaceUnsupported(r.encoding.NewEncoder()).String(s)
	return out, false
}
