package layout

import (
	"fmt"
	"math"
)

// MinScaleFactor is the smallest accepted scale factor (exclusive)
const MinScaleFactor = 0.001

// RecalculateBBox rescales the page and rebuilds every container box from
// the words outwards.
//
// Word boxes are the only ground truth: each coordinate is multiplied by
// scale and rounded half away from zero, then translated by offset (dx, dy).
// The page box is scaled but not translated. Line, paragraph and column
// boxes are replaced by the union of their children, seeded with
// (pageWidth, pageHeight, 0, 0) where width and height are the scaled page
// X2 and Y2, so an empty container ends up with that inverted box.
//
// An offset that is not exactly two values is treated as (0, 0).
// The tree is modified in place and the same page is returned.
func RecalculateBBox(page *Page, scale float64, offset []int) (*Page, error) {
	if !(scale > MinScaleFactor) {
		return nil, fmt.Errorf("%w: scale factor must be positive and non-negligible, got %g",
			ErrInvalidArgument, scale)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: nil page", ErrInvalidArgument)
	}

	dx, dy := 0, 0
	if len(offset) == 2 {
		dx, dy = offset[0], offset[1]
	}

	pageBox := scaleBBox(page.BBox, scale)
	seed := BBox{X1: pageBox.X2, Y1: pageBox.Y2, X2: 0, Y2: 0}

	for _, column := range page.Columns {
		columnBox := seed
		for _, para := range column.Paragraphs {
			paraBox := seed
			for _, line := range para.Lines {
				lineBox := seed
				for _, word := range line.Words {
					word.BBox = scaleBBox(word.BBox, scale).Translate(dx, dy)
					lineBox = lineBox.Union(word.BBox)
				}
				line.BBox = lineBox
				paraBox = paraBox.Union(lineBox)
			}
			para.BBox = paraBox
			columnBox = columnBox.Union(paraBox)
		}
		column.BBox = columnBox
	}

	page.BBox = pageBox
	return page, nil
}

// Recalculated is RecalculateBBox on a deep copy; page is left untouched
func Recalculated(page *Page, scale float64, offset []int) (*Page, error) {
	return RecalculateBBox(page.Clone(), scale, offset)
}

func scaleBBox(b BBox, scale float64) BBox {
	return BBox{
		X1: scaleCoord(b.X1, scale),
		Y1: scaleCoord(b.Y1, scale),
		X2: scaleCoord(b.X2, scale),
		Y2: scaleCoord(b.Y2, scale),
	}
}

func scaleCoord(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}
