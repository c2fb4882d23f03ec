package layout

import "fmt"

// BBox is an axis-aligned bounding box in pixels.
// X1, Y1 is the first corner and X2, Y2 the opposite one; X1 <= X2 and
// Y1 <= Y2 are expected but not enforced.
type BBox struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x1, y1, x2, y2 int) BBox {
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width of the box, negative for inverted boxes
func (b BBox) Width() int { return b.X2 - b.X1 }

// Height of the box, negative for inverted boxes
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Valid reports whether the box is not inverted on either axis
func (b BBox) Valid() bool { return b.X1 <= b.X2 && b.Y1 <= b.Y2 }

// FlipY mirrors the box vertically against a page of the given height.
// The vertical edges swap, so the result is again ordered top/bottom:
// FlipY(h).FlipY(h) == b for any h.
func (b BBox) FlipY(pageHeight int) BBox {
	return BBox{
		X1: b.X1,
		Y1: pageHeight - b.Y2,
		X2: b.X2,
		Y2: pageHeight - b.Y1,
	}
}

// Union returns the smallest box covering both b and o.
// Inverted seed boxes such as (w, h, 0, 0) are absorbed by the first
// real box they are combined with.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// Translate shifts the box by dx, dy
func (b BBox) Translate(dx, dy int) BBox {
	return BBox{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

func (b BBox) String() string {
	return fmt.Sprintf("%d %d %d %d", b.X1, b.Y1, b.X2, b.Y2)
}
