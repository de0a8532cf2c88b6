package model

import "math"

// BBox represents an axis-aligned bounding box in raster page
// coordinates: (X0, Y0) is the top-left corner, (X1, Y1) the
// bottom-right, with Y increasing downward.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box from two corner coordinates,
// normalizing so that X0 <= X1 and Y0 <= Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 {
	return b.X0
}

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 {
	return b.X1
}

// Top returns the top edge Y coordinate (smaller Y is higher on the page).
func (b BBox) Top() float64 {
	return b.Y0
}

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 {
	return b.Y1
}

// CenterX returns the horizontal center of the box.
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Area returns the area of the box, or 0 for degenerate boxes.
func (b BBox) Area() float64 {
	if !b.IsValid() {
		return 0
	}
	return b.Width() * b.Height()
}

// IsValid reports whether the box has positive width and height.
func (b BBox) IsValid() bool {
	return b.X1 > b.X0 && b.Y1 > b.Y0
}

// MeetsMinSize reports whether the box is valid and at least
// minW wide and minH tall.
func (b BBox) MeetsMinSize(minW, minH float64) bool {
	return b.IsValid() && b.Width() >= minW && b.Height() >= minH
}

// Intersects reports whether two boxes overlap with positive area.
func (b BBox) Intersects(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 &&
		b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Intersection returns the overlapping box of b and other, or a zero
// BBox if they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// ContainsBBox reports whether other lies entirely inside b.
func (b BBox) ContainsBBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// OverlapRatio returns the fraction of b's own area covered by other,
// between 0 and 1. Note the asymmetry: the denominator is b's area,
// not the smaller of the two.
func (b BBox) OverlapRatio(other BBox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return b.Intersection(other).Area() / area
}

// Expand grows the box by margin on all four sides. A negative margin
// shrinks it; the result may be degenerate.
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X0: b.X0 - margin,
		Y0: b.Y0 - margin,
		X1: b.X1 + margin,
		Y1: b.Y1 + margin,
	}
}

// Clamp restricts the box to the given bounds.
func (b BBox) Clamp(bounds BBox) BBox {
	return BBox{
		X0: math.Max(b.X0, bounds.X0),
		Y0: math.Max(b.Y0, bounds.Y0),
		X1: math.Min(b.X1, bounds.X1),
		Y1: math.Min(b.Y1, bounds.Y1),
	}
}

// VSpanOverlaps reports whether the vertical spans of b and other
// overlap (their Y intervals intersect).
func (b BBox) VSpanOverlaps(other BBox) bool {
	return b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// HSpanOverlaps reports whether the horizontal spans of b and other
// overlap (their X intervals intersect).
func (b BBox) HSpanOverlaps(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1
}
