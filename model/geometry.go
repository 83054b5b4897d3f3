package model

import (
	"math"
	"strconv"
)

// BBox represents a bounding box in normalized page coordinates.
// All values are fractions of the page width or height, with the origin at
// the top-left corner and Top increasing downward.
type BBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from normalized coordinates
func NewBBox(left, top, width, height float64) BBox {
	return BBox{Left: left, Top: top, Width: width, Height: height}
}

// NewBBoxFromPixels normalizes a pixel rectangle against the page size.
// Returns an empty box if either page dimension is not positive.
func NewBBoxFromPixels(x0, y0, x1, y1, pageWidth, pageHeight float64) BBox {
	if pageWidth <= 0 || pageHeight <= 0 {
		return BBox{}
	}
	left := math.Min(x0, x1)
	top := math.Min(y0, y1)
	return BBox{
		Left:   left / pageWidth,
		Top:    top / pageHeight,
		Width:  math.Abs(x1-x0) / pageWidth,
		Height: math.Abs(y1-y0) / pageHeight,
	}
}

// Right returns the right edge
func (b BBox) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge
func (b BBox) Bottom() float64 {
	return b.Top + b.Height
}

// CenterY returns the vertical center
func (b BBox) CenterY() float64 {
	return b.Top + b.Height/2
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left ||
		b.Left > other.Right() ||
		b.Bottom() < other.Top ||
		b.Top > other.Bottom())
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	left := math.Min(b.Left, other.Left)
	top := math.Min(b.Top, other.Top)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsValid returns true if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// Round rounds v to the given number of decimal places. The stored binary
// value is rounded exactly, with ties going to the even digit, so 0.125
// becomes 0.12 and 2.675 (stored just below) becomes 2.67.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
