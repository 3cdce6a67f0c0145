package model

import "fmt"

// Point is an integer canvas coordinate. The origin is the bottom-left corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle with half-open upper bounds:
// a point lies inside iff Left <= x < Right and Bottom <= y < Top.
type Rect struct {
	Left   int `json:"left"`
	Bottom int `json:"bottom"`
	Right  int `json:"right"`
	Top    int `json:"top"`
}

// R is shorthand for building a Rect from its four bounds.
func R(left, bottom, right, top int) Rect {
	return Rect{Left: left, Bottom: bottom, Right: right, Top: top}
}

// Square returns a size x size rectangle anchored at the origin.
func Square(size int) Rect {
	return R(0, 0, size, size)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", r.Left, r.Bottom, r.Right, r.Top)
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Top - r.Bottom }

// Area returns width * height.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// BottomLeft returns the inclusive lower corner.
func (r Rect) BottomLeft() Point { return Point{X: r.Left, Y: r.Bottom} }

// TopRight returns the exclusive upper corner.
func (r Rect) TopRight() Point { return Point{X: r.Right, Y: r.Top} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.Left <= p.X && p.X < r.Right && r.Bottom <= p.Y && p.Y < r.Top
}

// ContainsRect reports whether inner lies entirely within r.
func (r Rect) ContainsRect(inner Rect) bool {
	return r.Left <= inner.Left && inner.Right <= r.Right &&
		r.Bottom <= inner.Bottom && inner.Top <= r.Top
}

// SameSize reports whether both rectangles have equal width and height.
// Position is irrelevant.
func (r Rect) SameSize(other Rect) bool {
	return r.Width() == other.Width() && r.Height() == other.Height()
}

// PointCut splits r at an interior point into four quadrants ordered
// bottom-left, bottom-right, top-right, top-left.
func (r Rect) PointCut(p Point) ([]Rect, error) {
	if !(r.Left < p.X && p.X < r.Right && r.Bottom < p.Y && p.Y < r.Top) {
		return nil, fmt.Errorf("%w: point %s is not strictly inside %s", ErrInvalidCut, p, r)
	}
	return []Rect{
		R(r.Left, r.Bottom, p.X, p.Y),
		R(p.X, r.Bottom, r.Right, p.Y),
		R(p.X, p.Y, r.Right, r.Top),
		R(r.Left, p.Y, p.X, r.Top),
	}, nil
}

// VerticalCut splits r along the line x into a left and a right part.
func (r Rect) VerticalCut(x int) ([]Rect, error) {
	if !(r.Left < x && x < r.Right) {
		return nil, fmt.Errorf("%w: x=%d is not strictly inside %s", ErrInvalidCut, x, r)
	}
	return []Rect{
		R(r.Left, r.Bottom, x, r.Top),
		R(x, r.Bottom, r.Right, r.Top),
	}, nil
}

// HorizontalCut splits r along the line y into a lower and an upper part.
func (r Rect) HorizontalCut(y int) ([]Rect, error) {
	if !(r.Bottom < y && y < r.Top) {
		return nil, fmt.Errorf("%w: y=%d is not strictly inside %s", ErrInvalidCut, y, r)
	}
	return []Rect{
		R(r.Left, r.Bottom, r.Right, y),
		R(r.Left, y, r.Right, r.Top),
	}, nil
}

// Intersect returns the overlap of r and other. Rectangles that only touch
// along an edge do not overlap.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	if r.Right <= other.Left || other.Right <= r.Left ||
		r.Top <= other.Bottom || other.Top <= r.Bottom {
		return Rect{}, false
	}
	return R(
		max(r.Left, other.Left),
		max(r.Bottom, other.Bottom),
		min(r.Right, other.Right),
		min(r.Top, other.Top),
	), true
}

// Merge returns the union of r and other when they share a full edge,
// either stacked vertically or placed side by side.
func (r Rect) Merge(other Rect) (Rect, bool) {
	sameColumn := r.Left == other.Left && r.Right == other.Right
	sameRow := r.Bottom == other.Bottom && r.Top == other.Top

	switch {
	case sameColumn && r.Bottom == other.Top:
		// other below r
		return R(r.Left, other.Bottom, r.Right, r.Top), true
	case sameColumn && other.Bottom == r.Top:
		// other above r
		return R(r.Left, r.Bottom, r.Right, other.Top), true
	case sameRow && r.Right == other.Left:
		return R(r.Left, r.Bottom, other.Right, r.Top), true
	case sameRow && other.Right == r.Left:
		return R(other.Left, r.Bottom, r.Right, r.Top), true
	}
	return Rect{}, false
}
