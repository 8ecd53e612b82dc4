// Package geom provides the axis-aligned integer rectangle and point types
// shared by the damage tracker, workspace layout engine, and decoration
// hit-testing. It follows gio's f32 package in spirit (value types, one
// method per operation) but works in integer screen/logical pixels.
package geom

// A Point is a two dimensional integer point.
type Point struct {
	X, Y int
}

// Add returns p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Rect is an axis-aligned rectangle given by its origin and size. Unlike
// image.Rectangle, Rect is defined by (X, Y, Width, Height) because that is
// the shape every wire format and layout formula in spec.md uses.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect constructs a Rect, clamping width/height to be non-negative.
func NewRect(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCorners builds a Rect from two arbitrary corners.
func RectFromCorners(x1, y1, x2, y2 int) Rect {
	x, x2 := minMax(x1, x2)
	y, y2 := minMax(y1, y2)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// Area returns the rectangle's area in pixels.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns r.X + r.Width.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns r.Y + r.Height.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Intersects reports whether r and s share any pixels.
func (r Rect) Intersects(s Rect) bool {
	return !(r.Right() <= s.X || s.Right() <= r.X || r.Bottom() <= s.Y || s.Bottom() <= r.Y)
}

// Adjacent reports whether r and s are within threshold pixels of each
// other along one axis while overlapping along the other, i.e. close
// enough that merging them into one region is worthwhile even though they
// don't overlap.
func (r Rect) Adjacent(s Rect, threshold int) bool {
	hAdjacent := (r.Right()+threshold >= s.X && r.X <= s.Right()+threshold) &&
		(r.Y < s.Bottom() && s.Y < r.Bottom())
	vAdjacent := (r.Bottom()+threshold >= s.Y && r.Y <= s.Bottom()+threshold) &&
		(r.X < s.Right() && s.X < r.Right())
	return hAdjacent || vAdjacent
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	x1, y1 := min(r.X, s.X), min(r.Y, s.Y)
	x2, y2 := max(r.Right(), s.Right()), max(r.Bottom(), s.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersection returns the overlap of r and s, and false if they don't
// intersect.
func (r Rect) Intersection(s Rect) (Rect, bool) {
	if !r.Intersects(s) {
		return Rect{}, false
	}
	x1, y1 := max(r.X, s.X), max(r.Y, s.Y)
	x2, y2 := min(r.Right(), s.Right()), min(r.Bottom(), s.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// ContainsPoint reports whether (x, y) lies within r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Contains reports whether r fully contains s.
func (r Rect) Contains(s Rect) bool {
	return s.X >= r.X && s.Y >= r.Y && s.Right() <= r.Right() && s.Bottom() <= r.Bottom()
}

// Translate offsets r by (dx, dy), used to convert window-local damage
// regions into screen coordinates.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Clamp1 returns v with a floor of 1, used throughout layout math since
// spec.md requires every returned rectangle to have width >= 1, height >= 1.
func Clamp1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
