package geometry

import "math"

// Point is a location in canvas coordinates. The origin sits in the
// top-left corner with Y increasing downward, matching SVG and the
// layout document convention.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// Width and Height may be negative in intermediate states; use
// [Rect.Normalized] before geometric queries.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// NewRect returns the normalized rectangle spanning the given extents.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}.Normalized()
}

// Normalized returns an equivalent rectangle with non-negative spans.
// A negative width or height flips the anchor to the opposite corner,
// so Rect{10, 0, -5, 4} normalizes to Rect{5, 0, 5, 4}.
func (r Rect) Normalized() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	r = r.Normalized()
	return r.Width * r.Height
}

// ContainsPoint reports whether p lies inside r. Points on the edges
// count as inside.
func (r Rect) ContainsPoint(p Point) bool {
	r = r.Normalized()
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Contains reports whether o lies entirely inside r. Shared edges are
// allowed, so a rectangle contains itself.
func (r Rect) Contains(o Rect) bool {
	r, o = r.Normalized(), o.Normalized()
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap with positive area.
// Rectangles that merely touch along an edge or corner do not intersect.
func (r Rect) Intersects(o Rect) bool {
	r, o = r.Normalized(), o.Normalized()
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// IntersectionArea returns the area shared by r and o, or 0 when they
// do not overlap.
func (r Rect) IntersectionArea(o Rect) float64 {
	r, o = r.Normalized(), o.Normalized()
	w := math.Min(r.Right(), o.Right()) - math.Max(r.X, o.X)
	h := math.Min(r.Bottom(), o.Bottom()) - math.Max(r.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Inflate grows the rectangle by margin on every side. A negative
// margin shrinks it instead.
func (r Rect) Inflate(margin float64) Rect {
	r = r.Normalized()
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// DistancePointToRect returns the shortest distance from p to the
// rectangle. Points inside or on the boundary have distance 0.
func DistancePointToRect(p Point, r Rect) float64 {
	r = r.Normalized()
	dx := math.Max(math.Max(r.X-p.X, 0), p.X-r.Right())
	dy := math.Max(math.Max(r.Y-p.Y, 0), p.Y-r.Bottom())
	return math.Hypot(dx, dy)
}

// DistanceRects returns the shortest edge-to-edge distance between two
// rectangles. Overlapping or touching rectangles have distance 0.
func DistanceRects(a, b Rect) float64 {
	a, b = a.Normalized(), b.Normalized()
	dx := math.Max(math.Max(b.X-a.Right(), 0), a.X-b.Right())
	dy := math.Max(math.Max(b.Y-a.Bottom(), 0), a.Y-b.Bottom())
	return math.Hypot(dx, dy)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
