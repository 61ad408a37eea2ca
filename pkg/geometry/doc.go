// Package geometry provides the 2D primitives shared by placement,
// validation and routing: points, axis-aligned rectangles and a uniform
// grid addressing scheme.
//
// # Coordinate system
//
// All coordinates live in canvas space: the origin is the top-left
// corner of the floor plan, X grows rightward and Y grows downward.
// This matches both the layout document format and SVG output, so
// values pass through the whole pipeline without conversion.
//
// # Conventions
//
// Three conventions keep the higher layers consistent:
//
//   - Containment is inclusive: a point on a rectangle's edge is inside
//     it ([Rect.ContainsPoint]), and a rectangle flush against the
//     canvas boundary is in bounds ([Rect.Contains]).
//   - Intersection is strict: rectangles must share positive area to
//     collide ([Rect.Intersects]), so furniture placed exactly
//     edge-to-edge is legal.
//   - Grid cells are half-open: a coordinate on a gridline belongs to
//     the next cell ([WorldToCell]), and a rectangle ending on a
//     gridline does not spill over ([CoveredCells]).
package geometry
