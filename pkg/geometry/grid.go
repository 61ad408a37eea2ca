package geometry

import (
	"errors"
	"math"
)

// ErrInvalidGridSize is returned by [WorldToCell] when the grid size is
// not strictly positive. Snap helpers treat such grids as "no grid" and
// return their input unchanged instead.
var ErrInvalidGridSize = errors.New("grid size must be positive")

// Cell addresses one square of an occupancy grid. Row counts down from
// the canvas top, Col counts right from the canvas left.
type Cell struct {
	Row int
	Col int
}

// SnapValue rounds v to the nearest multiple of grid. A grid of 0 or
// less leaves v unchanged.
func SnapValue(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint rounds both coordinates to the nearest grid intersection.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: SnapValue(p.X, grid), Y: SnapValue(p.Y, grid)}
}

// WorldToCell maps a canvas coordinate to the grid cell containing it.
// Cells are half-open, so a point exactly on a gridline belongs to the
// cell to its right (or below).
func WorldToCell(p Point, grid float64) (Cell, error) {
	if grid <= 0 {
		return Cell{}, ErrInvalidGridSize
	}
	return Cell{
		Row: int(math.Floor(p.Y / grid)),
		Col: int(math.Floor(p.X / grid)),
	}, nil
}

// CellCenter returns the canvas coordinate at the middle of a cell.
func CellCenter(c Cell, grid float64) Point {
	return Point{
		X: (float64(c.Col) + 0.5) * grid,
		Y: (float64(c.Row) + 0.5) * grid,
	}
}

// CoveredCells returns every grid cell the rectangle overlaps, clamped
// to a maxRows by maxCols grid. Edges are exclusive: a rectangle whose
// right edge lands exactly on a gridline does not reach into the next
// column. Degenerate rectangles cover no cells.
func CoveredCells(r Rect, grid float64, maxRows, maxCols int) []Cell {
	if grid <= 0 {
		return nil
	}
	r = r.Normalized()
	if r.Width == 0 || r.Height == 0 {
		return nil
	}

	startRow := int(math.Floor(r.Y / grid))
	endRow := int(math.Ceil(r.Bottom()/grid)) - 1
	startCol := int(math.Floor(r.X / grid))
	endCol := int(math.Ceil(r.Right()/grid)) - 1

	startRow = max(startRow, 0)
	startCol = max(startCol, 0)
	endRow = min(endRow, maxRows-1)
	endCol = min(endCol, maxCols-1)

	if startRow > endRow || startCol > endCol {
		return nil
	}

	cells := make([]Cell, 0, (endRow-startRow+1)*(endCol-startCol+1))
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			cells = append(cells, Cell{Row: row, Col: col})
		}
	}
	return cells
}

// Neighbors4 returns the four orthogonally adjacent cells in the order
// up, down, left, right. Callers are responsible for bounds checks.
func Neighbors4(c Cell) [4]Cell {
	return [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}
