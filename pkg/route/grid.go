package route

import (
	"math"
	"strings"

	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
)

// Grid is the occupancy raster built from a layout. Each cell is either
// free or blocked by a non-walkable footprint; pathfinding runs on this
// raster rather than on exact geometry.
type Grid struct {
	rows    int
	cols    int
	cell    float64
	blocked []bool
}

// BuildGrid rasterizes a layout at the given cell size. A non-positive
// cell size falls back to the layout's own grid. Three passes build the
// raster:
//
//  1. Every non-walkable object blocks the cells its effective
//     footprint covers; walls block along their centerline.
//  2. Doors carve their surroundings free again, with enough padding
//     to reliably cut through the wall they sit in.
//  3. The cell under each exit point is forced free, so exits are
//     always reachable targets.
func BuildGrid(l *layout.Layout, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = l.Grid()
	}

	cols := max(1, int(math.Ceil(l.CanvasSize.Width/cellSize)))
	rows := max(1, int(math.Ceil(l.CanvasSize.Height/cellSize)))

	g := &Grid{
		rows:    rows,
		cols:    cols,
		cell:    cellSize,
		blocked: make([]bool, rows*cols),
	}

	for i := range l.Objects {
		o := &l.Objects[i]
		if o.Walkable() {
			continue
		}
		for _, c := range geometry.CoveredCells(o.Rect(), cellSize, rows, cols) {
			g.setBlocked(c, true)
		}
	}

	// Doors open a walkable gap, padded so a door placed on a wall
	// clears the wall's cells on both sides.
	pad := math.Max(cellSize*0.6, 6.0)
	for i := range l.Objects {
		o := &l.Objects[i]
		if !o.Walkable() {
			continue
		}
		for _, c := range geometry.CoveredCells(o.Rect().Inflate(pad), cellSize, rows, cols) {
			g.setBlocked(c, false)
		}
	}

	for _, exit := range l.ExitPoints() {
		if c, err := geometry.WorldToCell(exit, cellSize); err == nil && g.InBounds(c) {
			g.setBlocked(c, false)
		}
	}

	return g
}

// Rows returns the raster height in cells.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the raster width in cells.
func (g *Grid) Cols() int { return g.cols }

// CellSize returns the edge length of one cell in canvas units.
func (g *Grid) CellSize() float64 { return g.cell }

// InBounds reports whether the cell lies on the raster.
func (g *Grid) InBounds(c geometry.Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Blocked reports whether the cell is an obstacle. Out-of-bounds cells
// are blocked.
func (g *Grid) Blocked(c geometry.Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Row*g.cols+c.Col]
}

func (g *Grid) setBlocked(c geometry.Cell, v bool) {
	if g.InBounds(c) {
		g.blocked[c.Row*g.cols+c.Col] = v
	}
}

// Clamp pulls an arbitrary cell onto the raster.
func (g *Grid) Clamp(c geometry.Cell) geometry.Cell {
	c.Row = min(max(c.Row, 0), g.rows-1)
	c.Col = min(max(c.Col, 0), g.cols-1)
	return c
}

// CellAt maps a canvas point to its raster cell, clamped into bounds.
func (g *Grid) CellAt(p geometry.Point) geometry.Cell {
	c, err := geometry.WorldToCell(p, g.cell)
	if err != nil {
		return geometry.Cell{}
	}
	return g.Clamp(c)
}

// Center returns the canvas point at the middle of a cell.
func (g *Grid) Center(c geometry.Cell) geometry.Point {
	return geometry.CellCenter(c, g.cell)
}

// String renders the raster for terminal debugging: '#' for blocked
// cells, '.' for free ones.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.cols + 1) * g.rows)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.blocked[row*g.cols+col] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// NearestFreeCell finds the unblocked cell closest to c, searching
// outward ring by ring up to maxRadius. Start points often sit inside
// the furniture someone is escaping from, so pathfinding snaps them to
// the nearest free cell first.
func (g *Grid) NearestFreeCell(c geometry.Cell, maxRadius int) (geometry.Cell, bool) {
	c = g.Clamp(c)
	if !g.Blocked(c) {
		return c, true
	}

	for r := 1; r <= maxRadius; r++ {
		for dr := -r; dr <= r; dr++ {
			for dc := -r; dc <= r; dc++ {
				// Ring boundary only; the interior was covered by
				// smaller radii.
				if max(abs(dr), abs(dc)) != r {
					continue
				}
				cand := geometry.Cell{Row: c.Row + dr, Col: c.Col + dc}
				if g.InBounds(cand) && !g.Blocked(cand) {
					return cand, true
				}
			}
		}
	}
	return geometry.Cell{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
