// Package route computes escape paths across a floor plan. A layout is
// rasterized into an occupancy [Grid], A* finds the shortest walkable
// cell sequence, and the result comes back as canvas waypoints ending
// exactly on the chosen exit.
package route

import (
	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
)

// Path is one walkable route. Points are canvas coordinates: cell
// centers along the way, with the final waypoint on the exact exit
// point rather than its cell center.
type Path struct {
	Points []geometry.Point `json:"points" bson:"points"`
	Cells  int              `json:"cells" bson:"cells"`
}

// Length returns the total walking distance along the path.
func (p Path) Length() float64 {
	var sum float64
	for i := 1; i < len(p.Points); i++ {
		sum += geometry.Distance(p.Points[i-1], p.Points[i])
	}
	return sum
}

// Option tunes path computation.
type Option func(*config)

type config struct {
	cellSize float64
	grid     *Grid
}

// WithCellSize overrides the raster cell size. Smaller cells follow
// narrow corridors more faithfully at the cost of a larger search.
func WithCellSize(s float64) Option {
	return func(c *config) { c.cellSize = s }
}

// WithGrid reuses a prebuilt occupancy grid. Callers routing many
// starts over the same layout build the grid once.
func WithGrid(g *Grid) Option {
	return func(c *config) { c.grid = g }
}

// ToExit finds the shortest escape route from a canvas point to any of
// the layout's exits. Exits are the document's explicit exit points
// plus the centers of exit-type objects. The start is snapped to the
// nearest free cell first, since escape routes usually begin inside a
// piece of furniture.
//
// A layout without exits, or a start walled off from every exit, is a
// NO_PATH error.
func ToExit(l *layout.Layout, from geometry.Point, opts ...Option) (Path, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	exits := l.ExitPoints()
	if len(exits) == 0 {
		return Path{}, errors.New(errors.ErrCodeNoPath, "layout has no exits")
	}

	g := cfg.grid
	if g == nil {
		g = BuildGrid(l, cfg.cellSize)
	}

	start, ok := g.NearestFreeCell(g.CellAt(from), max(g.Rows(), g.Cols()))
	if !ok {
		return Path{}, errors.New(errors.ErrCodeNoPath, "no free cell near (%g, %g)", from.X, from.Y)
	}

	var best []geometry.Cell
	var bestExit geometry.Point
	for _, exit := range exits {
		cells, found := AStar(g, start, g.CellAt(exit))
		if !found {
			continue
		}
		if best == nil || len(cells) < len(best) {
			best = cells
			bestExit = exit
		}
	}
	if best == nil {
		return Path{}, errors.New(errors.ErrCodeNoPath, "no walkable route from (%g, %g) to any exit", from.X, from.Y)
	}

	points := make([]geometry.Point, 0, len(best))
	for _, c := range best[:len(best)-1] {
		points = append(points, g.Center(c))
	}
	points = append(points, bestExit)

	return Path{Points: points, Cells: len(best)}, nil
}

// FromObject finds the escape route starting at an object's center.
func FromObject(l *layout.Layout, id string, opts ...Option) (Path, error) {
	o, found := l.FindObject(id)
	if !found {
		return Path{}, errors.New(errors.ErrCodeObjectNotFound, "no object with id %q", id)
	}
	return ToExit(l, o.Center(), opts...)
}

// AllSeats computes the escape route for every seating-category object.
// The result maps object id to its path; objects with no route are
// reported in the second map instead.
func AllSeats(l *layout.Layout, opts ...Option) (map[string]Path, map[string]error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.grid == nil {
		cfg.grid = BuildGrid(l, cfg.cellSize)
		opts = append(opts, WithGrid(cfg.grid))
	}

	paths := make(map[string]Path)
	failed := make(map[string]error)
	for i := range l.Objects {
		o := &l.Objects[i]
		if !isSeat(o) {
			continue
		}
		p, err := ToExit(l, o.Center(), opts...)
		if err != nil {
			failed[o.ID] = err
			continue
		}
		paths[o.ID] = p
	}
	return paths, failed
}

func isSeat(o *layout.Object) bool {
	return catalog.Lookup(o.TypeTag()).Category == catalog.CategorySeating
}
