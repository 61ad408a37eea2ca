// Package place implements spatial edit operations on a layout:
// placement queries, checked moves and automatic positioning. All
// operations validate before they mutate, so a failed edit never leaves
// the layout half-changed.
package place

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
)

// Option tunes a placement query.
type Option func(*config)

type config struct {
	clearance float64
	exclude   string
	id        string
	at        *geometry.Point
	width     float64
	height    float64
	snap      bool
}

// WithClearance requires at least d units of edge distance between the
// candidate and every existing object.
func WithClearance(d float64) Option {
	return func(c *config) { c.clearance = d }
}

// Excluding skips the object with the given id during collision and
// clearance checks. Moves use it so an object never collides with its
// own old position.
func Excluding(id string) Option {
	return func(c *config) { c.exclude = id }
}

// WithID sets the id for a placed object instead of minting one.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// At pins a placed object to an exact position instead of scanning for
// a free spot.
func At(x, y float64) Option {
	return func(c *config) { c.at = &geometry.Point{X: x, Y: y} }
}

// WithSize overrides the catalog default footprint for a placed object.
func WithSize(w, h float64) Option {
	return func(c *config) { c.width = w; c.height = h }
}

// Snapped aligns a placed object's position to the layout grid.
func Snapped() Option {
	return func(c *config) { c.snap = true }
}

// Collides reports whether two footprints overlap. Touching edges do
// not collide, so furniture can sit flush.
func Collides(a, b geometry.Rect) bool {
	return a.Intersects(b)
}

// FitsInCanvas reports whether the footprint lies entirely on the
// canvas. Edges may touch the boundary.
func FitsInCanvas(r geometry.Rect, canvas geometry.Rect) bool {
	return canvas.Contains(r)
}

// DistanceBetween returns the edge-to-edge distance between two
// footprints; overlapping footprints have distance 0.
func DistanceBetween(a, b geometry.Rect) float64 {
	return geometry.DistanceRects(a, b)
}

// SnapToGrid rounds a position to the nearest multiple of the layout's
// grid size.
func SnapToGrid(l *layout.Layout, p geometry.Point) geometry.Point {
	return geometry.SnapPoint(p, l.Grid())
}

// CanPlace reports whether a footprint can go onto the layout, and if
// not, why. It checks canvas bounds, collisions against every
// non-walkable object's effective footprint, and the optional
// clearance. Placement is a query, so a negative answer is a reason
// string rather than an error.
func CanPlace(l *layout.Layout, r geometry.Rect, opts ...Option) (bool, string) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return canPlace(l, r, cfg)
}

func canPlace(l *layout.Layout, r geometry.Rect, cfg config) (bool, string) {
	r = r.Normalized()

	if !FitsInCanvas(r, l.CanvasRect()) {
		return false, fmt.Sprintf("footprint (%g, %g, %g, %g) is outside the %gx%g canvas",
			r.X, r.Y, r.Width, r.Height, l.CanvasSize.Width, l.CanvasSize.Height)
	}

	for i := range l.Objects {
		o := &l.Objects[i]
		if o.ID == cfg.exclude || o.Walkable() {
			continue
		}
		other := o.Rect()
		if Collides(r, other) {
			return false, fmt.Sprintf("collides with %q", o.ID)
		}
		if cfg.clearance > 0 && DistanceBetween(r, other) < cfg.clearance {
			return false, fmt.Sprintf("closer than %g to %q", cfg.clearance, o.ID)
		}
	}

	return true, ""
}

// Move repositions an object after checking the destination. The
// object's own footprint is excluded from the collision check. On
// failure the layout is untouched and the reason names the problem;
// an unknown id is reported in the reason as well.
func Move(l *layout.Layout, id string, x, y float64, opts ...Option) (bool, string) {
	o, found := l.FindObject(id)
	if !found {
		return false, fmt.Sprintf("no object with id %q", id)
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.exclude = id

	candidate := *o
	candidate.SetPosition(x, y)

	if ok, reason := canPlace(l, candidate.Rect(), cfg); !ok {
		return false, reason
	}

	o.SetPosition(x, y)
	return true, ""
}

// Place adds a new object of the given type to the layout. Without an
// explicit position it scans for the first free spot; without an
// explicit id it mints one from the type tag and a fresh UUID. The
// returned pointer aliases the layout's object list.
func Place(l *layout.Layout, typeTag string, opts ...Option) (*layout.Object, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := errors.ValidateTypeTag(typeTag); err != nil {
		return nil, err
	}

	w, h := cfg.width, cfg.height
	if w <= 0 || h <= 0 {
		w, h = catalog.DefaultSize(typeTag)
	}

	var pos geometry.Point
	if cfg.at != nil {
		pos = *cfg.at
		if cfg.snap {
			pos = SnapToGrid(l, pos)
		}
		if ok, reason := canPlace(l, geometry.Rect{X: pos.X, Y: pos.Y, Width: w, Height: h}, cfg); !ok {
			return nil, errors.New(errors.ErrCodePlacementBlocked, "cannot place %s at (%g, %g): %s", typeTag, pos.X, pos.Y, reason)
		}
	} else {
		free, found := NextFreePosition(l, w, h, WithClearance(cfg.clearance))
		if !found {
			return nil, errors.New(errors.ErrCodePlacementBlocked, "no free position for a %gx%g %s", w, h, typeTag)
		}
		pos = free
	}

	id := cfg.id
	if id == "" {
		id = mintID(typeTag)
	}

	o := layout.Object{
		ID:     id,
		Type:   typeTag,
		X:      pos.X,
		Y:      pos.Y,
		Width:  w,
		Height: h,
	}
	if err := l.AddObject(o); err != nil {
		return nil, err
	}
	placed, _ := l.FindObject(id)
	return placed, nil
}

// NextFreePosition scans the canvas in reading order for the first
// grid-aligned spot where a w by h footprint fits. The scan respects
// the optional clearance, so auto-placed furniture lands with the same
// margins a manual placement would need.
func NextFreePosition(l *layout.Layout, w, h float64, opts ...Option) (geometry.Point, bool) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	step := l.Grid()
	for y := 0.0; y+h <= l.CanvasSize.Height; y += step {
		for x := 0.0; x+w <= l.CanvasSize.Width; x += step {
			r := geometry.Rect{X: x, Y: y, Width: w, Height: h}
			if ok, _ := canPlace(l, r, cfg); ok {
				return geometry.Point{X: x, Y: y}, true
			}
		}
	}
	return geometry.Point{}, false
}

// ArrangeRow re-flows the named objects into a left-to-right row
// starting at origin, wrapping to a new row at the canvas edge. The
// arrangement is validated as a whole before any object moves.
func ArrangeRow(l *layout.Layout, ids []string, origin geometry.Point, gap float64) error {
	work := l.Clone()

	// Lift the row objects off the working copy so they do not block
	// their own destinations.
	for _, id := range ids {
		if _, found := work.FindObject(id); !found {
			return errors.New(errors.ErrCodeObjectNotFound, "no object with id %q", id)
		}
		if err := work.RemoveObject(id); err != nil {
			return err
		}
	}

	type target struct {
		id   string
		x, y float64
	}
	var targets []target

	x, y := origin.X, origin.Y
	rowHeight := 0.0
	for _, id := range ids {
		o, _ := l.FindObject(id)
		if x+o.Width > l.CanvasSize.Width {
			x = origin.X
			y += rowHeight + gap
			rowHeight = 0
		}
		r := geometry.Rect{X: x, Y: y, Width: o.Width, Height: o.Height}
		if ok, reason := CanPlace(work, r); !ok {
			return errors.New(errors.ErrCodePlacementBlocked, "cannot arrange %q: %s", id, reason)
		}
		if err := work.AddObject(layout.Object{ID: o.ID, Type: o.Type, X: x, Y: y, Width: o.Width, Height: o.Height, Rotation: o.Rotation, Meta: o.Meta}); err != nil {
			return err
		}
		targets = append(targets, target{id: id, x: x, y: y})
		x += o.Width + gap
		if o.Height > rowHeight {
			rowHeight = o.Height
		}
	}

	// The whole arrangement fits; apply it to the real layout.
	for _, tg := range targets {
		o, _ := l.FindObject(tg.id)
		o.SetPosition(tg.x, tg.y)
	}
	return nil
}

func mintID(typeTag string) string {
	return fmt.Sprintf("%s-%s", catalog.Normalize(typeTag), uuid.NewString()[:8])
}
