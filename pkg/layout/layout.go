package layout

import (
	"maps"
	"math"
	"time"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/geometry"
)

// CurrentVersion is the schema version written by this package.
// Documents without a version field are treated as version 1.
const CurrentVersion = 1

// DefaultGridSize is the snap and routing grid used when a document
// does not set grid_size.
const DefaultGridSize = 50

// Layout is a complete floor plan document. Struct order matches the
// serialized field order, so documents marshal deterministically.
type Layout struct {
	Version    int              `json:"version" bson:"version"`
	Name       string           `json:"layout_name" bson:"layout_name"`
	CanvasSize Size             `json:"canvas_size" bson:"canvas_size"`
	GridSize   float64          `json:"grid_size,omitempty" bson:"grid_size,omitempty" validate:"gte=0"`
	Objects    []Object         `json:"objects" bson:"objects" validate:"dive"`
	Exits      []geometry.Point `json:"exits,omitempty" bson:"exits,omitempty"`
	Metadata   Metadata         `json:"metadata" bson:"metadata"`
}

// Size is the canvas extent in canvas units.
type Size struct {
	Width  float64 `json:"width" bson:"width" validate:"gt=0"`
	Height float64 `json:"height" bson:"height" validate:"gt=0"`
}

// Object is one placed item on the floor. X and Y anchor the top-left
// corner; Rotation is in degrees and always normalized to [0, 360).
type Object struct {
	ID       string         `json:"id" bson:"id"`
	Type     string         `json:"type" bson:"type"`
	X        float64        `json:"x" bson:"x"`
	Y        float64        `json:"y" bson:"y"`
	Width    float64        `json:"width" bson:"width" validate:"gte=0"`
	Height   float64        `json:"height" bson:"height" validate:"gte=0"`
	Rotation float64        `json:"rotation" bson:"rotation" validate:"gte=0,lt=360"`
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Metadata carries document provenance. CreatedAt is an ISO-8601
// timestamp by convention but is stored as an opaque string.
type Metadata struct {
	Author      string `json:"author" bson:"author"`
	CreatedAt   string `json:"created_at" bson:"created_at"`
	Description string `json:"description" bson:"description"`
}

// New returns an empty layout with the current schema version and a
// fresh creation timestamp.
func New(name string, width, height float64) *Layout {
	return &Layout{
		Version:    CurrentVersion,
		Name:       name,
		CanvasSize: Size{Width: width, Height: height},
		Objects:    []Object{},
		Metadata: Metadata{
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// Grid returns the effective grid size: the document's grid_size, or
// [DefaultGridSize] when unset.
func (l *Layout) Grid() float64 {
	if l.GridSize > 0 {
		return l.GridSize
	}
	return DefaultGridSize
}

// Area returns the canvas area.
func (l *Layout) Area() float64 {
	return l.CanvasSize.Width * l.CanvasSize.Height
}

// CanvasRect returns the canvas as a rectangle anchored at the origin.
func (l *Layout) CanvasRect() geometry.Rect {
	return geometry.Rect{Width: l.CanvasSize.Width, Height: l.CanvasSize.Height}
}

// FindObject returns a pointer to the object with the given id. The
// pointer aliases the layout's backing slice, so edits through it are
// edits to the layout.
func (l *Layout) FindObject(id string) (*Object, bool) {
	for i := range l.Objects {
		if l.Objects[i].ID == id {
			return &l.Objects[i], true
		}
	}
	return nil, false
}

// AddObject appends an object after checking its fields and id
// uniqueness. It does not check spatial constraints; that is the
// placement layer's job.
func (l *Layout) AddObject(o Object) error {
	if err := errors.ValidateObjectID(o.ID); err != nil {
		return err
	}
	if err := errors.ValidateTypeTag(o.Type); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "object %q size must not be negative", o.ID)
	}
	if _, exists := l.FindObject(o.ID); exists {
		return errors.New(errors.ErrCodeInvalidLayout, "duplicate object id: %q", o.ID)
	}
	o.Rotation = normalizeAngle(o.Rotation)
	l.Objects = append(l.Objects, o)
	return nil
}

// RemoveObject deletes the object with the given id, preserving the
// order of the remaining objects.
func (l *Layout) RemoveObject(id string) error {
	for i := range l.Objects {
		if l.Objects[i].ID == id {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeObjectNotFound, "no object with id %q", id)
}

// ObjectsByType returns pointers to every object whose type tag
// resolves to the same catalog entry as tag.
func (l *Layout) ObjectsByType(tag string) []*Object {
	want := catalog.Normalize(tag)
	var out []*Object
	for i := range l.Objects {
		if catalog.Normalize(l.Objects[i].TypeTag()) == want {
			out = append(out, &l.Objects[i])
		}
	}
	return out
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	cp := *l
	if l.Objects != nil {
		cp.Objects = make([]Object, len(l.Objects))
		copy(cp.Objects, l.Objects)
		for i := range cp.Objects {
			if m := l.Objects[i].Meta; m != nil {
				cp.Objects[i].Meta = maps.Clone(m)
			}
		}
	}
	if l.Exits != nil {
		cp.Exits = make([]geometry.Point, len(l.Exits))
		copy(cp.Exits, l.Exits)
	}
	return &cp
}

// NormalizeRotations wraps every object's rotation into [0, 360).
func (l *Layout) NormalizeRotations() {
	for i := range l.Objects {
		l.Objects[i].Rotation = normalizeAngle(l.Objects[i].Rotation)
	}
}

// ExitPoints returns every escape target: the document's explicit exit
// points plus the center of every exit-type object.
func (l *Layout) ExitPoints() []geometry.Point {
	points := make([]geometry.Point, 0, len(l.Exits))
	points = append(points, l.Exits...)
	for i := range l.Objects {
		if catalog.IsExit(l.Objects[i].TypeTag()) {
			points = append(points, l.Objects[i].Rect().Center())
		}
	}
	return points
}

// TypeTag returns the tag used for catalog resolution. A ui_type entry
// in the object's meta overrides the declared type, which lets editors
// restyle an object without changing its identity.
func (o *Object) TypeTag() string {
	if o.Meta != nil {
		if ut, ok := o.Meta["ui_type"].(string); ok && ut != "" {
			return ut
		}
	}
	return o.Type
}

// Rect returns the object's effective footprint. Walls are stored by
// their centerline: the thickness is the smaller dimension, and the
// footprint straddles the anchor axis. Horizontal walls (width >=
// height) occupy (x, y-t/2, width, t); vertical walls occupy
// (x-t/2, y, t, height). Every other object occupies its plain
// top-left-anchored rectangle.
func (o *Object) Rect() geometry.Rect {
	if catalog.IsWall(o.TypeTag()) {
		t := math.Min(o.Width, o.Height)
		if o.Width >= o.Height {
			return geometry.Rect{X: o.X, Y: o.Y - t/2, Width: o.Width, Height: t}.Normalized()
		}
		return geometry.Rect{X: o.X - t/2, Y: o.Y, Width: t, Height: o.Height}.Normalized()
	}
	return geometry.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}.Normalized()
}

// Center returns the midpoint of the object's effective footprint.
func (o *Object) Center() geometry.Point {
	return o.Rect().Center()
}

// SetPosition moves the object's anchor.
func (o *Object) SetPosition(x, y float64) {
	o.X = x
	o.Y = y
}

// Walkable reports whether the object can be walked through.
func (o *Object) Walkable() bool {
	return catalog.IsWalkable(o.TypeTag())
}

func normalizeAngle(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r == 0 {
		return 0 // collapse -0
	}
	return r
}
