// Package catalog is the registry of known object types. Type tags in
// layout documents are open strings, so the registry is advisory: known
// tags resolve to rich defaults, unknown tags fall back to a generic
// entry and are never an error.
package catalog

import (
	"sort"
	"strings"
)

// Category groups object types by their role on the floor. Validation
// and rendering branch on the category rather than on individual types.
type Category string

const (
	CategoryFurniture      Category = "furniture"
	CategorySeating        Category = "seating"
	CategoryDecoration     Category = "decoration"
	CategoryInfrastructure Category = "infrastructure"
	CategoryOpening        Category = "opening"
	CategoryGeneric        Category = "generic"
)

// Info describes one entry in the type registry.
type Info struct {
	Type            string   `json:"type" bson:"type"`
	Label           string   `json:"label" bson:"label"`
	DefaultWidth    float64  `json:"default_width" bson:"default_width"`
	DefaultHeight   float64  `json:"default_height" bson:"default_height"`
	SpacingSameType float64  `json:"spacing_same_type" bson:"spacing_same_type"`
	SpacingOther    float64  `json:"spacing_other" bson:"spacing_other"`
	Category        Category `json:"category" bson:"category"`
	Walkable        bool     `json:"walkable" bson:"walkable"`
	Seats           int      `json:"seats" bson:"seats"`
}

// Canonical type tags for entries other packages branch on.
const (
	TypeDesk     = "desk"
	TypeChair    = "chair"
	TypeArmchair = "armchair"
	TypeWall     = "wall"
	TypeDoor     = "door"
	TypeExit     = "exit"
)

var registry = []Info{
	{Type: "desk", Label: "Desk", DefaultWidth: 120, DefaultHeight: 60, SpacingSameType: 50, SpacingOther: 30, Category: CategoryFurniture},
	{Type: "corner_desk", Label: "Corner Desk", DefaultWidth: 140, DefaultHeight: 140, SpacingSameType: 50, SpacingOther: 30, Category: CategoryFurniture},
	{Type: "chair", Label: "Chair", DefaultWidth: 40, DefaultHeight: 40, SpacingSameType: 20, SpacingOther: 20, Category: CategorySeating, Seats: 1},
	{Type: "armchair", Label: "Armchair", DefaultWidth: 60, DefaultHeight: 60, SpacingSameType: 20, SpacingOther: 20, Category: CategorySeating, Seats: 1},
	{Type: "sofa", Label: "Sofa", DefaultWidth: 180, DefaultHeight: 80, SpacingSameType: 20, SpacingOther: 20, Category: CategorySeating, Seats: 2},
	{Type: "table", Label: "Table", DefaultWidth: 120, DefaultHeight: 80, SpacingSameType: 40, SpacingOther: 30, Category: CategoryFurniture},
	{Type: "simple_table", Label: "Simple Table", DefaultWidth: 100, DefaultHeight: 60, SpacingSameType: 40, SpacingOther: 30, Category: CategoryFurniture},
	{Type: "coffee_table", Label: "Coffee Table", DefaultWidth: 60, DefaultHeight: 60, SpacingSameType: 20, SpacingOther: 20, Category: CategoryFurniture},
	{Type: "dining_table", Label: "Dining Table", DefaultWidth: 160, DefaultHeight: 90, SpacingSameType: 40, SpacingOther: 30, Category: CategoryFurniture},
	{Type: "meeting_table", Label: "Meeting Table", DefaultWidth: 200, DefaultHeight: 100, SpacingSameType: 50, SpacingOther: 40, Category: CategoryFurniture},
	{Type: "table_3_persons", Label: "Table 3 Persons", DefaultWidth: 120, DefaultHeight: 120, SpacingSameType: 40, SpacingOther: 30, Category: CategorySeating, Seats: 3},
	{Type: "pool_table", Label: "Pool Table", DefaultWidth: 250, DefaultHeight: 140, SpacingSameType: 40, SpacingOther: 40, Category: CategoryFurniture},
	{Type: "computer", Label: "Computer", DefaultWidth: 50, DefaultHeight: 40, SpacingSameType: 20, SpacingOther: 20, Category: CategoryInfrastructure},
	{Type: "printer", Label: "Printer", DefaultWidth: 50, DefaultHeight: 50, SpacingSameType: 20, SpacingOther: 20, Category: CategoryInfrastructure},
	{Type: "plant", Label: "Plant", DefaultWidth: 40, DefaultHeight: 40, SpacingSameType: 10, SpacingOther: 10, Category: CategoryDecoration},
	{Type: "sink", Label: "Sink", DefaultWidth: 60, DefaultHeight: 50, SpacingSameType: 20, SpacingOther: 20, Category: CategoryInfrastructure},
	{Type: "washbasin", Label: "Washbasin", DefaultWidth: 50, DefaultHeight: 40, SpacingSameType: 20, SpacingOther: 20, Category: CategoryInfrastructure},
	{Type: "toilet", Label: "Toilet", DefaultWidth: 70, DefaultHeight: 45, SpacingSameType: 20, SpacingOther: 20, Category: CategoryInfrastructure},
	{Type: "wall", Label: "Wall", DefaultWidth: 100, DefaultHeight: 10, Category: CategoryInfrastructure},
	{Type: "door", Label: "Door", DefaultWidth: 90, DefaultHeight: 10, Category: CategoryOpening, Walkable: true},
	{Type: "exit", Label: "Exit", DefaultWidth: 90, DefaultHeight: 10, Category: CategoryOpening, Walkable: true},
}

var byType = func() map[string]Info {
	m := make(map[string]Info, len(registry))
	for _, info := range registry {
		m[info.Type] = info
	}
	return m
}()

// Normalize maps a free-form type tag to its registry key: lowercased,
// trimmed, with spaces and dashes collapsed to underscores. "Desk",
// "desk" and "Meeting Table" all normalize to registry keys.
func Normalize(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.ReplaceAll(tag, " ", "_")
	tag = strings.ReplaceAll(tag, "-", "_")
	return tag
}

// Lookup resolves a type tag to its registry entry. Unknown tags return
// a generic entry carrying the tag itself, so callers never need to
// special-case missing types.
func Lookup(tag string) Info {
	if info, ok := byType[Normalize(tag)]; ok {
		return info
	}
	return Info{
		Type:            Normalize(tag),
		Label:           tag,
		DefaultWidth:    50,
		DefaultHeight:   50,
		SpacingSameType: 0,
		SpacingOther:    0,
		Category:        CategoryGeneric,
		Seats:           1,
	}
}

// Known reports whether the tag has a registry entry.
func Known(tag string) bool {
	_, ok := byType[Normalize(tag)]
	return ok
}

// Types returns all registry entries sorted by type tag.
func Types() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// IsWall reports whether the tag names a wall segment. Walls get the
// centerline footprint treatment in collision and routing.
func IsWall(tag string) bool { return Normalize(tag) == TypeWall }

// IsDoor reports whether the tag names a door opening.
func IsDoor(tag string) bool { return Normalize(tag) == TypeDoor }

// IsExit reports whether the tag names an emergency exit.
func IsExit(tag string) bool { return Normalize(tag) == TypeExit }

// IsWalkable reports whether objects of this type can be walked
// through. Walkable objects are never collision obstacles.
func IsWalkable(tag string) bool { return Lookup(tag).Walkable }

// DefaultSize returns the registry footprint for a tag.
func DefaultSize(tag string) (w, h float64) {
	info := Lookup(tag)
	return info.DefaultWidth, info.DefaultHeight
}

// Seats returns how many people an object of this type seats. Unknown
// types count one occupant so capacity checks stay conservative.
func Seats(tag string) int {
	return Lookup(tag).Seats
}
