// Package rules defines the spacing, safety and occupancy thresholds
// that layout audits check against. The built-in defaults suit a
// standard open-plan office; deployments override them with a TOML file.
package rules

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/errors"
)

// Ruleset holds every tunable threshold. The zero value is not usable;
// start from [Default] or [Load].
type Ruleset struct {
	Spacing  SpacingRules  `toml:"spacing" json:"spacing"`
	Safety   SafetyRules   `toml:"safety" json:"safety"`
	Capacity CapacityRules `toml:"capacity" json:"capacity"`
}

// SpacingRules sets the minimum edge-to-edge distance between objects
// of the same type.
type SpacingRules struct {
	DeskToDesk         float64 `toml:"desk_to_desk" json:"desk_to_desk"`
	ChairToChair       float64 `toml:"chair_to_chair" json:"chair_to_chair"`
	ArmchairToArmchair float64 `toml:"armchair_to_armchair" json:"armchair_to_armchair"`
}

// SafetyRules sets wall clearances and corridor requirements.
type SafetyRules struct {
	DeskToWall    float64 `toml:"desk_to_wall" json:"desk_to_wall"`
	ChairToWall   float64 `toml:"chair_to_wall" json:"chair_to_wall"`
	CorridorWidth float64 `toml:"corridor_width" json:"corridor_width"`
}

// CapacityRules bounds how many people a floor may hold.
type CapacityRules struct {
	PersonsPerUnitArea float64 `toml:"persons_per_unit_area" json:"persons_per_unit_area"`
	MaxRoomCapacity    int     `toml:"max_room_capacity" json:"max_room_capacity"`
}

// Default returns the standard office ruleset.
func Default() Ruleset {
	return Ruleset{
		Spacing: SpacingRules{
			DeskToDesk:         150,
			ChairToChair:       80,
			ArmchairToArmchair: 100,
		},
		Safety: SafetyRules{
			DeskToWall:    50,
			ChairToWall:   40,
			CorridorWidth: 90,
		},
		Capacity: CapacityRules{
			PersonsPerUnitArea: 0.0025,
			MaxRoomCapacity:    20,
		},
	}
}

// Load reads a TOML ruleset file. Missing keys keep their default
// values; unknown keys are rejected so typos fail loudly instead of
// silently reverting a threshold.
func Load(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Ruleset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "rules file not found: %s", path)
		}
		return Ruleset{}, errors.Wrap(errors.ErrCodeInvalidRules, err, "failed to read rules file: %s", path)
	}

	rs := Default()
	meta, err := toml.Decode(string(data), &rs)
	if err != nil {
		return Ruleset{}, errors.Wrap(errors.ErrCodeInvalidRules, err, "failed to parse rules file: %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Ruleset{}, errors.New(errors.ErrCodeInvalidRules, "unknown rules key: %s", undecoded[0].String())
	}

	if err := rs.Validate(); err != nil {
		return Ruleset{}, err
	}
	return rs, nil
}

// Validate checks that every threshold is non-negative.
func (rs Ruleset) Validate() error {
	thresholds := []struct {
		name  string
		value float64
	}{
		{"spacing.desk_to_desk", rs.Spacing.DeskToDesk},
		{"spacing.chair_to_chair", rs.Spacing.ChairToChair},
		{"spacing.armchair_to_armchair", rs.Spacing.ArmchairToArmchair},
		{"safety.desk_to_wall", rs.Safety.DeskToWall},
		{"safety.chair_to_wall", rs.Safety.ChairToWall},
		{"safety.corridor_width", rs.Safety.CorridorWidth},
		{"capacity.persons_per_unit_area", rs.Capacity.PersonsPerUnitArea},
		{"capacity.max_room_capacity", float64(rs.Capacity.MaxRoomCapacity)},
	}

	for _, t := range thresholds {
		if t.value < 0 {
			return errors.New(errors.ErrCodeInvalidRules, "%s must not be negative, got %v", t.name, t.value)
		}
	}
	return nil
}

// SpacingFor returns the minimum same-type distance for a type tag, or
// 0 when no rule applies.
func (rs Ruleset) SpacingFor(tag string) float64 {
	switch catalog.Normalize(tag) {
	case catalog.TypeDesk:
		return rs.Spacing.DeskToDesk
	case catalog.TypeChair:
		return rs.Spacing.ChairToChair
	case catalog.TypeArmchair:
		return rs.Spacing.ArmchairToArmchair
	}
	return 0
}

// WallClearanceFor returns the minimum distance from a type tag to any
// wall, or 0 when no rule applies.
func (rs Ruleset) WallClearanceFor(tag string) float64 {
	switch catalog.Normalize(tag) {
	case catalog.TypeDesk:
		return rs.Safety.DeskToWall
	case catalog.TypeChair:
		return rs.Safety.ChairToWall
	}
	return 0
}

// MaxOccupants returns how many people an area may hold. Non-positive
// areas hold nobody; MaxRoomCapacity caps the density-derived count
// when set.
func (rs Ruleset) MaxOccupants(area float64) int {
	if area <= 0 {
		return 0
	}
	n := int(area * rs.Capacity.PersonsPerUnitArea)
	if rs.Capacity.MaxRoomCapacity > 0 && n > rs.Capacity.MaxRoomCapacity {
		n = rs.Capacity.MaxRoomCapacity
	}
	return n
}
