// Package validate audits a floor plan against a ruleset. It assumes a
// structurally valid document (the layout package enforces the schema)
// and checks the plan itself: bounds, collisions, spacing, occupancy
// and escape routes. Findings come back as a [Report] rather than an
// error, since a layout with issues is still a perfectly loadable
// document.
package validate

import (
	"fmt"
	"strings"

	"github.com/planstack/floorplan/pkg/catalog"
	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/route"
	"github.com/planstack/floorplan/pkg/rules"
)

// Code classifies an audit finding.
type Code string

const (
	CodeOutOfBounds      Code = "OUT_OF_BOUNDS"
	CodeCollision        Code = "COLLISION"
	CodeDistanceTooSmall Code = "DISTANCE_TOO_SMALL"
	CodeOverCrowding     Code = "OVER_CROWDING"
	CodeNoPathToExit     Code = "NO_PATH_TO_EXIT"
)

// Issue is one audit finding. ObjectID names the primary offender;
// pairwise findings name the partner in the message.
type Issue struct {
	Code     Code   `json:"code" bson:"code"`
	ObjectID string `json:"object_id,omitempty" bson:"object_id,omitempty"`
	Message  string `json:"message" bson:"message"`
}

// Report is the result of one audit run. Issue order is deterministic:
// bounds, collisions, spacing, occupancy, reachability, each in object
// order.
type Report struct {
	Issues []Issue `json:"issues" bson:"issues"`
}

// OK reports whether the audit found nothing.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// ByCode returns the findings with the given code, in report order.
func (r Report) ByCode(code Code) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

// Counts returns the number of findings per code.
func (r Report) Counts() map[Code]int {
	counts := make(map[Code]int)
	for _, issue := range r.Issues {
		counts[issue.Code]++
	}
	return counts
}

// String renders the report for terminal output.
func (r Report) String() string {
	if r.OK() {
		return "no issues"
	}
	var b strings.Builder
	for i, issue := range r.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %s", issue.Code, issue.Message)
	}
	return b.String()
}

// Check audits a layout against a ruleset.
func Check(l *layout.Layout, rs rules.Ruleset) Report {
	var report Report

	checkBounds(l, &report)
	checkCollisions(l, &report)
	checkSpacing(l, rs, &report)
	checkOccupancy(l, rs, &report)
	checkReachability(l, &report)

	return report
}

// checkBounds flags every object whose effective footprint leaves the
// canvas. Edges may touch the boundary.
func checkBounds(l *layout.Layout, report *Report) {
	canvas := l.CanvasRect()
	for i := range l.Objects {
		o := &l.Objects[i]
		if !canvas.Contains(o.Rect()) {
			report.Issues = append(report.Issues, Issue{
				Code:     CodeOutOfBounds,
				ObjectID: o.ID,
				Message:  fmt.Sprintf("%q extends outside the %gx%g canvas", o.ID, l.CanvasSize.Width, l.CanvasSize.Height),
			})
		}
	}
}

// checkCollisions flags overlapping footprints. Walkable objects are
// never obstacles, and wall segments may cross each other freely since
// joints and corners overlap by construction.
func checkCollisions(l *layout.Layout, report *Report) {
	for i := range l.Objects {
		a := &l.Objects[i]
		if a.Walkable() {
			continue
		}
		for j := i + 1; j < len(l.Objects); j++ {
			b := &l.Objects[j]
			if b.Walkable() {
				continue
			}
			if catalog.IsWall(a.TypeTag()) && catalog.IsWall(b.TypeTag()) {
				continue
			}
			if a.Rect().Intersects(b.Rect()) {
				report.Issues = append(report.Issues, Issue{
					Code:     CodeCollision,
					ObjectID: a.ID,
					Message:  fmt.Sprintf("%q overlaps %q", a.ID, b.ID),
				})
			}
		}
	}
}

// checkSpacing flags same-type pairs closer than their ruleset
// threshold, and objects closer to a wall than their clearance.
func checkSpacing(l *layout.Layout, rs rules.Ruleset, report *Report) {
	for i := range l.Objects {
		a := &l.Objects[i]
		threshold := rs.SpacingFor(a.TypeTag())
		if threshold <= 0 {
			continue
		}
		for j := i + 1; j < len(l.Objects); j++ {
			b := &l.Objects[j]
			if catalog.Normalize(a.TypeTag()) != catalog.Normalize(b.TypeTag()) {
				continue
			}
			if d := geometry.DistanceRects(a.Rect(), b.Rect()); d < threshold {
				report.Issues = append(report.Issues, Issue{
					Code:     CodeDistanceTooSmall,
					ObjectID: a.ID,
					Message:  fmt.Sprintf("%q and %q are %.0f apart, minimum is %.0f", a.ID, b.ID, d, threshold),
				})
			}
		}
	}

	for i := range l.Objects {
		o := &l.Objects[i]
		clearance := rs.WallClearanceFor(o.TypeTag())
		if clearance <= 0 {
			continue
		}
		for j := range l.Objects {
			w := &l.Objects[j]
			if !catalog.IsWall(w.TypeTag()) {
				continue
			}
			if d := geometry.DistanceRects(o.Rect(), w.Rect()); d < clearance {
				report.Issues = append(report.Issues, Issue{
					Code:     CodeDistanceTooSmall,
					ObjectID: o.ID,
					Message:  fmt.Sprintf("%q is %.0f from wall %q, minimum is %.0f", o.ID, d, w.ID, clearance),
				})
			}
		}
	}
}

// checkOccupancy compares seated occupants against the capacity the
// ruleset derives from the canvas area. Objects the catalog does not
// know count one occupant each, so unknown furniture errs on the safe
// side.
func checkOccupancy(l *layout.Layout, rs rules.Ruleset, report *Report) {
	occupants := 0
	for i := range l.Objects {
		occupants += catalog.Seats(l.Objects[i].TypeTag())
	}

	capacity := rs.MaxOccupants(l.Area())
	if occupants > capacity {
		report.Issues = append(report.Issues, Issue{
			Code:    CodeOverCrowding,
			Message: fmt.Sprintf("%d occupants exceed the capacity of %d for a %gx%g floor", occupants, capacity, l.CanvasSize.Width, l.CanvasSize.Height),
		})
	}
}

// checkReachability verifies every seat can reach an exit. Layouts
// without exits skip the check entirely; a plan is allowed to model a
// space where escape routing is out of scope.
func checkReachability(l *layout.Layout, report *Report) {
	if len(l.ExitPoints()) == 0 {
		return
	}

	grid := route.BuildGrid(l, 0)
	for i := range l.Objects {
		o := &l.Objects[i]
		if catalog.Lookup(o.TypeTag()).Category != catalog.CategorySeating {
			continue
		}
		if _, err := route.ToExit(l, o.Center(), route.WithGrid(grid)); err != nil {
			report.Issues = append(report.Issues, Issue{
				Code:     CodeNoPathToExit,
				ObjectID: o.ID,
				Message:  fmt.Sprintf("%q cannot reach any exit", o.ID),
			})
		}
	}
}
