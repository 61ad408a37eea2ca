package validate

import (
	"strings"
	"testing"

	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/rules"
)

func floor(t *testing.T, width, height float64) *layout.Layout {
	t.Helper()
	l := layout.New("Audit Floor", width, height)
	l.GridSize = 10
	return l
}

func add(t *testing.T, l *layout.Layout, id, typ string, x, y, w, h float64) {
	t.Helper()
	err := l.AddObject(layout.Object{ID: id, Type: typ, X: x, Y: y, Width: w, Height: h})
	if err != nil {
		t.Fatalf("AddObject(%s) error = %v", id, err)
	}
}

func TestCheckCleanLayout(t *testing.T) {
	l := floor(t, 900, 600)
	add(t, l, "desk_1", "desk", 100, 100, 120, 60)
	add(t, l, "chair_1", "chair", 400, 400, 40, 40)

	report := Check(l, rules.Default())
	if !report.OK() {
		t.Fatalf("Check() issues = %v, want none", report.Issues)
	}
	if got := report.String(); got != "no issues" {
		t.Errorf("String() = %q, want %q", got, "no issues")
	}
}

func TestCheckOutOfBounds(t *testing.T) {
	l := floor(t, 100, 100)
	add(t, l, "desk_1", "desk", 90, 90, 20, 20)

	report := Check(l, rules.Default())
	issues := report.ByCode(CodeOutOfBounds)
	if len(issues) != 1 {
		t.Fatalf("ByCode(OUT_OF_BOUNDS) = %v, want one issue", issues)
	}
	if issues[0].ObjectID != "desk_1" {
		t.Errorf("ObjectID = %q, want %q", issues[0].ObjectID, "desk_1")
	}
}

func TestCheckObjectOnBoundaryIsInBounds(t *testing.T) {
	l := floor(t, 100, 100)
	add(t, l, "desk_1", "desk", 80, 80, 20, 20)

	report := Check(l, rules.Default())
	if issues := report.ByCode(CodeOutOfBounds); len(issues) != 0 {
		t.Errorf("ByCode(OUT_OF_BOUNDS) = %v, want none", issues)
	}
}

func TestCheckCollision(t *testing.T) {
	l := floor(t, 400, 400)
	add(t, l, "desk_1", "desk", 0, 0, 120, 60)
	add(t, l, "desk_2", "desk", 60, 30, 120, 60)

	report := Check(l, rules.Default())
	issues := report.ByCode(CodeCollision)
	if len(issues) != 1 {
		t.Fatalf("ByCode(COLLISION) = %v, want one issue", issues)
	}
	if issues[0].ObjectID != "desk_1" {
		t.Errorf("ObjectID = %q, want %q", issues[0].ObjectID, "desk_1")
	}
	if !strings.Contains(issues[0].Message, "desk_2") {
		t.Errorf("Message = %q, want it to name desk_2", issues[0].Message)
	}
}

func TestCheckTouchingEdgesDoNotCollide(t *testing.T) {
	l := floor(t, 200, 200)
	add(t, l, "plant_1", "plant", 0, 0, 40, 40)
	add(t, l, "plant_2", "plant", 40, 0, 40, 40)

	report := Check(l, rules.Default())
	if !report.OK() {
		t.Errorf("Check() issues = %v, want none for touching edges", report.Issues)
	}
}

func TestCheckWallsMayCross(t *testing.T) {
	l := floor(t, 200, 200)
	add(t, l, "wall_1", "wall", 0, 50, 200, 10)
	add(t, l, "wall_2", "wall", 100, 0, 10, 200)

	report := Check(l, rules.Default())
	if issues := report.ByCode(CodeCollision); len(issues) != 0 {
		t.Errorf("ByCode(COLLISION) = %v, want none for crossing walls", issues)
	}
}

func TestCheckWallFootprintUsesCenterline(t *testing.T) {
	// The wall segment runs along y=20 with thickness 10, so its
	// footprint spans y in [15, 25). A desk ending at y=24 overlaps it
	// even though the raw rectangles do not touch.
	l := floor(t, 100, 100)
	add(t, l, "wall_1", "wall", 0, 20, 100, 10)
	add(t, l, "desk_1", "desk", 10, 14, 10, 10)

	report := Check(l, rules.Default())
	issues := report.ByCode(CodeCollision)
	if len(issues) != 1 {
		t.Fatalf("ByCode(COLLISION) = %v, want one issue", issues)
	}
	if !strings.Contains(issues[0].Message, "wall_1") {
		t.Errorf("Message = %q, want it to name wall_1", issues[0].Message)
	}
	if clearance := report.ByCode(CodeDistanceTooSmall); len(clearance) == 0 {
		t.Error("ByCode(DISTANCE_TOO_SMALL) empty, want a wall clearance issue too")
	}
}

func TestCheckSpacingSameType(t *testing.T) {
	l := floor(t, 400, 100)
	add(t, l, "desk_1", "desk", 0, 0, 20, 20)
	add(t, l, "desk_2", "desk", 60, 0, 20, 20)

	report := Check(l, rules.Default())
	issues := report.ByCode(CodeDistanceTooSmall)
	if len(issues) != 1 {
		t.Fatalf("ByCode(DISTANCE_TOO_SMALL) = %v, want one issue", issues)
	}
	if !strings.Contains(issues[0].Message, "40") || !strings.Contains(issues[0].Message, "150") {
		t.Errorf("Message = %q, want distance 40 and minimum 150", issues[0].Message)
	}
}

func TestCheckSpacingSatisfied(t *testing.T) {
	l := floor(t, 400, 100)
	add(t, l, "desk_1", "desk", 0, 0, 20, 20)
	add(t, l, "desk_2", "desk", 220, 0, 20, 20)

	report := Check(l, rules.Default())
	if !report.OK() {
		t.Errorf("Check() issues = %v, want none at distance 200", report.Issues)
	}
}

func TestCheckWallClearance(t *testing.T) {
	l := floor(t, 300, 100)
	add(t, l, "wall_1", "wall", 0, 50, 300, 10)
	add(t, l, "chair_1", "chair", 10, 0, 40, 40)

	report := Check(l, rules.Default())
	if issues := report.ByCode(CodeCollision); len(issues) != 0 {
		t.Fatalf("ByCode(COLLISION) = %v, want none", issues)
	}
	issues := report.ByCode(CodeDistanceTooSmall)
	if len(issues) != 1 {
		t.Fatalf("ByCode(DISTANCE_TOO_SMALL) = %v, want one issue", issues)
	}
	if issues[0].ObjectID != "chair_1" {
		t.Errorf("ObjectID = %q, want %q", issues[0].ObjectID, "chair_1")
	}
	if !strings.Contains(issues[0].Message, "wall_1") {
		t.Errorf("Message = %q, want it to name wall_1", issues[0].Message)
	}
}

func TestCheckOverCrowding(t *testing.T) {
	rs := rules.Default()
	rs.Capacity.PersonsPerUnitArea = 0.00005 // capacity 1 on a 200x100 floor

	l := floor(t, 200, 100)
	add(t, l, "chair_1", "chair", 0, 0, 10, 10)
	add(t, l, "chair_2", "chair", 100, 0, 10, 10)

	report := Check(l, rs)
	issues := report.ByCode(CodeOverCrowding)
	if len(issues) != 1 {
		t.Fatalf("ByCode(OVER_CROWDING) = %v, want one issue", issues)
	}
	if issues[0].ObjectID != "" {
		t.Errorf("ObjectID = %q, want empty for a floor-level issue", issues[0].ObjectID)
	}
	if !strings.Contains(issues[0].Message, "2 occupants") {
		t.Errorf("Message = %q, want occupant count 2", issues[0].Message)
	}
}

func TestCheckUnknownTypesCountOneOccupant(t *testing.T) {
	rs := rules.Default()
	rs.Capacity.PersonsPerUnitArea = 0.00005

	l := floor(t, 200, 100)
	add(t, l, "bag_1", "beanbag", 0, 0, 10, 10)
	add(t, l, "bag_2", "beanbag", 100, 0, 10, 10)

	report := Check(l, rs)
	if issues := report.ByCode(CodeOverCrowding); len(issues) != 1 {
		t.Errorf("ByCode(OVER_CROWDING) = %v, want one issue for two unknown objects", issues)
	}
}

func TestCheckDesksDoNotCount(t *testing.T) {
	rs := rules.Default()
	rs.Capacity.PersonsPerUnitArea = 0.00005

	l := floor(t, 200, 100)
	add(t, l, "desk_1", "desk", 0, 0, 10, 10)
	add(t, l, "desk_2", "desk", 180, 80, 10, 10)

	report := Check(l, rs)
	if issues := report.ByCode(CodeOverCrowding); len(issues) != 0 {
		t.Errorf("ByCode(OVER_CROWDING) = %v, want none for unseated furniture", issues)
	}
}

func TestCheckNoPathToExit(t *testing.T) {
	l := floor(t, 200, 100)
	add(t, l, "wall_1", "wall", 100, 0, 10, 100)
	add(t, l, "chair_1", "chair", 10, 10, 10, 10)
	l.Exits = []geometry.Point{{X: 190, Y: 20}}

	report := Check(l, rules.Default())
	issues := report.ByCode(CodeNoPathToExit)
	if len(issues) != 1 {
		t.Fatalf("ByCode(NO_PATH_TO_EXIT) = %v, want one issue", issues)
	}
	if issues[0].ObjectID != "chair_1" {
		t.Errorf("ObjectID = %q, want %q", issues[0].ObjectID, "chair_1")
	}
}

func TestCheckDoorRestoresEscapeRoute(t *testing.T) {
	l := floor(t, 200, 100)
	add(t, l, "wall_1", "wall", 100, 0, 10, 100)
	add(t, l, "door_1", "door", 95, 15, 10, 10)
	add(t, l, "chair_1", "chair", 10, 10, 10, 10)
	l.Exits = []geometry.Point{{X: 190, Y: 20}}

	report := Check(l, rules.Default())
	if issues := report.ByCode(CodeNoPathToExit); len(issues) != 0 {
		t.Errorf("ByCode(NO_PATH_TO_EXIT) = %v, want none with a door in the wall", issues)
	}
}

func TestCheckNoExitsSkipsReachability(t *testing.T) {
	l := floor(t, 200, 100)
	add(t, l, "wall_1", "wall", 100, 0, 10, 100)
	add(t, l, "chair_1", "chair", 10, 10, 10, 10)

	report := Check(l, rules.Default())
	if issues := report.ByCode(CodeNoPathToExit); len(issues) != 0 {
		t.Errorf("ByCode(NO_PATH_TO_EXIT) = %v, want none without exits", issues)
	}
}

func TestReportString(t *testing.T) {
	report := Report{Issues: []Issue{
		{Code: CodeOutOfBounds, ObjectID: "desk_1", Message: `"desk_1" extends outside the 100x100 canvas`},
		{Code: CodeCollision, ObjectID: "desk_1", Message: `"desk_1" overlaps "desk_2"`},
	}}

	got := report.String()
	if !strings.Contains(got, "[OUT_OF_BOUNDS]") || !strings.Contains(got, "[COLLISION]") {
		t.Errorf("String() = %q, want both codes rendered", got)
	}
	if lines := strings.Split(got, "\n"); len(lines) != 2 {
		t.Errorf("String() has %d lines, want 2", len(lines))
	}
}

func TestReportCounts(t *testing.T) {
	report := Report{Issues: []Issue{
		{Code: CodeCollision},
		{Code: CodeCollision},
		{Code: CodeOverCrowding},
	}}

	counts := report.Counts()
	if counts[CodeCollision] != 2 || counts[CodeOverCrowding] != 1 {
		t.Errorf("Counts() = %v, want 2 collisions and 1 overcrowding", counts)
	}
}
