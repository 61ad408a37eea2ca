package place

import (
	"math"
	"strings"
	"testing"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/geometry"
	"github.com/planstack/floorplan/pkg/layout"
)

func testLayout(t *testing.T, objects ...layout.Object) *layout.Layout {
	t.Helper()
	l := layout.New("Test Floor", 200, 100)
	for _, o := range objects {
		if err := l.AddObject(o); err != nil {
			t.Fatalf("AddObject(%s): %v", o.ID, err)
		}
	}
	return l
}

func TestCollides(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 20, Height: 20}

	if !Collides(a, geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}) {
		t.Error("overlapping rects: Collides = false, want true")
	}
	if Collides(a, geometry.Rect{X: 20, Y: 0, Width: 20, Height: 20}) {
		t.Error("touching rects: Collides = true, want false")
	}
	if Collides(a, geometry.Rect{X: 50, Y: 50, Width: 20, Height: 20}) {
		t.Error("distant rects: Collides = true, want false")
	}
}

func TestFitsInCanvas(t *testing.T) {
	canvas := geometry.Rect{Width: 200, Height: 100}

	if !FitsInCanvas(geometry.Rect{X: 0, Y: 0, Width: 200, Height: 100}, canvas) {
		t.Error("full-canvas rect: FitsInCanvas = false, want true")
	}
	if FitsInCanvas(geometry.Rect{X: 190, Y: 90, Width: 20, Height: 20}, canvas) {
		t.Error("overhanging rect: FitsInCanvas = true, want false")
	}
}

func TestDistanceBetween(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}

	if got := DistanceBetween(a, geometry.Rect{X: 5, Y: 5, Width: 10, Height: 10}); got != 0 {
		t.Errorf("overlapping distance = %v, want 0", got)
	}
	if got := DistanceBetween(a, geometry.Rect{X: 20, Y: 0, Width: 10, Height: 10}); got != 10 {
		t.Errorf("horizontal distance = %v, want 10", got)
	}
	got := DistanceBetween(a, geometry.Rect{X: 20, Y: 30, Width: 10, Height: 10})
	if math.Abs(got-math.Sqrt(500)) > 1e-9 {
		t.Errorf("diagonal distance = %v, want sqrt(500)", got)
	}
}

func TestCanPlace(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 10, Height: 10})

	if ok, reason := CanPlace(l, geometry.Rect{X: 50, Y: 50, Width: 10, Height: 10}); !ok {
		t.Errorf("free spot rejected: %s", reason)
	}

	ok, reason := CanPlace(l, geometry.Rect{X: 15, Y: 15, Width: 10, Height: 10})
	if ok {
		t.Error("overlapping spot accepted")
	}
	if !strings.Contains(reason, "desk_1") {
		t.Errorf("collision reason %q does not name the blocking object", reason)
	}

	ok, reason = CanPlace(l, geometry.Rect{X: 190, Y: 90, Width: 20, Height: 20})
	if ok {
		t.Error("out-of-bounds spot accepted")
	}
	if !strings.Contains(reason, "canvas") {
		t.Errorf("bounds reason %q does not mention the canvas", reason)
	}
}

func TestCanPlaceClearance(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 10, Height: 10})

	// Gap of 5 to desk_1's right edge.
	if ok, _ := CanPlace(l, geometry.Rect{X: 25, Y: 10, Width: 10, Height: 10}, WithClearance(15)); ok {
		t.Error("spot closer than clearance accepted")
	}
	// Gap of 10 with clearance 5 is fine.
	if ok, reason := CanPlace(l, geometry.Rect{X: 30, Y: 10, Width: 10, Height: 10}, WithClearance(5)); !ok {
		t.Errorf("spot beyond clearance rejected: %s", reason)
	}
}

func TestCanPlaceIgnoresWalkables(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "door_1", Type: "Door", X: 50, Y: 50, Width: 20, Height: 10})

	if ok, reason := CanPlace(l, geometry.Rect{X: 55, Y: 50, Width: 10, Height: 10}); !ok {
		t.Errorf("placement over a door rejected: %s", reason)
	}
}

func TestMove(t *testing.T) {
	l := testLayout(t,
		layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 10, Height: 10},
		layout.Object{ID: "desk_2", Type: "Desk", X: 100, Y: 10, Width: 10, Height: 10},
	)

	if ok, reason := Move(l, "desk_1", 50, 50); !ok {
		t.Fatalf("valid move rejected: %s", reason)
	}
	o, _ := l.FindObject("desk_1")
	if o.X != 50 || o.Y != 50 {
		t.Errorf("after move position = (%v, %v), want (50, 50)", o.X, o.Y)
	}
}

func TestMoveFailureDoesNotMutate(t *testing.T) {
	l := testLayout(t,
		layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 10, Height: 10},
		layout.Object{ID: "desk_2", Type: "Desk", X: 100, Y: 10, Width: 10, Height: 10},
	)

	ok, reason := Move(l, "desk_1", 95, 10)
	if ok {
		t.Fatal("move onto desk_2 accepted")
	}
	if !strings.Contains(reason, "desk_2") {
		t.Errorf("reason %q does not name the blocking object", reason)
	}

	o, _ := l.FindObject("desk_1")
	if o.X != 10 || o.Y != 10 {
		t.Errorf("failed move changed position to (%v, %v), want (10, 10)", o.X, o.Y)
	}
}

func TestMoveCanOverlapOldPosition(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 10, Height: 10})

	// Shifting by less than the footprint overlaps the old spot; the
	// moved object must not collide with itself.
	if ok, reason := Move(l, "desk_1", 15, 10); !ok {
		t.Errorf("small shift rejected: %s", reason)
	}
}

func TestMoveUnknownID(t *testing.T) {
	l := testLayout(t)

	ok, reason := Move(l, "ghost", 0, 0)
	if ok {
		t.Fatal("move of unknown object accepted")
	}
	if !strings.Contains(reason, "ghost") {
		t.Errorf("reason %q does not contain the unknown id", reason)
	}
}

func TestPlaceAutoPosition(t *testing.T) {
	l := testLayout(t)

	o, err := Place(l, "Chair")
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}

	if o.Width != 40 || o.Height != 40 {
		t.Errorf("placed size = %vx%v, want catalog default 40x40", o.Width, o.Height)
	}
	if !strings.HasPrefix(o.ID, "chair-") {
		t.Errorf("minted id = %q, want chair- prefix", o.ID)
	}
	if len(l.Objects) != 1 {
		t.Errorf("layout has %d objects after Place, want 1", len(l.Objects))
	}
}

func TestPlaceAt(t *testing.T) {
	l := testLayout(t)

	o, err := Place(l, "Desk", At(40, 20), WithID("desk_main"), WithSize(60, 30))
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if o.ID != "desk_main" {
		t.Errorf("ID = %q, want desk_main", o.ID)
	}
	if o.X != 40 || o.Y != 20 || o.Width != 60 || o.Height != 30 {
		t.Errorf("placed footprint = (%v,%v,%v,%v), want (40,20,60,30)", o.X, o.Y, o.Width, o.Height)
	}
}

func TestPlaceAtBlocked(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "desk_1", Type: "Desk", X: 10, Y: 10, Width: 50, Height: 50})

	_, err := Place(l, "Chair", At(20, 20))
	if !errors.Is(err, errors.ErrCodePlacementBlocked) {
		t.Errorf("Place onto occupied spot error = %v, want PLACEMENT_BLOCKED", err)
	}
	if len(l.Objects) != 1 {
		t.Error("failed Place changed the object list")
	}
}

func TestPlaceSnapped(t *testing.T) {
	l := testLayout(t)
	l.GridSize = 50

	o, err := Place(l, "Chair", At(47, 52), Snapped())
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}
	if o.X != 50 || o.Y != 50 {
		t.Errorf("snapped position = (%v, %v), want (50, 50)", o.X, o.Y)
	}
}

func TestNextFreePosition(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "blocker", Type: "Desk", X: 0, Y: 0, Width: 60, Height: 60})
	l.GridSize = 50

	p, found := NextFreePosition(l, 40, 40)
	if !found {
		t.Fatal("no free position found on a mostly empty canvas")
	}
	// First grid-aligned free spot in reading order is right of the
	// blocker.
	if p.X != 100 || p.Y != 0 {
		t.Errorf("free position = (%v, %v), want (100, 0)", p.X, p.Y)
	}
}

func TestNextFreePositionFull(t *testing.T) {
	l := testLayout(t, layout.Object{ID: "slab", Type: "Desk", X: 0, Y: 0, Width: 200, Height: 100})

	if _, found := NextFreePosition(l, 40, 40); found {
		t.Error("found a free position on a fully covered canvas")
	}
}

func TestArrangeRow(t *testing.T) {
	l := testLayout(t,
		layout.Object{ID: "d1", Type: "Desk", X: 150, Y: 80, Width: 30, Height: 10},
		layout.Object{ID: "d2", Type: "Desk", X: 0, Y: 80, Width: 30, Height: 10},
		layout.Object{ID: "d3", Type: "Desk", X: 70, Y: 80, Width: 30, Height: 10},
	)

	if err := ArrangeRow(l, []string{"d1", "d2", "d3"}, geometry.Point{X: 10, Y: 10}, 20); err != nil {
		t.Fatalf("ArrangeRow error: %v", err)
	}

	wantX := []float64{10, 60, 110}
	for i, id := range []string{"d1", "d2", "d3"} {
		o, _ := l.FindObject(id)
		if o.X != wantX[i] || o.Y != 10 {
			t.Errorf("%s at (%v, %v), want (%v, 10)", id, o.X, o.Y, wantX[i])
		}
	}
}

func TestArrangeRowWraps(t *testing.T) {
	l := testLayout(t,
		layout.Object{ID: "d1", Type: "Desk", X: 0, Y: 80, Width: 80, Height: 10},
		layout.Object{ID: "d2", Type: "Desk", X: 100, Y: 80, Width: 80, Height: 10},
		layout.Object{ID: "d3", Type: "Desk", X: 0, Y: 60, Width: 80, Height: 10},
	)

	if err := ArrangeRow(l, []string{"d1", "d2", "d3"}, geometry.Point{X: 0, Y: 0}, 10); err != nil {
		t.Fatalf("ArrangeRow error: %v", err)
	}

	d3, _ := l.FindObject("d3")
	if d3.Y == 0 {
		t.Error("third 80-wide desk stayed on the first row of a 200-wide canvas, want wrap")
	}
}

func TestArrangeRowUnknownID(t *testing.T) {
	l := testLayout(t)
	err := ArrangeRow(l, []string{"ghost"}, geometry.Point{}, 10)
	if !errors.Is(err, errors.ErrCodeObjectNotFound) {
		t.Errorf("ArrangeRow(ghost) error = %v, want OBJECT_NOT_FOUND", err)
	}
}
