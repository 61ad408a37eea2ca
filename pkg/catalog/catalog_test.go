package catalog

import "testing"

func TestLookupKnownTypes(t *testing.T) {
	tests := []struct {
		tag        string
		wantType   string
		wantWidth  float64
		wantHeight float64
	}{
		{"desk", "desk", 120, 60},
		{"Desk", "desk", 120, 60},
		{"  DESK  ", "desk", 120, 60},
		{"Meeting Table", "meeting_table", 200, 100},
		{"meeting-table", "meeting_table", 200, 100},
		{"chair", "chair", 40, 40},
		{"wall", "wall", 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			info := Lookup(tt.tag)
			if info.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", info.Type, tt.wantType)
			}
			if info.DefaultWidth != tt.wantWidth || info.DefaultHeight != tt.wantHeight {
				t.Errorf("size = %vx%v, want %vx%v",
					info.DefaultWidth, info.DefaultHeight, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestLookupUnknownType(t *testing.T) {
	info := Lookup("Quantum Pod")

	if info.Category != CategoryGeneric {
		t.Errorf("Category = %v, want %v", info.Category, CategoryGeneric)
	}
	if info.Label != "Quantum Pod" {
		t.Errorf("Label = %q, want original tag preserved", info.Label)
	}
	if info.Seats != 1 {
		t.Errorf("Seats = %d, want 1 (conservative occupancy)", info.Seats)
	}
	if Known("Quantum Pod") {
		t.Error("Known(unknown tag) = true, want false")
	}
}

func TestWalkable(t *testing.T) {
	if !IsWalkable("door") {
		t.Error("IsWalkable(door) = false, want true")
	}
	if !IsWalkable("Exit") {
		t.Error("IsWalkable(Exit) = false, want true")
	}
	if IsWalkable("desk") {
		t.Error("IsWalkable(desk) = true, want false")
	}
	if IsWalkable("wall") {
		t.Error("IsWalkable(wall) = true, want false")
	}
}

func TestTypePredicates(t *testing.T) {
	if !IsWall("Wall") {
		t.Error("IsWall(Wall) = false, want true")
	}
	if IsWall("desk") {
		t.Error("IsWall(desk) = true, want false")
	}
	if !IsDoor("Door") {
		t.Error("IsDoor(Door) = false, want true")
	}
	if !IsExit("exit") {
		t.Error("IsExit(exit) = false, want true")
	}
}

func TestSeats(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"chair", 1},
		{"armchair", 1},
		{"sofa", 2},
		{"Table 3 Persons", 3},
		{"desk", 0},
		{"wall", 0},
		{"mystery object", 1},
	}

	for _, tt := range tests {
		if got := Seats(tt.tag); got != tt.want {
			t.Errorf("Seats(%q) = %d, want %d", tt.tag, got, tt.want)
		}
	}
}

func TestTypesSorted(t *testing.T) {
	types := Types()
	if len(types) == 0 {
		t.Fatal("Types() returned no entries")
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].Type >= types[i].Type {
			t.Errorf("Types() not sorted: %q before %q", types[i-1].Type, types[i].Type)
		}
	}
}
