package geometry

import (
	"errors"
	"testing"
)

func TestSnapValue(t *testing.T) {
	tests := []struct {
		v, grid, want float64
	}{
		{23, 10, 20},
		{26, 10, 30},
		{0, 10, 0},
		{-7, 10, -10},
		{42, 0, 42}, // no grid, unchanged
	}

	for _, tt := range tests {
		if got := SnapValue(tt.v, tt.grid); got != tt.want {
			t.Errorf("SnapValue(%v, %v) = %v, want %v", tt.v, tt.grid, got, tt.want)
		}
	}
}

func TestSnapPoint(t *testing.T) {
	got := SnapPoint(Point{4.9, 5.1}, 10)
	want := Point{0, 10}
	if got != want {
		t.Errorf("SnapPoint = %v, want %v", got, want)
	}
}

func TestWorldToCell(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want Cell
	}{
		{"origin", Point{0, 0}, Cell{0, 0}},
		{"just before gridline", Point{9.999, 0}, Cell{0, 0}},
		{"on gridline belongs right", Point{10, 0}, Cell{0, 1}},
		{"on gridline belongs below", Point{0, 10}, Cell{1, 0}},
		{"interior", Point{35, 25}, Cell{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WorldToCell(tt.p, 10)
			if err != nil {
				t.Fatalf("WorldToCell error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WorldToCell(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if _, err := WorldToCell(Point{1, 1}, 0); !errors.Is(err, ErrInvalidGridSize) {
		t.Errorf("WorldToCell with zero grid: error = %v, want ErrInvalidGridSize", err)
	}
}

func TestCellCenter(t *testing.T) {
	if got := CellCenter(Cell{0, 0}, 10); got != (Point{5, 5}) {
		t.Errorf("CellCenter(0,0) = %v, want {5 5}", got)
	}
	if got := CellCenter(Cell{2, 3}, 10); got != (Point{35, 25}) {
		t.Errorf("CellCenter(2,3) = %v, want {35 25}", got)
	}
}

func TestCoveredCells(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want []Cell
	}{
		{"single cell exact", Rect{0, 0, 10, 10}, []Cell{{0, 0}}},
		{"two cells wide", Rect{0, 0, 20, 10}, []Cell{{0, 0}, {0, 1}}},
		{"straddles gridline", Rect{5, 0, 10, 10}, []Cell{{0, 0}, {0, 1}}},
		{"two by two", Rect{5, 5, 10, 10}, []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{"degenerate", Rect{5, 5, 0, 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoveredCells(tt.r, 10, 100, 100)
			if len(got) != len(tt.want) {
				t.Fatalf("CoveredCells = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cell[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCoveredCellsClamped(t *testing.T) {
	// Rectangle hangs past the grid on every side; only in-bounds cells
	// come back.
	got := CoveredCells(Rect{-15, -15, 50, 50}, 10, 2, 2)
	want := []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(got) != len(want) {
		t.Fatalf("clamped cells = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("cell[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNeighbors4(t *testing.T) {
	got := Neighbors4(Cell{5, 7})
	want := [4]Cell{{4, 7}, {6, 7}, {5, 6}, {5, 8}}
	if got != want {
		t.Errorf("Neighbors4 = %v, want %v", got, want)
	}
}
