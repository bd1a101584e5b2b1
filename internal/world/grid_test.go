package world

import (
	"testing"
)

func TestWrap(t *testing.T) {
	g := NewGrid[int](5, 4)

	tests := []struct {
		name string
		in   Coord
		want Coord
	}{
		{"in bounds", Coord{2, 3}, Coord{2, 3}},
		{"x past edge", Coord{5, 0}, Coord{0, 0}},
		{"y past edge", Coord{0, 4}, Coord{0, 0}},
		{"negative x", Coord{-1, 0}, Coord{4, 0}},
		{"negative y", Coord{0, -1}, Coord{0, 3}},
		{"far negative", Coord{-6, -5}, Coord{4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Wrap(tt.in); got != tt.want {
				t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlaceSingleOccupancy(t *testing.T) {
	g := NewGrid[int](3, 3)
	c := Coord{1, 1}

	if err := g.Place(c, 1); err != nil {
		t.Fatalf("first Place: %v", err)
	}
	if g.IsEmpty(c) {
		t.Error("cell should be occupied after Place")
	}
	if err := g.Place(c, 2); err != ErrOccupied {
		t.Errorf("second Place = %v, want ErrOccupied", err)
	}

	// The failed place must not overwrite the occupant.
	if id, ok := g.Occupant(c); !ok || id != 1 {
		t.Errorf("Occupant = %v, %v, want 1, true", id, ok)
	}

	g.Remove(c)
	if !g.IsEmpty(c) {
		t.Error("cell should be empty after Remove")
	}
	if g.Occupied() != 0 {
		t.Errorf("Occupied = %d, want 0", g.Occupied())
	}
}

func TestMooreNeighborsInterior(t *testing.T) {
	g := NewGrid[int](5, 5)
	got := g.MooreNeighbors(Coord{2, 2})

	want := []Coord{
		{1, 1}, {2, 1}, {3, 1},
		{1, 2}, {3, 2},
		{1, 3}, {2, 3}, {3, 3},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbor[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMooreNeighborsCornerWraps(t *testing.T) {
	g := NewGrid[int](4, 4)
	got := g.MooreNeighbors(Coord{0, 0})

	if len(got) != 8 {
		t.Fatalf("got %d neighbors, want 8: %v", len(got), got)
	}
	// The opposite corner is adjacent on the torus.
	found := false
	for _, n := range got {
		if n == (Coord{3, 3}) {
			found = true
		}
	}
	if !found {
		t.Errorf("corner neighborhood %v should contain (3,3)", got)
	}
}

func TestMooreNeighborsSmallGrids(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		from          Coord
		want          []Coord
	}{
		{"2x2 collapses to three", 2, 2, Coord{0, 0}, []Coord{{1, 0}, {0, 1}, {1, 1}}},
		{"1x3 column", 1, 3, Coord{0, 0}, []Coord{{0, 1}, {0, 2}}},
		{"3x1 row", 3, 1, Coord{0, 0}, []Coord{{1, 0}, {2, 0}}},
		{"1x1 has no neighbors", 1, 1, Coord{0, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid[int](tt.width, tt.height)
			got := g.MooreNeighbors(tt.from)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("neighbor[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMooreNeighborsDeterministic(t *testing.T) {
	g := NewGrid[int](2, 2)
	first := g.MooreNeighbors(Coord{1, 1})
	for i := 0; i < 10; i++ {
		again := g.MooreNeighbors(Coord{1, 1})
		if len(again) != len(first) {
			t.Fatalf("neighbor count changed between calls: %v vs %v", first, again)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("neighbor order changed between calls: %v vs %v", first, again)
			}
		}
	}
}

func TestCellsReturnsCopy(t *testing.T) {
	g := NewGrid[int](3, 3)
	g.Place(Coord{0, 0}, 1)

	cells := g.Cells()
	cells[Coord{1, 1}] = 99

	if !g.IsEmpty(Coord{1, 1}) {
		t.Error("mutating the Cells copy must not affect the grid")
	}
}
