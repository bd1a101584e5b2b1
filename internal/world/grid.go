// Package world provides the bounded toroidal grid the pond simulation
// runs on: a single-occupancy cell index plus a static depth map for
// rendering collaborators.
package world

import (
	"errors"
	"sort"
)

// Coord is a 0-indexed cell coordinate. Adjacency is toroidal: the last
// row/column wraps around to the first.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ErrOccupied is returned when placing into a cell that already holds an
// occupant.
var ErrOccupied = errors.New("cell occupied")

// Grid is a bounded 2D occupancy index. At most one occupant per cell.
// Width and height must be at least 1.
type Grid[ID comparable] struct {
	width  int
	height int
	cells  map[Coord]ID
}

// NewGrid creates an empty grid of the given dimensions.
func NewGrid[ID comparable](width, height int) *Grid[ID] {
	return &Grid[ID]{
		width:  width,
		height: height,
		cells:  make(map[Coord]ID),
	}
}

// Width returns the grid width in cells.
func (g *Grid[ID]) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid[ID]) Height() int { return g.height }

// Wrap maps an arbitrary coordinate onto the torus.
func (g *Grid[ID]) Wrap(c Coord) Coord {
	return Coord{
		X: ((c.X % g.width) + g.width) % g.width,
		Y: ((c.Y % g.height) + g.height) % g.height,
	}
}

// Place claims a cell for an occupant. Returns ErrOccupied when the cell
// already holds one.
func (g *Grid[ID]) Place(c Coord, id ID) error {
	c = g.Wrap(c)
	if _, taken := g.cells[c]; taken {
		return ErrOccupied
	}
	g.cells[c] = id
	return nil
}

// Remove frees a cell. Removing an empty cell is a no-op.
func (g *Grid[ID]) Remove(c Coord) {
	delete(g.cells, g.Wrap(c))
}

// IsEmpty reports whether a cell has no occupant.
func (g *Grid[ID]) IsEmpty(c Coord) bool {
	_, taken := g.cells[g.Wrap(c)]
	return !taken
}

// Occupant returns the cell's occupant, if any.
func (g *Grid[ID]) Occupant(c Coord) (ID, bool) {
	id, ok := g.cells[g.Wrap(c)]
	return id, ok
}

// Occupied returns the number of occupied cells.
func (g *Grid[ID]) Occupied() int { return len(g.cells) }

// MooreNeighbors returns the toroidal Moore neighborhood of c as a
// deduplicated set in row-major order. On grids narrower than 3 cells the
// wrapped offsets collide; duplicates collapse, and a cell is never its own
// neighbor, so the result can hold fewer than 8 coordinates.
func (g *Grid[ID]) MooreNeighbors(c Coord) []Coord {
	c = g.Wrap(c)
	seen := make(map[Coord]struct{}, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := g.Wrap(Coord{X: c.X + dx, Y: c.Y + dy})
			if n == c {
				continue
			}
			seen[n] = struct{}{}
		}
	}

	out := make([]Coord, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Cells returns a copy of the occupancy table.
func (g *Grid[ID]) Cells() map[Coord]ID {
	out := make(map[Coord]ID, len(g.cells))
	for c, id := range g.cells {
		out[c] = id
	}
	return out
}
