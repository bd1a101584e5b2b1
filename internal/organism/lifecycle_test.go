package organism

import (
	"math/rand"
	"testing"

	"github.com/talgya/pondlife/internal/environment"
	"github.com/talgya/pondlife/internal/world"
)

func hostileEnv() *environment.Environment {
	return &environment.Environment{Month: 7, WaterQuality: 80, Temperature: 45, Category: environment.TempExtremeHot}
}

func healthyEnv() *environment.Environment {
	return &environment.Environment{Month: 4, WaterQuality: 90, Temperature: 20, Category: environment.TempNormal}
}

// idCounter returns a nextID func handing out sequential IDs from start.
func idCounter(start ID) func() ID {
	next := start
	return func() ID {
		id := next
		next++
		return id
	}
}

func placed(t *testing.T, g *world.Grid[ID], c world.Coord, id ID) *Organism {
	t.Helper()
	if err := g.Place(c, id); err != nil {
		t.Fatalf("place %v: %v", c, err)
	}
	return &Organism{ID: id, Position: c, State: StateIntact}
}

func TestEncystmentOverridesState(t *testing.T) {
	for _, from := range []State{StateIntact, StateExcysted, StateDivided, StateStressed} {
		t.Run(from.String(), func(t *testing.T) {
			g := world.NewGrid[ID](5, 5)
			o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)
			o.State = from

			child := Step(o, hostileEnv(), g, rand.New(rand.NewSource(1)), idCounter(2))
			if child != nil {
				t.Fatal("hostile conditions must not produce a child")
			}
			if o.State != StateEncysted {
				t.Errorf("state = %v, want encysted", o.State)
			}
		})
	}
}

func TestEncystedStaysDormantWhenHostile(t *testing.T) {
	g := world.NewGrid[ID](5, 5)
	o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)
	o.State = StateEncysted

	Step(o, hostileEnv(), g, rand.New(rand.NewSource(1)), idCounter(2))
	if o.State != StateEncysted {
		t.Errorf("state = %v, want encysted", o.State)
	}
}

func TestExcystmentLeadsStraightToDivision(t *testing.T) {
	g := world.NewGrid[ID](5, 5)
	o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)
	o.State = StateEncysted

	child := Step(o, healthyEnv(), g, rand.New(rand.NewSource(1)), idCounter(2))
	if child != nil {
		t.Fatal("first activation after waking must only reserve, not commit")
	}
	if o.State != StateDividing {
		t.Errorf("state = %v, want dividing", o.State)
	}
	if o.Pending == nil {
		t.Fatal("dormancy exit under healthy water must start a division")
	}
}

func TestDivisionReservesNeighborCell(t *testing.T) {
	g := world.NewGrid[ID](5, 5)
	o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)

	child := Step(o, healthyEnv(), g, rand.New(rand.NewSource(1)), idCounter(2))
	if child != nil {
		t.Fatal("phase one must not return a child")
	}
	if o.State != StateDividing || o.Pending == nil {
		t.Fatalf("state = %v, pending = %v, want dividing with reservation", o.State, o.Pending)
	}
	if o.Pending.ChildID != 2 {
		t.Errorf("reserved child ID = %d, want 2", o.Pending.ChildID)
	}

	inNeighborhood := false
	for _, n := range g.MooreNeighbors(o.Position) {
		if n == o.Pending.Target {
			inNeighborhood = true
		}
	}
	if !inNeighborhood {
		t.Errorf("reserved target %v is not a Moore neighbor of %v", o.Pending.Target, o.Position)
	}
	if !g.IsEmpty(o.Pending.Target) {
		t.Error("reservation must not place anything on the grid yet")
	}
}

func TestDivisionCommitsNextActivation(t *testing.T) {
	g := world.NewGrid[ID](5, 5)
	o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)
	rng := rand.New(rand.NewSource(1))
	nextID := idCounter(2)

	Step(o, healthyEnv(), g, rng, nextID)
	target := o.Pending.Target

	child := Step(o, healthyEnv(), g, rng, nextID)
	if child == nil {
		t.Fatal("second activation must commit and return the child")
	}
	if o.State != StateDivided {
		t.Errorf("parent state = %v, want divided", o.State)
	}
	if o.Pending != nil {
		t.Error("commit must clear the reservation")
	}
	if child.State != StateIntact {
		t.Errorf("child state = %v, want intact", child.State)
	}
	if child.Position != target {
		t.Errorf("child at %v, want reserved target %v", child.Position, target)
	}
	if id, ok := g.Occupant(target); !ok || id != child.ID {
		t.Errorf("grid occupant at %v = %v, %v, want child %d", target, id, ok, child.ID)
	}
}

func TestDivisionCollisionStressesParent(t *testing.T) {
	g := world.NewGrid[ID](5, 5)
	o := placed(t, g, world.Coord{X: 2, Y: 2}, 1)
	rng := rand.New(rand.NewSource(1))
	nextID := idCounter(2)

	Step(o, healthyEnv(), g, rng, nextID)
	target := o.Pending.Target

	// Another organism claims the reserved cell before the commit.
	if err := g.Place(target, 50); err != nil {
		t.Fatalf("place blocker: %v", err)
	}

	child := Step(o, healthyEnv(), g, rng, nextID)
	if child != nil {
		t.Fatal("a blocked commit must not produce a child")
	}
	if o.State != StateStressed {
		t.Errorf("parent state = %v, want stressed", o.State)
	}
	if o.Pending != nil {
		t.Error("a blocked commit must still clear the reservation")
	}
	if id, _ := g.Occupant(target); id != 50 {
		t.Errorf("blocker at %v replaced by %d", target, id)
	}
}

func TestFullNeighborhoodStressesWithoutReserving(t *testing.T) {
	g := world.NewGrid[ID](3, 3)
	o := placed(t, g, world.Coord{X: 1, Y: 1}, 1)
	var fill ID = 10
	for _, n := range g.MooreNeighbors(o.Position) {
		if err := g.Place(n, fill); err != nil {
			t.Fatalf("fill %v: %v", n, err)
		}
		fill++
	}

	child := Step(o, healthyEnv(), g, rand.New(rand.NewSource(1)), idCounter(2))
	if child != nil {
		t.Fatal("no child without free neighbors")
	}
	if o.State != StateStressed {
		t.Errorf("state = %v, want stressed", o.State)
	}
	if o.Pending != nil {
		t.Error("no reservation without free neighbors")
	}
}

func TestStateJSONNames(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIntact, "intact"},
		{StateEncysted, "encysted"},
		{StateExcysted, "excysted"},
		{StateDividing, "dividing"},
		{StateDivided, "divided"},
		{StateStressed, "stressed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		b, err := tt.state.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%v): %v", tt.state, err)
		}
		if string(b) != `"`+tt.want+`"` {
			t.Errorf("MarshalJSON(%v) = %s, want %q", tt.state, b, tt.want)
		}
	}
}
