package organism

import (
	"math/rand"

	"github.com/talgya/pondlife/internal/environment"
	"github.com/talgya/pondlife/internal/world"
)

// Step runs one activation of the state machine. When a division commits it
// places the child on the grid and returns it for registration; otherwise
// it returns nil.
//
// Priority per activation: encystment overrides the current state, then
// dormancy exit, then the division gate. A commit in flight still resolves
// after an encystment override, and the commit's outcome wins the tick.
func Step(o *Organism, env *environment.Environment, grid *world.Grid[ID], rng *rand.Rand, nextID func() ID) *Organism {
	if env.EncystmentCondition() {
		o.State = StateEncysted
	} else if o.State == StateEncysted && env.ExcystmentCondition() {
		o.State = StateExcysted
	}

	if o.State == StateExcysted || env.DivisionCondition() || o.Pending != nil {
		return divide(o, grid, rng, nextID)
	}
	return nil
}

// divide runs the two-phase division protocol. Phase 1 reserves a target
// cell and a child identifier; phase 2, one activation later, re-checks the
// target and either commits the child or strands the parent as stressed.
func divide(o *Organism, grid *world.Grid[ID], rng *rand.Rand, nextID func() ID) *Organism {
	if o.Pending != nil {
		target, childID := o.Pending.Target, o.Pending.ChildID
		o.Pending = nil
		if err := grid.Place(target, childID); err != nil {
			// A neighbor claimed the cell during the commitment delay.
			o.State = StateStressed
			return nil
		}
		o.State = StateDivided
		return &Organism{ID: childID, Position: target, State: StateIntact}
	}

	var empty []world.Coord
	for _, n := range grid.MooreNeighbors(o.Position) {
		if grid.IsEmpty(n) {
			empty = append(empty, n)
		}
	}
	if len(empty) == 0 {
		o.State = StateStressed
		return nil
	}

	o.Pending = &Pending{
		Target:  empty[rng.Intn(len(empty))],
		ChildID: nextID(),
	}
	o.State = StateDividing
	return nil
}
