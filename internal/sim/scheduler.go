package sim

import (
	"github.com/talgya/pondlife/internal/organism"
)

// activateAll runs one scheduler pass: a fixed snapshot of the live
// identifier set is taken at call start, shuffled with the simulation's
// randomness source, and every organism in it steps exactly once. Children
// registered during the pass are absent from the snapshot and first act on
// the following tick.
func (s *Simulation) activateAll() {
	snapshot := make([]organism.ID, len(s.registry.order))
	copy(snapshot, s.registry.order)
	s.rng.Shuffle(len(snapshot), func(i, j int) {
		snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
	})

	for _, id := range snapshot {
		o, ok := s.registry.get(id)
		if !ok {
			continue
		}
		if child := organism.Step(o, s.env, s.grid, s.rng, s.registry.nextID); child != nil {
			s.registry.add(child)
		}
	}
}
