package sim

import (
	"github.com/talgya/pondlife/internal/organism"
)

// registry is an arena of organisms addressed by stable identifiers.
// Organisms are only ever added, never deleted; insertion order is
// preserved so iteration stays deterministic.
type registry struct {
	order []organism.ID
	byID  map[organism.ID]*organism.Organism
	next  organism.ID
}

func newRegistry() *registry {
	return &registry{
		byID: make(map[organism.ID]*organism.Organism),
		next: 1,
	}
}

// nextID allocates an identifier without registering anything. Division
// phase 1 reserves the child's ID one tick before the child exists.
func (r *registry) nextID() organism.ID {
	id := r.next
	r.next++
	return id
}

func (r *registry) add(o *organism.Organism) {
	r.order = append(r.order, o.ID)
	r.byID[o.ID] = o
}

func (r *registry) get(id organism.ID) (*organism.Organism, bool) {
	o, ok := r.byID[id]
	return o, ok
}

func (r *registry) len() int { return len(r.order) }

// all returns the organisms in insertion order.
func (r *registry) all() []*organism.Organism {
	out := make([]*organism.Organism, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
