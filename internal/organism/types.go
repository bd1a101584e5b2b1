// Package organism provides the amoeba data model and its per-activation
// state machine.
package organism

import (
	"encoding/json"

	"github.com/talgya/pondlife/internal/world"
)

// ID is a unique, stable organism identifier.
type ID uint64

// State is an amoeba's lifecycle state.
type State uint8

const (
	StateIntact   State = iota // Initial state, also every newborn child's state
	StateEncysted              // Dormant, protected from hostile water
	StateExcysted              // Just left dormancy
	StateDividing              // Division initiated, committing next activation
	StateDivided               // Parent-side marker after a committed division
	StateStressed              // Division failed: no room, or the target was claimed
)

// String returns the state name used in metrics and API payloads.
func (s State) String() string {
	switch s {
	case StateIntact:
		return "intact"
	case StateEncysted:
		return "encysted"
	case StateExcysted:
		return "excysted"
	case StateDividing:
		return "dividing"
	case StateDivided:
		return "divided"
	case StateStressed:
		return "stressed"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the state name rather than the numeric value.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Pending records a division started on the previous activation: the chosen
// target cell and the child's pre-allocated identifier. It never survives
// past the parent's next activation.
type Pending struct {
	Target  world.Coord `json:"target"`
	ChildID ID          `json:"child_id"`
}

// Organism is a single amoeba. Organisms are created once (the founder, or
// a committed division) and never deleted; each live organism owns exactly
// one grid cell.
type Organism struct {
	ID       ID          `json:"id"`
	Position world.Coord `json:"position"`
	State    State       `json:"state"`
	Pending  *Pending    `json:"pending_division,omitempty"`
}
