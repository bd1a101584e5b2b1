// Package sim wires the grid, environment, and organism registry into a
// tick-driven simulation.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/pondlife/internal/environment"
	"github.com/talgya/pondlife/internal/metrics"
	"github.com/talgya/pondlife/internal/organism"
	"github.com/talgya/pondlife/internal/world"
)

// ErrInvalidConfig reports malformed construction input: non-positive
// dimensions or an out-of-range month.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Simulation owns one pond: the grid, the environment, the organism
// registry, the metrics log, and the single randomness source every
// stochastic choice draws from. One tick completes fully before the next
// begins; hosts serving multiple callers must serialize Tick/Run per
// instance.
type Simulation struct {
	grid  *world.Grid[organism.ID]
	env   *environment.Environment
	depth *world.DepthMap
	rng   *rand.Rand

	registry *registry
	log      *metrics.Log
	tick     uint64
	seed     int64
}

// New creates a simulation on a width×height toroidal grid starting at the
// given month, with one seed organism placed at a random interior cell.
func New(width, height, month int, seed int64) (*Simulation, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, width, height)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidConfig, month)
	}

	rng := rand.New(rand.NewSource(seed))
	s := &Simulation{
		grid:     world.NewGrid[organism.ID](width, height),
		env:      environment.New(month, rng),
		depth:    world.GenerateDepthMap(width, height, seed),
		rng:      rng,
		registry: newRegistry(),
		log:      metrics.NewLog(),
		seed:     seed,
	}

	seedPos := world.Coord{
		X: interiorOffset(width, rng),
		Y: interiorOffset(height, rng),
	}
	founder := &organism.Organism{
		ID:       s.registry.nextID(),
		Position: seedPos,
		State:    organism.StateIntact,
	}
	if err := s.grid.Place(seedPos, founder.ID); err != nil {
		return nil, fmt.Errorf("place seed organism: %w", err)
	}
	s.registry.add(founder)

	slog.Info("simulation created",
		"grid", fmt.Sprintf("%dx%d", width, height),
		"month", month,
		"seed", seed,
		"seed_cell", seedPos,
	)
	return s, nil
}

// interiorOffset draws a uniform interior offset on one axis: never the 0
// row or column, except on axes too short to have an interior.
func interiorOffset(dim int, rng *rand.Rand) int {
	if dim < 2 {
		return 0
	}
	return 1 + rng.Intn(dim-1)
}

// Tick advances the simulation one step: every live organism activates
// once in random order, the environment advances to the next month, and
// one metrics record is appended.
func (s *Simulation) Tick() {
	s.activateAll()
	s.env.Advance(s.rng)
	s.tick++
	s.log.Append(s.snapshotRecord())
}

// Run advances n ticks. n <= 0 is a no-op.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// CurrentTick returns the number of completed ticks.
func (s *Simulation) CurrentTick() uint64 { return s.tick }

// Seed returns the seed the simulation's randomness source started from.
func (s *Simulation) Seed() int64 { return s.seed }

// Population returns the number of registered organisms.
func (s *Simulation) Population() int { return s.registry.len() }

// Environment returns a copy of the current environment conditions.
func (s *Simulation) Environment() environment.Environment { return *s.env }

// Depth returns the pond-floor depth map for renderers.
func (s *Simulation) Depth() *world.DepthMap { return s.depth }

// GridSize returns the grid dimensions.
func (s *Simulation) GridSize() (width, height int) {
	return s.grid.Width(), s.grid.Height()
}

// Metrics returns the per-tick records, oldest first.
func (s *Simulation) Metrics() []metrics.Record { return s.log.Records() }

// CellState pairs an organism with its state for rendering collaborators.
type CellState struct {
	ID    organism.ID    `json:"id"`
	State organism.State `json:"state"`
}

// GridSnapshot returns the occupied cells and their organisms' states.
func (s *Simulation) GridSnapshot() map[world.Coord]CellState {
	out := make(map[world.Coord]CellState, s.registry.len())
	for c, id := range s.grid.Cells() {
		if o, ok := s.registry.get(id); ok {
			out[c] = CellState{ID: id, State: o.State}
		}
	}
	return out
}

// snapshotRecord aggregates a state count per organism plus the current
// environment values.
func (s *Simulation) snapshotRecord() metrics.Record {
	rec := metrics.Record{
		TickIndex:    s.tick,
		WaterQuality: s.env.WaterQuality,
		Temperature:  s.env.Temperature,
		Month:        s.env.Month,
	}
	for _, o := range s.registry.all() {
		switch o.State {
		case organism.StateIntact:
			rec.Intact++
		case organism.StateEncysted:
			rec.Encysted++
		case organism.StateExcysted:
			rec.Excysted++
		case organism.StateDividing:
			rec.Dividing++
		case organism.StateDivided:
			rec.Divided++
		case organism.StateStressed:
			rec.Stressed++
		}
	}
	return rec
}
