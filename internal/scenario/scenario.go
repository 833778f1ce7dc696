// Package scenario holds named starting worlds.
package scenario

import (
	"fmt"
	"slices"

	"mad-sand/internal/engine"
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
)

// Builder populates a fresh engine. seed drives any randomness in the layout.
type Builder func(e *engine.Engine, seed int64) error

// Scenario is a registered starting world.
type Scenario struct {
	Name        string
	Description string
	Build       Builder
}

var scenarios = map[string]Scenario{}

// Register adds a scenario under its name.
func Register(s Scenario) {
	if s.Name == "" || s.Build == nil {
		return
	}
	scenarios[s.Name] = s
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Names lists registered scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load resets e and builds the named scenario into it.
func Load(e *engine.Engine, name string, seed int64) error {
	s, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q (have %v)", name, Names())
	}
	e.Reset(seed)
	if err := s.Build(e, seed); err != nil {
		return fmt.Errorf("building scenario %s: %w", name, err)
	}
	return nil
}

// lookup resolves particle names, failing on the first missing one.
func lookup(types *particle.Registry, names ...string) ([]particle.ID, error) {
	ids := make([]particle.ID, len(names))
	for i, name := range names {
		id, ok := types.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("particle table has no %q", name)
		}
		ids[i] = id
	}
	return ids, nil
}

// fill places id in the rectangle [x0,x1) x [y0,y1), skipping rows below the
// floor.
func fill(e *engine.Engine, x0, y0, x1, y1 int, id particle.ID) {
	for y := max(y0, 1); y < y1; y++ {
		for x := x0; x < x1; x++ {
			e.Place(grid.Coord{X: x, Y: y}, id)
		}
	}
}
