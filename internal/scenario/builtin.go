package scenario

import (
	"math"

	"mad-sand/internal/engine"
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/pkg/core"

	"github.com/aquilax/go-perlin"
)

func init() {
	Register(Scenario{Name: "empty", Description: "Nothing but the floor", Build: buildEmpty})
	Register(Scenario{Name: "sandpile", Description: "Sand and water dropped onto the floor", Build: buildSandpile})
	Register(Scenario{Name: "terrain", Description: "Noise-generated hills with water in the valleys", Build: buildTerrain})
	Register(Scenario{Name: "demolition", Description: "A stone tower rigged with bombs and a lit fuse", Build: buildDemolition})
	Register(Scenario{Name: "foundry", Description: "Lava over metal, ice and wood", Build: buildFoundry})
}

func buildEmpty(*engine.Engine, int64) error { return nil }

func buildSandpile(e *engine.Engine, seed int64) error {
	ids, err := lookup(e.Types(), "sand", "water")
	if err != nil {
		return err
	}
	sand, water := ids[0], ids[1]
	rng := core.NewRNG(seed)
	for y := 20; y < 50; y++ {
		for x := -12; x < 12; x++ {
			// Ragged edges so the pile does not settle into a perfect block.
			if (x < -9 || x > 8) && rng.Chance(50) {
				continue
			}
			e.Place(grid.Coord{X: x, Y: y}, sand)
		}
	}
	fill(e, -30, 10, -18, 30, water)
	return nil
}

const (
	terrainHalfWidth = 64
	terrainBase      = 10
	terrainRelief    = 14
	seaLevel         = 12
)

func buildTerrain(e *engine.Engine, seed int64) error {
	ids, err := lookup(e.Types(), "stone", "sand", "water")
	if err != nil {
		return err
	}
	stone, sand, water := ids[0], ids[1], ids[2]
	noise := perlin.NewPerlin(2, 2, 3, seed)
	for x := -terrainHalfWidth; x < terrainHalfWidth; x++ {
		h := terrainBase + int(math.Round(noise.Noise1D(float64(x)/32)*terrainRelief))
		h = max(h, 2)
		fill(e, x, 1, x+1, h-2, stone)
		fill(e, x, h-2, x+1, h+1, sand)
		if h+1 < seaLevel {
			fill(e, x, h+1, x+1, seaLevel, water)
		}
	}
	return nil
}

func buildDemolition(e *engine.Engine, seed int64) error {
	ids, err := lookup(e.Types(), "stone", "bomb", "fuse", "ember")
	if err != nil {
		return err
	}
	stone, bomb, fuse, ember := ids[0], ids[1], ids[2], ids[3]

	// Tower with hollow floors.
	fill(e, -6, 1, 6, 40, stone)
	for y := 6; y < 40; y += 8 {
		fill(e, -4, y, 4, y+4, particle.None)
	}

	// Bombs go off on first contact, so they start in the air above the
	// tower and detonate when they land.
	for i, y := range []int{48, 60, 72} {
		e.Place(grid.Coord{X: 2*i - 2, Y: y}, bomb)
	}

	// A fuse burns from its far end toward the tower base.
	rng := core.NewRNG(seed)
	length := 20 + rng.IntN(10)
	fill(e, -6-length, 1, -6, 2, fuse)
	e.Place(grid.Coord{X: -7 - length, Y: 1}, ember)
	return nil
}

func buildFoundry(e *engine.Engine, _ int64) error {
	ids, err := lookup(e.Types(), "stone", "metal", "lava", "ice", "wood")
	if err != nil {
		return err
	}
	stone, metal, lava, ice, wood := ids[0], ids[1], ids[2], ids[3], ids[4]

	// Crucible walls.
	fill(e, -16, 1, -14, 20, stone)
	fill(e, 14, 1, 16, 20, stone)
	fill(e, -14, 1, 14, 6, metal)
	fill(e, -10, 12, 10, 18, lava)

	fill(e, 20, 1, 26, 8, ice)
	fill(e, 20, 8, 26, 10, lava)
	fill(e, -26, 1, -20, 8, wood)
	fill(e, -26, 8, -20, 10, lava)
	return nil
}
