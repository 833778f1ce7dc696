package particle

import (
	"strings"
	"testing"

	"mad-sand/internal/grid"
)

// mapGrid is a minimal Grid used to observe behavior side effects.
type mapGrid map[grid.Coord]Cell

func (m mapGrid) Get(p grid.Coord) (Cell, bool) {
	c, ok := m[p]
	return c, ok
}

func (m mapGrid) Set(p grid.Coord, c Cell) {
	if p.Y < 1 {
		return
	}
	m[p] = c
}

func neighborsOf(m mapGrid, origin grid.Coord) []Neighbor {
	var out []Neighbor
	for _, d := range grid.Compass {
		p := origin.Add(d)
		if c, ok := m[p]; ok {
			out = append(out, Neighbor{Pos: p, Cell: c})
		}
	}
	return out
}

func run(t *testing.T, r *Registry, m mapGrid, origin grid.Coord) Result {
	t.Helper()
	c, ok := m[origin]
	if !ok {
		t.Fatalf("no cell at %v", origin)
	}
	b := r.Type(c.Type).Behavior
	if b == nil {
		t.Fatalf("type %s has no behavior", r.Name(c.Type))
	}
	return b(origin, c, neighborsOf(m, origin), m)
}

func TestDefaultTable(t *testing.T) {
	r := Default()
	if r.Len() != 19 {
		t.Fatalf("expected 19 types, got %d", r.Len())
	}

	sand := r.Type(r.MustLookup("sand"))
	if sand.Class != Powder || sand.MoveDownChance != 80 || sand.MovementChance != 100 {
		t.Fatalf("unexpected sand descriptor %+v", sand)
	}
	if got := r.New(r.MustLookup("bomb")).Value; got != 5 {
		t.Fatalf("bomb radius = %d, expected 5", got)
	}
	if got := r.New(r.Ember()).Value; got != 4 {
		t.Fatalf("ember life = %d, expected 4", got)
	}
	crystal := r.Type(r.MustLookup("crystal"))
	if crystal.Class != Solid || crystal.Render != Powder {
		t.Fatalf("crystal should move as solid and render as powder, got %v/%v", crystal.Class, crystal.Render)
	}
	for _, name := range []string{"ember", "water", "lava"} {
		if !r.IsHot(r.MustLookup(name)) {
			t.Fatalf("%s should be hot", name)
		}
	}
	if r.IsHot(r.MustLookup("stone")) {
		t.Fatal("stone should not be hot")
	}
	if !r.IsVoid(r.MustLookup("void")) {
		t.Fatal("void role not resolved")
	}
}

func TestClassVectors(t *testing.T) {
	if len(Solid.Vectors()) != 0 {
		t.Fatal("solids must not move")
	}
	if len(Powder.Vectors()) != 3 || Powder.Vectors()[0] != Down {
		t.Fatalf("unexpected powder vectors %v", Powder.Vectors())
	}
	if len(Liquid.Vectors()) != 5 {
		t.Fatalf("unexpected liquid vectors %v", Liquid.Vectors())
	}
}

func TestTypePanicsOnUnregisteredID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered id")
		}
	}()
	Default().Type(ID(Default().Len()))
}

func TestLoadRejectsBadTables(t *testing.T) {
	cases := map[string]string{
		"unknown behavior": "types:\n  - name: a\n    class: solid\n    behavior: levitate\n",
		"bad class":        "types:\n  - name: a\n    class: gas\n",
		"duplicate":        "types:\n  - name: a\n    class: solid\n  - name: a\n    class: solid\n",
		"chance":           "types:\n  - name: a\n    class: powder\n    move_down_chance: 120\n",
		"missing role":     "types:\n  - name: a\n    class: solid\n    behavior: flammable\n",
		"unknown hot":      "roles:\n  hot: [plasma]\ntypes:\n  - name: a\n    class: solid\n",
		"empty":            "types: []\n",
	}
	for name, table := range cases {
		if _, err := Load([]byte(table)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMinimalTable(t *testing.T) {
	table := strings.Join([]string{
		"roles:",
		"  ember: spark",
		"  hot: [spark]",
		"types:",
		"  - name: spark",
		"    class: powder",
		"    behavior: expire",
		"    value: 2",
		"  - name: paper",
		"    class: solid",
		"    behavior: flammable",
	}, "\n")
	r, err := Load([]byte(table))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Void() != None {
		t.Fatal("void role should be unset")
	}
	if r.Type(1).Behavior == nil {
		t.Fatal("paper should burn")
	}
}

func TestInfect(t *testing.T) {
	r := Default()
	strange := r.MustLookup("strange")
	stone := r.MustLookup("stone")
	origin := grid.Pt(5, 5)

	m := mapGrid{
		origin:         r.New(strange),
		grid.Pt(6, 5):  r.New(stone),
		grid.Pt(4, 4):  r.New(stone),
		grid.Pt(5, 6):  r.New(strange),
	}
	res := run(t, r, m, origin)
	if !res.Exists || !res.Active {
		t.Fatalf("infect should persist and be active, got %+v", res)
	}
	for _, p := range []grid.Coord{grid.Pt(6, 5), grid.Pt(4, 4)} {
		if m[p].Type != strange {
			t.Fatalf("neighbor %v not infected", p)
		}
	}

	res = run(t, r, m, origin)
	if res.Active {
		t.Fatal("nothing left to infect, expected inactive")
	}
}

func TestFlammableInfectBurnsInsteadOfSpreading(t *testing.T) {
	r := Default()
	virus := r.MustLookup("virus")
	stone := r.MustLookup("stone")
	origin := grid.Pt(0, 3)

	m := mapGrid{
		origin:        r.New(virus),
		grid.Pt(1, 3): r.New(stone),
		grid.Pt(0, 2): r.New(r.MustLookup("lava")),
	}
	res := run(t, r, m, origin)
	if res.Cell.Type != r.Ember() || !res.Active || !res.Exists {
		t.Fatalf("virus next to lava should become an active ember, got %+v", res)
	}
	if m[grid.Pt(1, 3)].Type != stone {
		t.Fatal("burning virus must not infect")
	}

	delete(m, grid.Pt(0, 2))
	m[origin] = r.New(virus)
	res = run(t, r, m, origin)
	if res.Cell.Type != virus || !res.Active || m[grid.Pt(1, 3)].Type != virus {
		t.Fatalf("virus should infect when nothing is hot, got %+v", res)
	}
}

func TestCorrodeTurnsSolidsIntoSand(t *testing.T) {
	r := Default()
	acid := r.MustLookup("acid")
	origin := grid.Pt(3, 3)
	m := mapGrid{
		origin:        r.New(acid),
		grid.Pt(3, 2): r.New(r.MustLookup("stone")),
		grid.Pt(4, 3): r.New(r.Water()),
		grid.Pt(2, 2): r.New(r.Metal()),
	}
	res := run(t, r, m, origin)
	if !res.Active || res.Cell.Type != acid {
		t.Fatalf("unexpected result %+v", res)
	}
	if m[grid.Pt(3, 2)].Type != r.Sand() || m[grid.Pt(2, 2)].Type != r.Sand() {
		t.Fatal("solid neighbors should corrode into sand")
	}
	if m[grid.Pt(4, 3)].Type != r.Water() {
		t.Fatal("liquids must not corrode")
	}

	lone := mapGrid{origin: r.New(acid)}
	if res := run(t, r, lone, origin); res.Active {
		t.Fatal("nothing to corrode, expected inactive")
	}
}

func TestMeltCopiesOntoMetal(t *testing.T) {
	r := Default()
	lava := r.MustLookup("lava")
	origin := grid.Pt(2, 2)
	m := mapGrid{
		origin:        r.New(lava),
		grid.Pt(2, 1): r.New(r.Metal()),
		grid.Pt(3, 2): r.New(r.MustLookup("stone")),
	}
	res := run(t, r, m, origin)
	if res.Cell != r.New(lava) || !res.Exists {
		t.Fatalf("melt must not change itself, got %+v", res)
	}
	if m[grid.Pt(2, 1)].Type != lava {
		t.Fatal("metal neighbor should turn to lava")
	}
	if m[grid.Pt(3, 2)].Type == lava {
		t.Fatal("stone should be untouched")
	}
}

func TestBombExplodesWithinRadius(t *testing.T) {
	r := Default()
	bomb := r.MustLookup("bomb")
	stone := r.MustLookup("stone")
	origin := grid.Pt(0, 2)
	m := mapGrid{
		origin:        r.New(bomb),
		grid.Pt(1, 2): r.New(stone),
	}
	res := run(t, r, m, origin)
	if res.Cell.Type != r.Ember() || !res.Exists {
		t.Fatalf("bomb should become an ember, got %+v", res)
	}

	radius := r.New(bomb).Value
	for y := origin.Y - radius - 1; y <= origin.Y+radius+1; y++ {
		for x := origin.X - radius - 1; x <= origin.X+radius+1; x++ {
			p := grid.Pt(x, y)
			c, ok := m[p]
			inside := origin.DistSq(p) <= radius*radius && y >= 1
			if inside && (!ok || c.Type != r.Ember()) {
				t.Fatalf("expected ember at %v", p)
			}
			if !inside && ok {
				t.Fatalf("unexpected cell at %v: %+v", p, c)
			}
		}
	}
}

func TestExplosivesNeedTheirTrigger(t *testing.T) {
	r := Default()
	origin := grid.Pt(0, 5)

	bomb := r.MustLookup("bomb")
	alone := mapGrid{origin: r.New(bomb)}
	if res := run(t, r, alone, origin); res.Cell.Type != bomb || len(alone) != 1 {
		t.Fatal("bomb without neighbors must be a no-op")
	}
	twins := mapGrid{origin: r.New(bomb), grid.Pt(1, 5): r.New(bomb)}
	if res := run(t, r, twins, origin); res.Cell.Type != bomb {
		t.Fatal("bomb next to a bomb must not explode")
	}

	lithium := r.MustLookup("lithium")
	dry := mapGrid{origin: r.New(lithium), grid.Pt(0, 4): r.New(r.MustLookup("stone"))}
	if res := run(t, r, dry, origin); res.Cell.Type != lithium {
		t.Fatal("lithium should only react with water")
	}
	wet := mapGrid{origin: r.New(lithium), grid.Pt(0, 4): r.New(r.Water())}
	if res := run(t, r, wet, origin); res.Cell.Type != r.Ember() {
		t.Fatal("lithium next to water should explode")
	}
	if c := wet[grid.Pt(3, 5)]; c.Type != r.Ember() {
		t.Fatal("lithium blast radius should reach 3 cells")
	}
	if _, ok := wet[grid.Pt(4, 5)]; ok {
		t.Fatal("lithium blast radius should stop at 3 cells")
	}

	fuse := r.MustLookup("fuse")
	lit := mapGrid{origin: r.New(fuse), grid.Pt(-1, 6): r.New(r.Ember())}
	if res := run(t, r, lit, origin); res.Cell.Type != r.Ember() {
		t.Fatal("fuse next to an ember should explode")
	}
}

func TestFlammableAndMeltable(t *testing.T) {
	r := Default()
	origin := grid.Pt(1, 1)
	wood := r.MustLookup("wood")
	ice := r.MustLookup("ice")

	cold := mapGrid{origin: r.New(wood), grid.Pt(2, 1): r.New(r.MustLookup("stone"))}
	if res := run(t, r, cold, origin); res.Cell.Type != wood || res.Active {
		t.Fatalf("wood without heat should stay, got %+v", res)
	}
	hot := mapGrid{origin: r.New(wood), grid.Pt(2, 1): r.New(r.Ember())}
	if res := run(t, r, hot, origin); res.Cell.Type != r.Ember() {
		t.Fatalf("wood next to ember should ignite, got %+v", res)
	}

	thaw := mapGrid{origin: r.New(ice), grid.Pt(0, 2): r.New(r.MustLookup("lava"))}
	if res := run(t, r, thaw, origin); res.Cell.Type != r.Water() {
		t.Fatalf("ice next to lava should melt, got %+v", res)
	}
}

func TestExpireCountsDown(t *testing.T) {
	r := Default()
	origin := grid.Pt(0, 1)
	m := mapGrid{origin: r.New(r.Ember())}

	for i := 0; i < 4; i++ {
		res := run(t, r, m, origin)
		if !res.Exists || !res.Active {
			t.Fatalf("ember should survive tick %d", i+1)
		}
		m[origin] = res.Cell
	}
	if res := run(t, r, m, origin); res.Exists {
		t.Fatal("ember should expire on its fifth update")
	}
}
