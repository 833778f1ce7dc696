package engine

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"

	"github.com/davecgh/go-spew/spew"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(DefaultConfig(), particle.Default())
}

func id(t *testing.T, e *Engine, name string) particle.ID {
	t.Helper()
	v, ok := e.Types().Lookup(name)
	if !ok {
		t.Fatalf("unknown type %q", name)
	}
	return v
}

func cells(e *Engine) map[grid.Coord]particle.Cell {
	out := make(map[grid.Coord]particle.Cell)
	for cc, chunk := range e.Chunks() {
		for sub, c := range chunk.All() {
			out[e.Cell(cc, sub)] = c
		}
	}
	return out
}

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s should panic", what)
		}
	}()
	fn()
}

func checkGridInvariants(t *testing.T, e *Engine) {
	t.Helper()
	for cc, chunk := range e.Chunks() {
		if chunk.Empty() {
			t.Fatalf("empty chunk %v retained", cc)
		}
	}
	for p := range cells(e) {
		if p.Y < 1 {
			t.Fatalf("particle below floor at %v\n%s", p, spew.Sdump(cells(e)))
		}
	}
}

func TestPlacePreconditions(t *testing.T) {
	e := newEngine(t)
	expectPanic(t, "place at y=0", func() { e.Place(grid.Pt(3, 0), id(t, e, "sand")) })
	expectPanic(t, "place at y<0", func() { e.Place(grid.Pt(3, -4), id(t, e, "sand")) })
	expectPanic(t, "place unregistered", func() { e.Place(grid.Pt(3, 3), particle.ID(99)) })
	if e.Particles() != 0 || len(e.ActiveChunks()) != 0 {
		t.Fatal("failed placements must not change state")
	}
}

func TestPlaceActivatesNeighborhood(t *testing.T) {
	e := newEngine(t)
	e.Place(grid.Pt(5, 5), id(t, e, "stone"))

	cc := e.ChunkOf(grid.Pt(5, 5))
	if cc != grid.Pt(1, 1) {
		t.Fatalf("chunk of (5,5) = %v", cc)
	}
	for _, n := range grid.Around(cc) {
		if !e.IsActive(n) || e.Life(n) != e.Config().DefaultLife {
			t.Fatalf("chunk %v should be active with full life, got %d", n, e.Life(n))
		}
	}
	if len(e.ActiveChunks()) != 9 {
		t.Fatalf("expected 9 active chunks, got %v", e.ActiveChunks())
	}

	c, ok := e.Query(grid.Pt(5, 5))
	if !ok || c.Type != id(t, e, "stone") {
		t.Fatalf("query returned %+v %v", c, ok)
	}

	e.Erase(grid.Pt(5, 5))
	if _, ok := e.Query(grid.Pt(5, 5)); ok {
		t.Fatal("erase should clear the cell")
	}
	if len(e.ChunkCoords()) != 0 {
		t.Fatal("erasing the only particle should drop its chunk")
	}
}

func TestPlaceFreshInstance(t *testing.T) {
	e := newEngine(t)
	ember := id(t, e, "ember")
	e.Place(grid.Pt(0, 1), ember)
	e.Step()
	e.Place(grid.Pt(0, 1), ember)
	if c, _ := e.Query(grid.Pt(0, 1)); c.Value != 4 {
		t.Fatalf("placing should reset the value field, got %d", c.Value)
	}
}

func TestQuietChunkDecays(t *testing.T) {
	e := newEngine(t)
	e.Place(grid.Pt(1, 1), id(t, e, "stone"))
	life := e.Config().DefaultLife
	cc := grid.Pt(0, 0)

	e.Step()
	if got := e.ActiveChunks(); len(got) != 1 || got[0] != cc {
		t.Fatalf("empty neighbors should be dropped after one tick, active=%v", got)
	}
	if st := e.Stats(); st.Dropped != 8 || st.Processed != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}

	for i := 1; i < life; i++ {
		if !e.IsActive(cc) {
			t.Fatalf("chunk went dormant after %d ticks", i)
		}
		if e.Life(cc) != life-i {
			t.Fatalf("life after %d ticks = %d", i, e.Life(cc))
		}
		e.Step()
	}
	if e.IsActive(cc) {
		t.Fatalf("chunk still active after %d quiet ticks", life)
	}
	if _, ok := e.Query(grid.Pt(1, 1)); !ok {
		t.Fatal("dormant chunk must keep its particles")
	}

	// Dormant chunks are not processed at all.
	e.Step()
	if st := e.Stats(); st.Processed != 0 || st.Particles != 1 {
		t.Fatalf("unexpected stats for idle tick %+v", st)
	}
}

func TestSandFallsAndRests(t *testing.T) {
	e := newEngine(t)
	sand := id(t, e, "sand")
	e.Place(grid.Pt(0, 10), sand)

	lastY := 10
	for tick := 0; tick < 30; tick++ {
		e.Step()
		checkGridInvariants(t, e)
		all := cells(e)
		if len(all) != 1 {
			t.Fatalf("tick %d: expected one particle\n%s", tick, spew.Sdump(all))
		}
		for p, c := range all {
			if c.Type != sand {
				t.Fatalf("sand changed type: %+v", c)
			}
			if p.Y > lastY {
				t.Fatalf("sand rose from %d to %d", lastY, p.Y)
			}
			if lastY > 1 && p.Y == lastY {
				t.Fatalf("tick %d: sand with free space below did not fall", tick)
			}
			lastY = p.Y
		}
	}
	if lastY != 1 {
		t.Fatalf("sand should rest on the floor, at y=%d", lastY)
	}
	if got := e.ActiveChunks(); len(got) != 0 {
		t.Fatalf("settled world should be dormant, active=%v", got)
	}
}

func TestMovementConservesParticles(t *testing.T) {
	e := newEngine(t)
	sand, water := id(t, e, "sand"), id(t, e, "water")
	for y := 5; y < 11; y++ {
		for x := -3; x < 3; x++ {
			if (x+y)%2 == 0 {
				e.Place(grid.Pt(x, y), sand)
			} else {
				e.Place(grid.Pt(x, y), water)
			}
		}
	}
	want := e.Particles()
	for tick := 0; tick < 100; tick++ {
		e.Step()
		checkGridInvariants(t, e)
		if got := e.Particles(); got != want {
			t.Fatalf("tick %d: particle count %d, expected %d", tick, got, want)
		}
	}
}

func TestVoidAnnihilatesMover(t *testing.T) {
	e := newEngine(t)
	stone, void, sand := id(t, e, "stone"), id(t, e, "void"), id(t, e, "sand")
	e.Place(grid.Pt(-1, 1), stone)
	e.Place(grid.Pt(1, 1), stone)
	e.Place(grid.Pt(0, 1), void)
	e.Place(grid.Pt(0, 2), sand)

	e.Step()

	if _, ok := e.Query(grid.Pt(0, 2)); ok {
		t.Fatal("sand should have left its cell")
	}
	if _, ok := e.Query(grid.Pt(0, 1)); ok {
		t.Fatal("void and sand should both be gone")
	}
	if e.Particles() != 2 || e.Stats().Deleted != 1 {
		t.Fatalf("only the stones should remain: %s", spew.Sdump(cells(e)))
	}
}

func TestBombExplosionClipsAtFloor(t *testing.T) {
	e := newEngine(t)
	bomb := id(t, e, "bomb")
	e.Place(grid.Pt(10, 2), bomb)
	e.Place(grid.Pt(11, 2), id(t, e, "stone"))

	e.Step()
	checkGridInvariants(t, e)

	embers := 0
	for _, c := range cells(e) {
		switch c.Type {
		case bomb:
			t.Fatal("bomb should be consumed")
		case id(t, e, "ember"):
			embers++
		}
	}
	// Radius 5 around y=2 leaves rows 1..7 of the disc, well over 40 cells.
	if embers < 40 {
		t.Fatalf("expected an ember disc, got %d embers", embers)
	}
}

func TestEmberExpires(t *testing.T) {
	e := newEngine(t)
	ember := id(t, e, "ember")
	e.Place(grid.Pt(0, 1), ember)

	for i := 0; i < 4; i++ {
		e.Step()
		c, ok := e.Query(grid.Pt(0, 1))
		if !ok || c.Type != ember {
			t.Fatalf("ember gone after %d ticks", i+1)
		}
		if c.Value != 3-i {
			t.Fatalf("ember value after %d ticks = %d", i+1, c.Value)
		}
		if !e.IsActive(grid.Pt(0, 0)) || e.Life(grid.Pt(0, 0)) != e.Config().DefaultLife {
			t.Fatal("burning ember should keep its chunk fully alive")
		}
	}
	e.Step()
	if e.Particles() != 0 {
		t.Fatal("ember should expire on its fifth update")
	}
	if got := e.ActiveChunks(); len(got) != 0 {
		t.Fatalf("empty chunks should leave the schedule, active=%v", got)
	}
}

func TestBehaviorWritesWakeChunks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkWidth, cfg.ChunkHeight = 2, 2
	e := New(cfg, particle.Default())
	e.Place(grid.Pt(10, 2), id(t, e, "bomb"))
	e.Place(grid.Pt(11, 2), id(t, e, "stone"))

	far := e.ChunkOf(grid.Pt(15, 2))
	if e.IsActive(far) {
		t.Fatalf("chunk %v should start dormant", far)
	}
	e.Step()
	if !e.IsActive(far) || e.Life(far) != cfg.DefaultLife {
		t.Fatalf("explosion reaching %v should wake it, active=%v", far, e.ActiveChunks())
	}
}

func TestRestingLiquidRespectsMovementChance(t *testing.T) {
	table := strings.Join([]string{
		"types:",
		"  - name: goo",
		"    class: liquid",
		"    movement_chance: 0",
		"  - name: fluid",
		"    class: liquid",
	}, "\n")
	types, err := particle.Load([]byte(table))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := New(DefaultConfig(), types)
	e.Place(grid.Pt(1, 1), types.MustLookup("fluid"))
	e.Place(grid.Pt(1, 9), types.MustLookup("goo"))
	e.Step()

	if _, ok := e.Query(grid.Pt(1, 8)); !ok {
		t.Fatal("goo with free space below must still fall")
	}
	_, left := e.Query(grid.Pt(0, 1))
	_, right := e.Query(grid.Pt(2, 1))
	if !left && !right {
		t.Fatalf("fluid on the floor should always slide: %s", spew.Sdump(cells(e)))
	}

	// Let the goo land; after that it never slides.
	for i := 0; i < 10; i++ {
		e.Step()
	}
	var gooAt grid.Coord
	for p, c := range cells(e) {
		if c.Type == types.MustLookup("goo") {
			gooAt = p
		}
	}
	if gooAt.Y != 1 && gooAt.Y != 2 {
		t.Fatalf("goo should be resting, at %v", gooAt)
	}
	if gooAt.Y == 1 {
		for i := 0; i < 10; i++ {
			e.Step()
			if c, ok := e.Query(gooAt); !ok || c.Type != types.MustLookup("goo") {
				t.Fatalf("resting goo moved from %v", gooAt)
			}
		}
	}
}

func TestSameSeedSameWorld(t *testing.T) {
	build := func() *Engine {
		e := newEngine(t)
		for x := -6; x < 6; x++ {
			e.Place(grid.Pt(x, 12), id(t, e, "sand"))
			e.Place(grid.Pt(x, 14), id(t, e, "water"))
			e.Place(grid.Pt(x, 16), id(t, e, "oil"))
		}
		e.Place(grid.Pt(0, 18), id(t, e, "lava"))
		return e
	}
	a, b := build(), build()
	for i := 0; i < 60; i++ {
		a.Step()
		b.Step()
	}
	if !maps.Equal(cells(a), cells(b)) {
		t.Fatal("identical seeds and inputs should produce identical worlds")
	}
	if !slices.Equal(a.ActiveChunks(), b.ActiveChunks()) {
		t.Fatal("schedules diverged")
	}
}

func TestResetClearsWorld(t *testing.T) {
	e := newEngine(t)
	e.Place(grid.Pt(0, 5), id(t, e, "sand"))
	e.Step()
	e.Reset(3)
	if e.Particles() != 0 || len(e.ActiveChunks()) != 0 || e.Tick() != 0 {
		t.Fatal("reset should clear grid, schedule and tick")
	}
}

type phaseLog struct {
	phases []string
	onPhase func(string)
}

func (p *phaseLog) StartTick() { p.phases = append(p.phases, "start") }
func (p *phaseLog) StartPhase(name string) {
	p.phases = append(p.phases, name)
	if p.onPhase != nil {
		p.onPhase(name)
	}
}
func (p *phaseLog) EndTick() { p.phases = append(p.phases, "end") }

func TestPhaseTimerOrder(t *testing.T) {
	log := &phaseLog{}
	e := New(DefaultConfig(), particle.Default(), WithPhaseTimer(log))
	e.Step()
	want := []string{"start", PhaseClone, PhaseChunks, PhaseCommit, "end"}
	if !slices.Equal(log.phases, want) {
		t.Fatalf("phases = %v, expected %v", log.phases, want)
	}
}

func TestMutationDuringStepPanics(t *testing.T) {
	log := &phaseLog{}
	e := New(DefaultConfig(), particle.Default(), WithPhaseTimer(log))
	sand := id(t, e, "sand")
	log.onPhase = func(name string) {
		if name == PhaseChunks {
			e.Place(grid.Pt(0, 3), sand)
		}
	}
	expectPanic(t, "place during step", e.Step)

	log.onPhase = nil
	e.Place(grid.Pt(0, 3), sand)
	e.Step()
}

func TestDefaultLifeParameter(t *testing.T) {
	e := newEngine(t)
	if e.SetIntParameter("unknown", 3) {
		t.Fatal("unknown keys are rejected")
	}
	if !e.SetIntParameter(paramDefaultLife, 0) || e.Config().DefaultLife != 1 {
		t.Fatalf("life should clamp to 1, got %d", e.Config().DefaultLife)
	}
	e.Place(grid.Pt(0, 1), id(t, e, "stone"))
	if e.Life(grid.Pt(0, 0)) != 1 {
		t.Fatal("new activations use the updated life")
	}
	e.Step()
	if len(e.ActiveChunks()) != 0 {
		t.Fatal("a single quiet tick should put the chunk to sleep")
	}

	snap := e.Parameters()
	if len(snap.Groups) != 2 || snap.Groups[0].Params[2].Value != "1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestScheduleSnapshotSorted(t *testing.T) {
	s := NewSchedule()
	for _, c := range []grid.Coord{{X: 2, Y: 1}, {X: -1, Y: 1}, {X: 5, Y: -3}, {X: 0, Y: 0}} {
		s.Activate(c, 2)
	}
	want := []grid.Coord{{X: 5, Y: -3}, {X: 0, Y: 0}, {X: -1, Y: 1}, {X: 2, Y: 1}}
	if got := s.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("snapshot = %v, expected %v", got, want)
	}
	if s.Decay(grid.Pt(0, 0)) || s.Life(grid.Pt(0, 0)) != 1 {
		t.Fatal("first decay should leave one tick")
	}
	if !s.Decay(grid.Pt(0, 0)) || s.Active(grid.Pt(0, 0)) {
		t.Fatal("second decay should unschedule")
	}
	if s.Decay(grid.Pt(9, 9)) {
		t.Fatal("decaying an unscheduled chunk is a no-op")
	}
}
