package core

import "testing"

func TestSnapshotInt(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "A", Params: []Parameter{IntParameter("life", "Life", 6, "")}},
		{Name: "B", Params: []Parameter{{Key: "name", Type: "text", Value: "x"}}},
	}}
	if v, ok := snap.Int("life"); !ok || v != 6 {
		t.Fatalf("life = %d %v", v, ok)
	}
	if _, ok := snap.Int("name"); ok {
		t.Fatal("non-int parameter should not parse")
	}
	if _, ok := snap.Int("missing"); ok {
		t.Fatal("missing parameter should not be found")
	}
}

func TestControlNudge(t *testing.T) {
	c := ParameterControl{Step: 5, Min: 1, Max: 12, HasMin: true, HasMax: true}
	if got := c.Nudge(10, 1); got != 12 {
		t.Fatalf("nudge up = %d", got)
	}
	if got := c.Nudge(3, -1); got != 1 {
		t.Fatalf("nudge down = %d", got)
	}
	free := ParameterControl{}
	if got := free.Nudge(-4, -1); got != -5 {
		t.Fatalf("unbounded nudge = %d", got)
	}
}
