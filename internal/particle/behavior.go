package particle

import (
	"fmt"
	"slices"

	"mad-sand/internal/grid"
)

// Neighbor is an occupied cell next to the particle being updated.
type Neighbor struct {
	Pos  grid.Coord
	Cell Cell
}

// Grid is the mutable next-state grid handed to behaviors. Writes below the
// floor are dropped by the implementation.
type Grid interface {
	Get(pos grid.Coord) (Cell, bool)
	Set(pos grid.Coord, c Cell)
}

// Result is what a behavior reports for the cell at its origin.
type Result struct {
	Cell Cell
	// Exists is false when the cell must be deleted.
	Exists bool
	// Active keeps the owning chunk awake even if nothing moved.
	Active bool
}

// Behavior is the reactive logic of a type, run once per tick per particle.
// Neighbors are listed in grid.Compass order. Behaviors may write to any
// coordinate through g in addition to returning the new state of origin.
type Behavior func(origin grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result

type binder func(r *Registry) (Behavior, error)

var behaviors = map[string]binder{
	"infect":           bindInfect,
	"flammable_infect": bindFlammableInfect,
	"corrode":          bindCorrode,
	"melt":             bindMelt,
	"bomb":             bindBomb,
	"lithium":          bindLithium,
	"fuse":             bindFuse,
	"flammable":        bindFlammable,
	"expire":           bindExpire,
	"meltable":         bindMeltable,
}

// BehaviorNames lists the behaviors a particle table may reference.
func BehaviorNames() []string {
	names := make([]string, 0, len(behaviors))
	for name := range behaviors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

const elementRadius = 3

func unchanged(c Cell) Result { return Result{Cell: c, Exists: true} }

func need(id ID, role string) error {
	if id == None {
		return fmt.Errorf("behavior requires the %s role", role)
	}
	return nil
}

func infectNeighbors(c Cell, neighbors []Neighbor, g Grid) bool {
	active := false
	for _, n := range neighbors {
		if n.Cell.Type == c.Type {
			continue
		}
		g.Set(n.Pos, c)
		active = true
	}
	return active
}

func bindInfect(*Registry) (Behavior, error) {
	return func(_ grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result {
		return Result{Cell: c, Exists: true, Active: infectNeighbors(c, neighbors, g)}
	}, nil
}

func bindFlammableInfect(r *Registry) (Behavior, error) {
	if err := need(r.ember, "ember"); err != nil {
		return nil, err
	}
	return func(_ grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result {
		if r.anyHot(neighbors) {
			return Result{Cell: r.New(r.ember), Exists: true, Active: true}
		}
		return Result{Cell: c, Exists: true, Active: infectNeighbors(c, neighbors, g)}
	}, nil
}

func bindCorrode(r *Registry) (Behavior, error) {
	if err := need(r.sand, "sand"); err != nil {
		return nil, err
	}
	return func(_ grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result {
		active := false
		for _, n := range neighbors {
			if r.Type(n.Cell.Type).Class != Solid {
				continue
			}
			g.Set(n.Pos, r.New(r.sand))
			active = true
		}
		return Result{Cell: c, Exists: true, Active: active}
	}, nil
}

func bindMelt(r *Registry) (Behavior, error) {
	if err := need(r.metal, "metal"); err != nil {
		return nil, err
	}
	return func(_ grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result {
		active := false
		for _, n := range neighbors {
			if n.Cell.Type != r.metal {
				continue
			}
			g.Set(n.Pos, c)
			active = true
		}
		return Result{Cell: c, Exists: true, Active: active}
	}, nil
}

// explosive builds a behavior that turns everything within radius of the
// origin into embers once trigger matches a neighbor.
func explosive(r *Registry, trigger func(c Cell, n Neighbor) bool, radius func(c Cell) int) (Behavior, error) {
	if err := need(r.ember, "ember"); err != nil {
		return nil, err
	}
	return func(origin grid.Coord, c Cell, neighbors []Neighbor, g Grid) Result {
		if len(neighbors) == 0 {
			return unchanged(c)
		}
		if !slices.ContainsFunc(neighbors, func(n Neighbor) bool { return trigger(c, n) }) {
			return unchanged(c)
		}
		ember := r.New(r.ember)
		Explode(g, origin, radius(c), ember)
		return Result{Cell: ember, Exists: true}
	}, nil
}

// Explode writes fill to every coordinate within radius of center, skipping
// anything at or below the floor.
func Explode(g Grid, center grid.Coord, radius int, fill Cell) {
	r2 := radius * radius
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		if y < 1 {
			continue
		}
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := grid.Coord{X: x, Y: y}
			if center.DistSq(p) > r2 {
				continue
			}
			g.Set(p, fill)
		}
	}
}

func bindBomb(r *Registry) (Behavior, error) {
	return explosive(r,
		func(c Cell, n Neighbor) bool { return n.Cell.Type != c.Type },
		func(c Cell) int { return c.Value },
	)
}

func bindLithium(r *Registry) (Behavior, error) {
	if err := need(r.water, "water"); err != nil {
		return nil, err
	}
	return explosive(r,
		func(_ Cell, n Neighbor) bool { return n.Cell.Type == r.water },
		func(Cell) int { return elementRadius },
	)
}

func bindFuse(r *Registry) (Behavior, error) {
	return explosive(r,
		func(_ Cell, n Neighbor) bool { return r.IsHot(n.Cell.Type) },
		func(Cell) int { return elementRadius },
	)
}

// convertWhenHot turns the cell into a fresh instance of into once any
// neighbor is hot.
func convertWhenHot(r *Registry, into ID) Behavior {
	return func(_ grid.Coord, c Cell, neighbors []Neighbor, _ Grid) Result {
		if r.anyHot(neighbors) {
			return Result{Cell: r.New(into), Exists: true}
		}
		return unchanged(c)
	}
}

func bindFlammable(r *Registry) (Behavior, error) {
	if err := need(r.ember, "ember"); err != nil {
		return nil, err
	}
	return convertWhenHot(r, r.ember), nil
}

func bindMeltable(r *Registry) (Behavior, error) {
	if err := need(r.water, "water"); err != nil {
		return nil, err
	}
	return convertWhenHot(r, r.water), nil
}

func bindExpire(*Registry) (Behavior, error) {
	return func(_ grid.Coord, c Cell, _ []Neighbor, _ Grid) Result {
		c.Value--
		if c.Value < 0 {
			return Result{Cell: c}
		}
		return Result{Cell: c, Exists: true, Active: true}
	}, nil
}

func (r *Registry) anyHot(neighbors []Neighbor) bool {
	return slices.ContainsFunc(neighbors, func(n Neighbor) bool { return r.IsHot(n.Cell.Type) })
}
