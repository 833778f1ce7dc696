// Package particle defines particle instances, the immutable type table and
// the reactive behaviors bound to it.
package particle

import (
	"fmt"

	"mad-sand/internal/grid"

	"gopkg.in/yaml.v3"
)

// ID indexes the type table.
type ID int

// None marks "no particle" where an ID is expected, e.g. when erasing.
const None ID = -1

// Cell is one particle instance. Value is the single type-specific mutable
// field: remaining life for expiring types, blast radius for bombs.
type Cell struct {
	Type  ID
	Value int
}

// Class selects the movement vectors of a type.
type Class uint8

const (
	Solid Class = iota
	Powder
	Liquid
)

// Down is the straight-down movement vector.
var Down = grid.Coord{X: 0, Y: -1}

var classVectors = [...][]grid.Coord{
	Solid:  nil,
	Powder: {Down, {X: 1, Y: -1}, {X: -1, Y: -1}},
	Liquid: {Down, {X: 1, Y: -1}, {X: -1, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}},
}

// Vectors returns the candidate movement offsets for the class. The slice is
// shared and must not be modified.
func (c Class) Vectors() []grid.Coord {
	if int(c) >= len(classVectors) {
		return nil
	}
	return classVectors[c]
}

func (c Class) String() string {
	switch c {
	case Solid:
		return "solid"
	case Powder:
		return "powder"
	case Liquid:
		return "liquid"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ParseClass converts a class name into a Class.
func ParseClass(s string) (Class, error) {
	switch s {
	case "solid":
		return Solid, nil
	case "powder":
		return Powder, nil
	case "liquid":
		return Liquid, nil
	}
	return 0, fmt.Errorf("unknown movement class %q", s)
}

// UnmarshalYAML decodes a class from its name.
func (c *Class) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClass(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes a class by name.
func (c Class) MarshalYAML() (any, error) { return c.String(), nil }
