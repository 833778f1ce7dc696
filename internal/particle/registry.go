package particle

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var defaultTable []byte

// Type is an immutable particle type descriptor.
type Type struct {
	ID    ID
	Name  string
	Color color.RGBA
	Class Class
	// Render is the class used for shading. It equals Class unless the table
	// overrides it and never affects movement.
	Render         Class
	MoveDownChance int
	MovementChance int
	Behavior       Behavior
	BehaviorName   string
	Template       Cell
}

// Registry is the immutable table of particle types.
type Registry struct {
	types  []Type
	byName map[string]ID
	hot    []bool

	void, ember, sand, water, metal ID
}

type roleFile struct {
	Void  string   `yaml:"void"`
	Ember string   `yaml:"ember"`
	Sand  string   `yaml:"sand"`
	Water string   `yaml:"water"`
	Metal string   `yaml:"metal"`
	Hot   []string `yaml:"hot"`
}

type typeFile struct {
	Name           string   `yaml:"name"`
	Color          [3]uint8 `yaml:"color"`
	Class          Class    `yaml:"class"`
	Render         *Class   `yaml:"render"`
	MoveDownChance *int     `yaml:"move_down_chance"`
	MovementChance *int     `yaml:"movement_chance"`
	Behavior       string   `yaml:"behavior"`
	Value          int      `yaml:"value"`
}

type tableFile struct {
	Roles roleFile   `yaml:"roles"`
	Types []typeFile `yaml:"types"`
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("particle: embedded table: %v", err))
	}
	return r
})

// Default returns the built-in registry. It is shared and immutable.
func Default() *Registry { return defaultRegistry() }

// LoadFile reads a particle table from a YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading particle table: %w", err)
	}
	return Load(data)
}

// Load builds a registry from a YAML particle table.
func Load(data []byte) (*Registry, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing particle table: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("particle table declares no types")
	}

	r := &Registry{
		types:  make([]Type, len(file.Types)),
		byName: make(map[string]ID, len(file.Types)),
		hot:    make([]bool, len(file.Types)),
	}
	for i, tf := range file.Types {
		if tf.Name == "" {
			return nil, fmt.Errorf("type %d has no name", i)
		}
		if _, dup := r.byName[tf.Name]; dup {
			return nil, fmt.Errorf("duplicate type name %q", tf.Name)
		}
		id := ID(i)
		t := Type{
			ID:             id,
			Name:           tf.Name,
			Color:          color.RGBA{R: tf.Color[0], G: tf.Color[1], B: tf.Color[2], A: 255},
			Class:          tf.Class,
			Render:         tf.Class,
			MoveDownChance: 100,
			MovementChance: 100,
			BehaviorName:   tf.Behavior,
			Template:       Cell{Type: id, Value: tf.Value},
		}
		if tf.Render != nil {
			t.Render = *tf.Render
		}
		if tf.MoveDownChance != nil {
			t.MoveDownChance = *tf.MoveDownChance
		}
		if tf.MovementChance != nil {
			t.MovementChance = *tf.MovementChance
		}
		if !validChance(t.MoveDownChance) || !validChance(t.MovementChance) {
			return nil, fmt.Errorf("type %q: chances must be within 0..100", tf.Name)
		}
		r.types[i] = t
		r.byName[tf.Name] = id
	}

	var err error
	roles := []struct {
		name string
		dst  *ID
	}{
		{file.Roles.Void, &r.void},
		{file.Roles.Ember, &r.ember},
		{file.Roles.Sand, &r.sand},
		{file.Roles.Water, &r.water},
		{file.Roles.Metal, &r.metal},
	}
	for _, role := range roles {
		if *role.dst, err = r.role(role.name); err != nil {
			return nil, err
		}
	}
	for _, name := range file.Roles.Hot {
		id, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("hot set names unknown type %q", name)
		}
		r.hot[id] = true
	}

	for i := range r.types {
		t := &r.types[i]
		if t.BehaviorName == "" {
			continue
		}
		bind, ok := behaviors[t.BehaviorName]
		if !ok {
			return nil, fmt.Errorf("type %q: unknown behavior %q", t.Name, t.BehaviorName)
		}
		if t.Behavior, err = bind(r); err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
	}
	return r, nil
}

func (r *Registry) role(name string) (ID, error) {
	if name == "" {
		return None, nil
	}
	id, ok := r.byName[name]
	if !ok {
		return None, fmt.Errorf("role names unknown type %q", name)
	}
	return id, nil
}

func validChance(v int) bool { return v >= 0 && v <= 100 }

// Len reports the number of registered types.
func (r *Registry) Len() int { return len(r.types) }

// Valid reports whether id names a registered type.
func (r *Registry) Valid(id ID) bool { return id >= 0 && int(id) < len(r.types) }

// Type returns the descriptor for id. It panics for unregistered ids.
func (r *Registry) Type(id ID) *Type {
	if !r.Valid(id) {
		panic(fmt.Sprintf("particle: unregistered type id %d", id))
	}
	return &r.types[id]
}

// Types returns a copy of all descriptors in id order.
func (r *Registry) Types() []Type {
	return append([]Type(nil), r.types...)
}

// Lookup finds a type by name.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// MustLookup is like Lookup but panics on unknown names.
func (r *Registry) MustLookup(name string) ID {
	id, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("particle: unknown type %q", name))
	}
	return id
}

// New instantiates a fresh cell from the type's template.
func (r *Registry) New(id ID) Cell {
	return r.Type(id).Template
}

// Name returns the type name, or "none" for None.
func (r *Registry) Name(id ID) string {
	if id == None {
		return "none"
	}
	return r.Type(id).Name
}

// IsHot reports whether id is an ignition source.
func (r *Registry) IsHot(id ID) bool { return r.Valid(id) && r.hot[id] }

// IsVoid reports whether id is the void type.
func (r *Registry) IsVoid(id ID) bool { return r.void != None && id == r.void }

// Void returns the void type, or None when the table has none.
func (r *Registry) Void() ID { return r.void }

// Ember returns the type created by combustion and explosions.
func (r *Registry) Ember() ID { return r.ember }

// Sand returns the type produced by corrosion.
func (r *Registry) Sand() ID { return r.sand }

// Water returns the type produced by melting and the lithium trigger.
func (r *Registry) Water() ID { return r.water }

// Metal returns the type affected by melt.
func (r *Registry) Metal() ID { return r.metal }
