// Package config loads the sandbox configuration: embedded defaults merged
// with an optional YAML file and key=value overrides from the command line.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"mad-sand/internal/engine"
	"mad-sand/internal/particle"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full sandbox configuration.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Screen    ScreenConfig    `yaml:"screen"`
	Brush     BrushConfig     `yaml:"brush"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scenario  string          `yaml:"scenario"`
	Particles string          `yaml:"particles"` // path to a particle table, empty for built-in
}

type EngineConfig struct {
	ChunkWidth  int   `yaml:"chunk_width"`
	ChunkHeight int   `yaml:"chunk_height"`
	DefaultLife int   `yaml:"default_life"`
	Seed        int64 `yaml:"seed"`
}

type ViewportConfig struct {
	Lazy        bool `yaml:"lazy"`
	LazyMargin  int  `yaml:"lazy_margin"`  // in chunks
	Zoom        int  `yaml:"zoom"`         // screen pixels per cell
	CameraSpeed int  `yaml:"camera_speed"` // cells per frame
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	TPS    int `yaml:"tps"`
}

type BrushConfig struct {
	Type string `yaml:"type"`
	Size int    `yaml:"size"`
}

type TelemetryConfig struct {
	Window    int    `yaml:"window"`
	OutputDir string `yaml:"output_dir"`
	LogStats  bool   `yaml:"log_stats"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Engine.ChunkWidth > 0, "engine.chunk_width must be positive, got %d", c.Engine.ChunkWidth)
	check(c.Engine.ChunkHeight > 0, "engine.chunk_height must be positive, got %d", c.Engine.ChunkHeight)
	check(c.Engine.DefaultLife > 0, "engine.default_life must be positive, got %d", c.Engine.DefaultLife)
	check(c.Viewport.LazyMargin >= 0, "viewport.lazy_margin must not be negative, got %d", c.Viewport.LazyMargin)
	check(c.Viewport.Zoom > 0, "viewport.zoom must be positive, got %d", c.Viewport.Zoom)
	check(c.Viewport.CameraSpeed >= 0, "viewport.camera_speed must not be negative, got %d", c.Viewport.CameraSpeed)
	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Screen.TPS > 0, "screen.tps must be positive, got %d", c.Screen.TPS)
	check(c.Brush.Size >= 0, "brush.size must not be negative, got %d", c.Brush.Size)
	check(c.Telemetry.Window > 0, "telemetry.window must be positive, got %d", c.Telemetry.Window)
	return errors.Join(errs...)
}

// ApplyOverrides sets values from dotted keys such as "engine.seed". Unknown
// keys and unparsable values are errors.
func (c *Config) ApplyOverrides(kv map[string]string) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		v := strings.TrimSpace(kv[key])
		var err error
		switch key {
		case "engine.chunk_width":
			c.Engine.ChunkWidth, err = strconv.Atoi(v)
		case "engine.chunk_height":
			c.Engine.ChunkHeight, err = strconv.Atoi(v)
		case "engine.default_life":
			c.Engine.DefaultLife, err = strconv.Atoi(v)
		case "engine.seed":
			c.Engine.Seed, err = strconv.ParseInt(v, 10, 64)
		case "viewport.lazy":
			c.Viewport.Lazy, err = strconv.ParseBool(v)
		case "viewport.lazy_margin":
			c.Viewport.LazyMargin, err = strconv.Atoi(v)
		case "viewport.zoom":
			c.Viewport.Zoom, err = strconv.Atoi(v)
		case "viewport.camera_speed":
			c.Viewport.CameraSpeed, err = strconv.Atoi(v)
		case "screen.width":
			c.Screen.Width, err = strconv.Atoi(v)
		case "screen.height":
			c.Screen.Height, err = strconv.Atoi(v)
		case "screen.tps":
			c.Screen.TPS, err = strconv.Atoi(v)
		case "brush.type":
			c.Brush.Type = v
		case "brush.size":
			c.Brush.Size, err = strconv.Atoi(v)
		case "telemetry.window":
			c.Telemetry.Window, err = strconv.Atoi(v)
		case "telemetry.output_dir":
			c.Telemetry.OutputDir = v
		case "telemetry.log_stats":
			c.Telemetry.LogStats, err = strconv.ParseBool(v)
		case "scenario":
			c.Scenario = v
		case "particles":
			c.Particles = v
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
	}
	return nil
}

// WriteYAML saves the effective configuration.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// EngineConfig converts the engine section.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		ChunkWidth:  c.Engine.ChunkWidth,
		ChunkHeight: c.Engine.ChunkHeight,
		DefaultLife: c.Engine.DefaultLife,
		Seed:        c.Engine.Seed,
	}
}

// ParticleTable loads the configured particle table, or the built-in one when
// no path is set.
func (c *Config) ParticleTable() (*particle.Registry, error) {
	if c.Particles == "" {
		return particle.Default(), nil
	}
	return particle.LoadFile(c.Particles)
}

// BrushType resolves the configured brush particle in types.
func (c *Config) BrushType(types *particle.Registry) (particle.ID, error) {
	id, ok := types.Lookup(c.Brush.Type)
	if !ok {
		return particle.None, fmt.Errorf("brush.type: unknown particle %q", c.Brush.Type)
	}
	return id, nil
}
