package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"mad-sand/internal/config"
)

// Config represents the command-line parameters shared by the sandbox
// binaries.
type Config struct {
	ConfigPath string
	Scenario   string
	Seed       int64
	LogFormat  string
	LogLevel   string
	Debug      bool
	Overrides  KVList
}

// NewConfig returns a Config populated with sensible defaults. A zero Seed
// and an empty Scenario keep the values from the config file.
func NewConfig() *Config {
	return &Config{LogFormat: "text", LogLevel: "info", Overrides: KVList{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	if c.Overrides == nil {
		c.Overrides = KVList{}
	}
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file merged over the defaults")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "scenario to load at start")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the engine and scenario (0 keeps the config value)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log output format: text or json")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "shorthand for -log-level debug")
	fs.Var(c.Overrides, "set", "config override key=value, repeatable (e.g. -set engine.chunk_width=8)")
}

// Load builds the effective sandbox configuration: defaults, the config file,
// -set overrides and finally the dedicated flags.
func (c *Config) Load() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(c.Overrides); err != nil {
		return nil, err
	}
	if c.Scenario != "" {
		cfg.Scenario = c.Scenario
	}
	if c.Seed != 0 {
		cfg.Engine.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Logger builds the slog logger selected by the flags.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	name := c.LogLevel
	if c.Debug {
		name = "debug"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.LogFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
	}
}

// KVList collects repeated key=value flags.
type KVList map[string]string

func (kv KVList) String() string {
	parts := make([]string, 0, len(kv))
	for k, v := range kv {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Set parses one key=value pair.
func (kv KVList) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	kv[k] = v
	return nil
}
