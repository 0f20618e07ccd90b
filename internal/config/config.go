// Package config loads exprua.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"exprua/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "exprua.toml"

// ErrBadVar reports a [vars] entry that is not a string expression.
var ErrBadVar = errors.New("[vars] values must be expression strings")

type EngineConfig struct {
	MaxDepth   int  `toml:"max_depth"`
	Precision  int  `toml:"precision"`
	CheckArity bool `toml:"check_arity"`
}

type OutputConfig struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json|msgpack
}

type TraceConfig struct {
	Level    string `toml:"level"`  // off|error|phase|detail|debug
	Output   string `toml:"output"` // '-' = stderr
	Mode     string `toml:"mode"`   // stream|ring|both
	RingSize int    `toml:"ring_size"`
}

// Var is one [vars] entry; order follows the file.
type Var struct {
	Name   string
	Source string
}

// Config is the decoded file. Path is empty for defaults.
type Config struct {
	Path   string       `toml:"-"`
	Engine EngineConfig `toml:"engine"`
	Output OutputConfig `toml:"output"`
	Trace  TraceConfig  `toml:"trace"`
	Vars   []Var        `toml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Engine: EngineConfig{MaxDepth: 256, Precision: 12},
		Output: OutputConfig{Color: "auto", Format: "pretty"},
		Trace:  TraceConfig{Level: "off", Output: "-", Mode: "stream", RingSize: 4096},
	}
}

// Find walks up from startDir to locate exprua.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	var raw struct {
		Vars map[string]any `toml:"vars"`
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	// порядок [vars] берём из метаданных: map его не сохраняет
	for _, key := range meta.Keys() {
		if len(key) != 2 || key[0] != "vars" {
			continue
		}
		src, ok := raw.Vars[key[1]].(string)
		if !ok {
			return Config{}, fmt.Errorf("%s: vars.%s: %w", path, key[1], ErrBadVar)
		}
		cfg.Vars = append(cfg.Vars, Var{Name: key[1], Source: src})
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var unknown []string
		for _, k := range undecoded {
			if k[0] != "vars" {
				unknown = append(unknown, k.String())
			}
		}
		if len(unknown) > 0 {
			return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(unknown, ", "))
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit if set, else the nearest exprua.toml above
// startDir, else Default.
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("output.color: invalid value %q (expected: auto|on|off)", c.Output.Color)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("trace.level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("trace.mode: %w", err)
	}
	if c.Engine.MaxDepth < 0 {
		return fmt.Errorf("engine.max_depth: must not be negative")
	}
	if c.Engine.Precision < 0 || c.Engine.Precision > 17 {
		return fmt.Errorf("engine.precision: must be between 0 and 17")
	}
	return nil
}

// TraceSetup converts the [trace] table into a tracer configuration.
func (c Config) TraceSetup() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}
