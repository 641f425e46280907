// Package config loads the project configuration of the μHigh tools.
//
// A project is configured by muhigh.toml or muhigh.yaml. Values are layered
// in this order, later layers winning: built-in defaults, the file,
// MUHIGH_* environment variables and finally command-line flags (applied
// by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format
type Format int

const (
	// FormatAuto detects the format from the file extension.
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// FileNames are the configuration file names looked for, in priority order.
var FileNames = []string{"muhigh.toml", "muhigh.yaml", "muhigh.yml"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the project configuration.
type Config struct {
	// Requires is a semver constraint the running tool version must meet.
	Requires string         `toml:"requires" yaml:"requires"`
	Compiler CompilerConfig `toml:"compiler" yaml:"compiler"`
	Sources  SourcesConfig  `toml:"sources" yaml:"sources"`
	Output   OutputConfig   `toml:"output" yaml:"output"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type CompilerConfig struct {
	ErrorMode string `toml:"error_mode" yaml:"error_mode"`
	Verbose   bool   `toml:"verbose" yaml:"verbose"`
	// Jobs bounds parallel units; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs" yaml:"jobs"`
}

type SourcesConfig struct {
	Paths   []string `toml:"paths" yaml:"paths"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  string `toml:"color" yaml:"color"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{ErrorMode: "strict"},
		Sources:  SourcesConfig{Paths: []string{"."}},
		Output:   OutputConfig{Format: "text", Color: "auto"},
	}
}

// Load reads the configuration file at path. The format follows the file
// extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes data on top of the defaults. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML, FormatAuto:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}

// Discover looks for a configuration file in dir and each of its parents.
// It returns "" without error when none exists.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve loads explicit when set, otherwise the file discovered from dir,
// otherwise the defaults.
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, err := Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
