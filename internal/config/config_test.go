package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
)

const tomlConfig = `
requires = ">= 0.1.0, < 1.0.0"

[compiler]
error_mode = "diagnostics"
verbose = true
jobs = 4

[sources]
paths = ["src", "lib"]
exclude = ["vendor"]

[output]
format = "json"
color = "never"
`

const yamlConfig = `
requires: ">= 0.1.0, < 1.0.0"
compiler:
  error_mode: diagnostics
  verbose: true
  jobs: 4
sources:
  paths: [src, lib]
  exclude: [vendor]
output:
  format: json
  color: never
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestTOMLAndYAMLAgree(t *testing.T) {
	dir := t.TempDir()
	fromTOML, err := Load(writeFile(t, dir, "muhigh.toml", tomlConfig))
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	fromYAML, err := Load(writeFile(t, dir, "muhigh.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	fromTOML.Path, fromYAML.Path = "", ""
	if !reflect.DeepEqual(fromTOML, fromYAML) {
		t.Fatalf("formats disagree:\ntoml=%+v\nyaml=%+v", fromTOML, fromYAML)
	}
	if fromTOML.Mode() != cerrors.DiagnosticsOnly || fromTOML.Compiler.Jobs != 4 {
		t.Fatalf("unexpected values %+v", fromTOML)
	}
	if err := fromTOML.Validate("0.3.0"); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[compiler]\nverbose = true\n"), FormatTOML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Compiler.ErrorMode != "strict" || cfg.Output.Format != "text" || len(cfg.Sources.Paths) != 1 {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	empty, err := Parse(nil, FormatYAML)
	if err != nil {
		t.Fatalf("an empty YAML file should give defaults: %v", err)
	}
	if !reflect.DeepEqual(empty, Default()) {
		t.Fatalf("unexpected config %+v", empty)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatTOML, "[compiler]\nerror_mod = \"strict\"\n"},
		{FormatYAML, "compiler:\n  error_mod: strict\n"},
	}

	for i, tt := range tests {
		if _, err := Parse([]byte(tt.input), tt.format); err == nil {
			t.Errorf("tests[%d] - %s: expected an unknown-key error", i, tt.format)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MUHIGH_ERROR_MODE": "diagnostics",
		"MUHIGH_VERBOSE":    "true",
		"MUHIGH_JOBS":       "8",
		"MUHIGH_FORMAT":     "lsp",
		"MUHIGH_COLOR":      "always",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := CompilerConfig{ErrorMode: "diagnostics", Verbose: true, Jobs: 8}
	if cfg.Compiler != want || cfg.Output.Format != "lsp" || cfg.Output.Color != "always" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	env["MUHIGH_JOBS"] = "many"
	if err := Default().ApplyEnv(lookup); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad mode", func(c *Config) { c.Compiler.ErrorMode = "loose" }, false},
		{"negative jobs", func(c *Config) { c.Compiler.Jobs = -1 }, false},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, false},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }, false},
		{"satisfied requires", func(c *Config) { c.Requires = "^0.1" }, true},
		{"unsatisfied requires", func(c *Config) { c.Requires = ">= 2.0.0" }, false},
		{"malformed requires", func(c *Config) { c.Requires = "not a constraint" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate("0.1.0")
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeFile(t, root, "muhigh.yaml", yamlConfig)

	got, err := Discover(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("discovered wrong file. expected=%s, got=%s", want, got)
	}

	cfg, err := Resolve("", nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != want || cfg.Output.Format != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestResolveDefaultsWithoutFile(t *testing.T) {
	cfg, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "" {
		// a muhigh.toml above the temp dir would be picked up here
		t.Skipf("found %s above the temp dir", cfg.Path)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"), "."); err == nil {
		t.Fatalf("an explicit missing file must fail")
	}
}
