package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MUHIGH_"

var (
	outputFormats = []string{"text", "json", "lsp"}
	colorModes    = []string{"auto", "always", "never"}
)

// ApplyEnv overrides values from MUHIGH_ERROR_MODE, MUHIGH_VERBOSE,
// MUHIGH_JOBS, MUHIGH_FORMAT and MUHIGH_COLOR. A nil lookup reads the
// process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvPrefix + "ERROR_MODE"); ok {
		c.Compiler.ErrorMode = v
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sVERBOSE=%q is not a boolean", ErrInvalid, EnvPrefix, v)
		}
		c.Compiler.Verbose = b
	}
	if v, ok := lookup(EnvPrefix + "JOBS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sJOBS=%q is not an integer", ErrInvalid, EnvPrefix, v)
		}
		c.Compiler.Jobs = n
	}
	if v, ok := lookup(EnvPrefix + "FORMAT"); ok {
		c.Output.Format = v
	}
	if v, ok := lookup(EnvPrefix + "COLOR"); ok {
		c.Output.Color = v
	}
	return nil
}

// Mode returns the configured error mode. Call Validate first; an invalid
// value yields strict.
func (c *Config) Mode() cerrors.Mode {
	mode, _ := cerrors.ParseMode(c.Compiler.ErrorMode)
	return mode
}

// Validate checks every field and that toolVersion satisfies Requires.
func (c *Config) Validate(toolVersion string) error {
	if _, err := cerrors.ParseMode(c.Compiler.ErrorMode); err != nil {
		return fmt.Errorf("%w: compiler.error_mode: %v", ErrInvalid, err)
	}
	if c.Compiler.Jobs < 0 {
		return fmt.Errorf("%w: compiler.jobs must not be negative, got %d", ErrInvalid, c.Compiler.Jobs)
	}
	if !slices.Contains(outputFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: output.format %q (want one of %s)", ErrInvalid,
			c.Output.Format, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(colorModes, strings.ToLower(c.Output.Color)) {
		return fmt.Errorf("%w: output.color %q (want one of %s)", ErrInvalid,
			c.Output.Color, strings.Join(colorModes, ", "))
	}
	return c.CheckCompatibility(toolVersion)
}

// CheckCompatibility reports whether version satisfies the Requires
// constraint. An empty constraint accepts every version.
func (c *Config) CheckCompatibility(version string) error {
	if strings.TrimSpace(c.Requires) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("%w: requires %q: %v", ErrInvalid, c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: tool version %q: %v", ErrInvalid, version, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("%w: muhigh %s does not satisfy requires %q: %s",
			ErrInvalid, v, c.Requires, strings.Join(msgs, "; "))
	}
	return nil
}
