package am

import (
	"regexp"

	"github.com/teranos/elmgen/errors"
)

var (
	// Api, Api.Types, Game.V2.Cards
	elmModulePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*(\.[A-Z][A-Za-z0-9_]*)*$`)
	rustIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateModuleName checks that name is a dot-separated list of
// capitalised Elm identifiers.
func ValidateModuleName(name string) error {
	if name == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "module name is required"),
			"pass -m/--module or set module in elmgen.toml",
		)
	}
	if !elmModulePattern.MatchString(name) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "module %q is not a valid Elm module name", name),
			"use capitalised segments separated by dots, e.g. Api.Types",
		)
	}
	return nil
}

// Validate checks that the configuration can drive a generate run
func (c *Config) Validate() error {
	if err := ValidateModuleName(c.Module); err != nil {
		return err
	}

	if c.Input == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "input is required"),
			"pass -i/--input or set input in elmgen.toml",
		)
	}

	if c.Marker != "" && !rustIdentPattern.MatchString(c.Marker) {
		return errors.Wrapf(errors.ErrInvalidConfig, "marker %q is not a Rust identifier", c.Marker)
	}

	switch c.Format {
	case "", FormatRust, FormatTree:
	default:
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "format %q", c.Format),
			"format is rust or tree",
		)
	}

	// Verbosity: 0 = warnings only, negative = invalid
	if c.Log.Verbosity < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// Debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
