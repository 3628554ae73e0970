package am

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultMarker     = "ElmExport"
	DefaultDebounceMS = 200
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("module", "")
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", "")
	v.SetDefault("marker", DefaultMarker)
	v.SetDefault("strict", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// BindEnvVars binds every key to ELMGEN_<KEY>, with dots as underscores
// (log.json -> ELMGEN_LOG_JSON).
func BindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// EnvName returns the environment variable that overrides key
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// InputFormat returns the configured format, or infers it from the input
// extension: .yaml, .yml and .json are tree documents, anything else is Rust.
func (c *Config) InputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(c.Input)) {
	case ".yaml", ".yml", ".json":
		return FormatTree
	}
	return FormatRust
}

// WritesStdout reports whether generated output goes to stdout
func (c *Config) WritesStdout() bool {
	return c.Output == "" || c.Output == "-"
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Module: %s, Input: %s, Output: %s, Format: %s, Marker: %s, Strict: %t}",
		c.Module, c.Input, c.Output, c.InputFormat(), c.Marker, c.Strict)
}
