// Package am loads elmgen settings ("am" as in "I am configured to ...").
//
// Sources merge in precedence order, lowest first: built-in defaults, the
// user file (~/.elmgen/elmgen.toml), the nearest project elmgen.toml found
// by walking up from the working directory, then ELMGEN_* environment
// variables. Command-line flags are bound on top by the CLI.
package am

// Config represents the elmgen configuration
type Config struct {
	Module string `mapstructure:"module" toml:"module"` // Elm module name, e.g. "Api.Types"
	Input  string `mapstructure:"input" toml:"input"`   // Rust source or tree document
	Output string `mapstructure:"output" toml:"output"` // Elm file; empty or "-" = stdout
	Format string `mapstructure:"format" toml:"format"` // rust | tree (auto from extension when empty)
	Marker string `mapstructure:"marker" toml:"marker"` // trait name that marks exports
	Strict bool   `mapstructure:"strict" toml:"strict"` // fail on dangling references

	Log   LogConfig   `mapstructure:"log" toml:"log"`
	Watch WatchConfig `mapstructure:"watch" toml:"watch"`
}

// LogConfig configures diagnostics on stderr
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // 0 warn, 1 info, 2+ debug
}

// WatchConfig configures `elmgen watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // quiet period before regenerating
}

// Input formats
const (
	FormatRust = "rust"
	FormatTree = "tree"
)

// Configuration file names
const (
	ConfigFileName = "elmgen.toml"
	UserConfigDir  = ".elmgen"
	EnvPrefix      = "ELMGEN"
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
