// Package commands implements the elmgen command line.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/am"
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
)

// Exit codes
const (
	ExitOK      = 0
	ExitDrift   = 1 // generate --check found an out-of-date file
	ExitFailure = 2
)

// RootCmd is the elmgen command
var RootCmd = &cobra.Command{
	Use:   "elmgen",
	Short: "Generate Elm types and JSON codecs from Rust declarations",
	Long: `elmgen - Elm types and JSON codecs from Rust declarations.

Reads a Rust source file, finds every struct and enum marked with
"impl ElmExport for Name {}", and writes one Elm module with a type,
a JSON encoder and a JSON decoder for each of them. The JSON layout
matches serde's default (externally tagged) representation.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ELMGEN_* prefix)
3. Project config (elmgen.toml, searched up from the working directory)
4. User config (~/.elmgen/elmgen.toml)
5. Default values

Examples:
  elmgen generate -i src/types.rs -o elm/Api/Types.elm -m Api.Types
  elmgen generate --check            # fail if the Elm file is stale
  elmgen watch                       # regenerate on every save
  elmgen tree -i src/types.rs        # show what the reader sees
  elmgen init -m Api.Types -i src/types.rs -o elm/Api/Types.elm`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// whether diagnostics on stderr may use ANSI colours
var colorOutput bool

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	RootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	RootCmd.PersistentFlags().String("config", "", "Config file (default: nearest elmgen.toml)")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(TreeCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	reportError(RootCmd.ErrOrStderr(), err)
	return ExitCode(err)
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errors.ErrDrift):
		return ExitDrift
	default:
		return ExitFailure
	}
}

// setup pins the config file, then initialises the logger from the merged
// configuration. Runs before every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	initColor(cmd)

	path, _ := cmd.Flags().GetString("config")
	am.SetConfigFile(path)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return initLogger(cmd, cfg.Log)
}

// setupWithoutConfig is setup for commands that must run before any config
// file exists: logging follows the flags alone.
func setupWithoutConfig(cmd *cobra.Command, args []string) error {
	initColor(cmd)

	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return initLogger(cmd, am.LogConfig{JSON: jsonLogs, Verbosity: verbosity})
}

func initColor(cmd *cobra.Command) {
	colorOutput = logger.IsTerminal(cmd.ErrOrStderr())
	if colorOutput {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

func initLogger(cmd *cobra.Command, cfg am.LogConfig) error {
	if err := logger.InitializeWithWriter(cfg.JSON, cfg.Verbosity, cmd.ErrOrStderr()); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// binding ties a config key to a command-line flag
type binding struct {
	key  string
	flag string
}

var rootBindings = []binding{
	{"log.verbosity", "verbose"},
	{"log.json", "json-logs"},
}

// loadConfig binds the command's flags over the merged file and environment
// configuration. Flags only win when set explicitly.
func loadConfig(cmd *cobra.Command, bindings ...binding) (*am.Config, error) {
	v, err := am.GetViper()
	if err != nil {
		return nil, err
	}
	for _, b := range append(rootBindings, bindings...) {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return nil, errors.Wrapf(err, "failed to bind --%s", b.flag)
		}
	}
	return am.LoadWithViper(v)
}

// reportError prints err with its details (source excerpt, diff) and hints
func reportError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, detail := range errors.GetAllDetails(err) {
		fmt.Fprintln(w, strings.TrimRight(detail, "\n"))
	}
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(w).Println(hint)
	}
}
