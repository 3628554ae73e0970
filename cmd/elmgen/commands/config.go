package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/elmgen/am"
	"github.com/teranos/elmgen/errors"
)

// ConfigCmd inspects the effective configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective elmgen configuration",
	Long: `Display the configuration elmgen would run with, merged from defaults,
~/.elmgen/elmgen.toml, the project elmgen.toml and ELMGEN_* variables.

Examples:
  elmgen config show                  # merged configuration as TOML
  elmgen config show --format json
  elmgen config where                 # which source set each key
  elmgen config validate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	Args:  cobra.NoArgs,
	RunE:  runConfigWhere,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration can drive a generate run",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal config to %s", format)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.Introspect()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]      Built-in defaults")
	fmt.Fprintf(out, "  2. [USER]         %s\n", am.UserConfigPath())
	fmt.Fprintf(out, "  3. [PROJECT]      %s\n", orNone(am.ProjectConfigPath()))
	fmt.Fprintf(out, "  4. [ENVIRONMENT]  %s_* variables\n", am.EnvPrefix)
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render settings")
	}
	fmt.Fprintln(out, table)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Println("Configuration is valid")
	return nil
}

func orNone(path string) string {
	if path == "" {
		return "(none found)"
	}
	return path
}
