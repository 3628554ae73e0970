package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/am"
)

// InitCmd writes a starter elmgen.toml
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter elmgen.toml",
	Long: `Write an elmgen.toml in the current directory (or at --config) holding
the module, input and output, so later runs need no flags.

An existing file is only replaced with --force; the previous version is
kept as elmgen.toml.back1 (up to three backups rotate).

Examples:
  elmgen init -m Api.Types -i src/types.rs -o elm/Api/Types.elm
  elmgen init --force -m Api.V2`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupWithoutConfig,
	RunE:              runInit,
}

func init() {
	InitCmd.Flags().StringP("module", "m", "", "Elm module name, e.g. Api.Types")
	InitCmd.Flags().StringP("input", "i", "", "Rust source file")
	InitCmd.Flags().StringP("output", "o", "", "Elm file to write")
	InitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	module, _ := cmd.Flags().GetString("module")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	if module != "" {
		if err := am.ValidateModuleName(module); err != nil {
			return err
		}
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = am.ConfigFileName
	}

	if err := am.WriteConfig(path, am.Starter(module, input, output), force); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Wrote %s", path)
	return nil
}
