package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax/tree"
)

// TreeCmd dumps the declarations elmgen reads from a file
var TreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the declaration tree of an input file as YAML",
	Long: `Print the structs, enums and impls read from an input file as a YAML
tree document. Other items appear with their kind and name only.

The output is itself valid input for "elmgen generate --format tree", which
makes it a convenient fixture format.

Examples:
  elmgen tree -i src/types.rs
  elmgen tree -i src/types.rs > types.yaml`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	TreeCmd.Flags().StringP("input", "i", "", "Rust source file or tree document")
	TreeCmd.Flags().String("format", "", "Input format: rust or tree (default: from extension)")
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, binding{"input", "input"}, binding{"format", "format"})
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return errors.WithHint(errors.Wrap(errors.ErrInvalidConfig, "input is required"), "pass -i/--input")
	}

	file, err := readSource(cfg.Input, cfg.InputFormat())
	if err != nil {
		return err
	}
	return tree.Encode(cmd.OutOrStdout(), file)
}
