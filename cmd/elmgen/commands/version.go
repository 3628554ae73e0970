package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Show elmgen version information",
	Long:              `Display version, build time, commit hash, and platform information for the elmgen binary.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupWithoutConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		info := version.Get()
		out := cmd.OutOrStdout()

		if jsonOutput {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to format version as JSON")
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintln(out, info.String())
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
