package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/ui"
)

var setMetadataCmd = &cobra.Command{
	Use:   "set_metadata <files>",
	Short: "Add metadata to files, if it doesn't exist",
	Long: `Insert a metadata block into every file that lacks one. The name
defaults to the file name without extension and the description is left
empty. Files that already carry a block are not touched.

Example:
  rightscript_sync set_metadata scripts/*.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSetMetadata,
}

func init() {
	rootCmd.AddCommand(setMetadataCmd)
}

func runSetMetadata(cmd *cobra.Command, args []string) error {
	// Purely local, so no credentials are loaded.
	changed, err := newEngine(cmd, nil).SetMetadata(args)
	if err != nil {
		return err
	}

	if len(changed) == 0 {
		fmt.Fprintln(output(cmd), ui.StatusSkipped("All files already have metadata"))
	}
	return nil
}
