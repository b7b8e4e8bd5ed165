package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/ui"
)

var uploadForce bool

var uploadCmd = &cobra.Command{
	Use:   "upload <files>",
	Short: "Upload RightScript from file or directory",
	Long: `Push local script files to the RightScripts of the same name.

The target is found by the "RightScript Name" in the file's metadata block,
or by the file name without extension when the file has none. Files with no
metadata abort the whole upload unless --force is given. New RightScripts
are never created.

Examples:
  rightscript_sync upload scripts/*.sh
  rightscript_sync upload --force install.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolVarP(&uploadForce, "force", "f", false, "Force upload of files without metadata")
}

func runUpload(cmd *cobra.Command, args []string) error {
	remote, err := newRemote()
	if err != nil {
		return err
	}

	result, err := newEngine(cmd, remote).Upload(context.Background(), args, uploadForce)
	if err != nil {
		return err
	}

	out := output(cmd)
	fmt.Fprintln(out, ui.StatusSuccess(fmt.Sprintf("Pushed %d file(s)", len(result.Pushed))))
	if len(result.Skipped) > 0 {
		fmt.Fprintln(out, ui.StatusWarning(fmt.Sprintf("Skipped %d file(s):", len(result.Skipped))))
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  %s: %v\n", s.Path, s.Reason)
		}
	}
	return nil
}
