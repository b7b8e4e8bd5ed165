package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/ui"
)

var (
	listFilter string
	listJSON   bool
	listToon   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List RightScripts",
	Long: `List the editable (revision 0) RightScripts in the account with a
link to each one in the dashboard.

Examples:
  rightscript_sync list
  rightscript_sync list --filter nginx
  rightscript_sync list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Filter names according to a name pattern")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

func runList(cmd *cobra.Command, args []string) error {
	remote, err := newRemote()
	if err != nil {
		return err
	}

	listings, err := newEngine(cmd, remote).List(context.Background(), listFilter)
	if err != nil {
		return err
	}

	out := output(cmd)

	if listJSON {
		data, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if listToon {
		data, err := gotoon.Encode(listings)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(out, data)
		return nil
	}

	if len(listings) == 0 {
		fmt.Fprintln(out, "No RightScripts found")
		return nil
	}

	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Name, l.Href})
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Table([]string{"Name", "HREF"}, rows))
	return nil
}
