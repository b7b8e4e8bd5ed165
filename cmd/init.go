package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Niarfe/scripts-r-us/internal/config"
	"github.com/Niarfe/scripts-r-us/internal/rightscale"
	"github.com/Niarfe/scripts-r-us/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a credentials file",
	Long: `Write a credentials file skeleton to the --config path
(default ~/.right_api_client/login.yml) if none exists yet.

Fill in account_id and refresh_token afterwards; both can also be given
through RIGHTSCRIPT_SYNC_ACCOUNT_ID and RIGHTSCRIPT_SYNC_REFRESH_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := output(cmd)

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Config already exists: %s\n", path)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := yaml.Marshal(config.Skeleton{
		APIURL:  rightscale.DefaultURL,
		Timeout: int(rightscale.DefaultTimeout.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintln(out, ui.StatusSuccess("Created default config: "+path))
	fmt.Fprintln(out, "  Fill in account_id and refresh_token before running list, upload or download")
	return nil
}
