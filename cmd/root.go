package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/config"
	"github.com/Niarfe/scripts-r-us/internal/logging"
	"github.com/Niarfe/scripts-r-us/internal/rightscale"
	"github.com/Niarfe/scripts-r-us/internal/syncer"
	"github.com/Niarfe/scripts-r-us/internal/ui"
)

var (
	cfgFile string
	verbose bool
	logJSON bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "rightscript_sync",
	Short: "Sync RightScripts between local files and RightScale",
	Long: `rightscript_sync pushes and pulls RightScript source between local files
and the RightScale API. Each file carries its metadata in a comment block:

  # ---
  # RightScript Name: install-nginx
  # Description: Installs nginx
  # Packages:
  # ...
  #

Credentials are read from a right_api_client style login file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
		ui.ConfigureColors(noColor, os.Stdout)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.StatusError("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath(), "The path to the configuration file containing the RightScale API credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.SetDefault(logging.New(logging.Options{Level: level, JSON: logJSON}))
}

// newRemote builds the remote collaborator from the credentials file.
// Tests replace it with a fake.
var newRemote = func() (syncer.Remote, error) {
	if err := config.Load(cfgFile); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return rightscale.NewClient(rightscale.Options{
		APIURL:       config.GetAPIURL(),
		AccountID:    config.GetAccountID(),
		RefreshToken: config.GetRefreshToken(),
		HTTPClient:   &http.Client{Timeout: config.GetTimeout()},
		Logger:       logging.Default(),
	})
}

// output returns where a command writes; runX functions accept a nil cmd
func output(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func newEngine(cmd *cobra.Command, remote syncer.Remote) *syncer.Engine {
	return syncer.New(remote, syncer.Options{Out: output(cmd), Logger: logging.Default()})
}
