package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Niarfe/scripts-r-us/internal/syncer"
)

var (
	downloadID   int
	downloadName string
)

var downloadCmd = &cobra.Command{
	Use:   "download <file> [-n NAME | -i ID]",
	Short: "Download RightScript to file",
	Long: `Fetch a RightScript's source by id or by exact name and save it.

Use "-" as the file to print the source to standard output. A saved file
that has no metadata block gets one built from the RightScript's name and
description.

Examples:
  rightscript_sync download install.sh --name install
  rightscript_sync download - --id 123456`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntVarP(&downloadID, "id", "i", 0, "RightScript ID number to download")
	downloadCmd.Flags().StringVarP(&downloadName, "name", "n", "", "RightScript Name to download")
}

func runDownload(cmd *cobra.Command, args []string) error {
	req := syncer.DownloadRequest{Target: args[0], Name: downloadName}
	if downloadID != 0 {
		req.ID = strconv.Itoa(downloadID)
	}

	if err := req.Validate(); err != nil {
		return err
	}

	remote, err := newRemote()
	if err != nil {
		return err
	}

	return newEngine(cmd, remote).Download(context.Background(), req)
}
