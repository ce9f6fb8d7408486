package main

import (
	"io"
	"os"

	"github.com/sagarc03/dropzone/clientcli"
	"github.com/spf13/cobra"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <remote-path|url>",
	Short: "Download a stored file",
	Long: `Download a stored file by its path or by the URL printed by upload.

Examples:
  dropzone-cli download /shots/Ab3dE.png
  dropzone-cli download -o today.png http://localhost:3000/shots/Ab3dE.png
  dropzone-cli download -o - notes.txt | less`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", `output file, "-" for stdout (default: remote base name)`)
}

func runDownload(cmd *cobra.Command, args []string) error {
	formatter := getFormatter()

	client, err := getClient()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	result, body, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		RemotePath: args[0],
		LocalPath:  downloadOutput,
	})
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	if body == nil {
		return formatter.FormatDownload(os.Stdout, result)
	}

	defer func() { _ = body.Close() }()
	if _, err := io.Copy(os.Stdout, body); err != nil {
		return err
	}
	if jsonOutput {
		return formatter.FormatDownload(os.Stderr, result)
	}
	return nil
}
