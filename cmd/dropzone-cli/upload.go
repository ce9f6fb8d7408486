package main

import (
	"os"

	"github.com/sagarc03/dropzone/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadFolder    string
	uploadName      string
	uploadNoExt     bool
	uploadRecursive bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a file to the server",
	Long: `Upload a file and print the URL it is served under.

Without --name the server generates a short random name. The extension is
detected from the file content unless --no-ext is given.

Examples:
  dropzone-cli upload ./shot.png
  dropzone-cli upload --folder shots --name today ./shot.png
  dropzone-cli upload -r --folder logs ./logs/`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFolder, "folder", "f", "", "folder to store the file in")
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "file name to store under (default: random)")
	uploadCmd.Flags().BoolVar(&uploadNoExt, "no-ext", false, "do not append a detected extension")
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload every file in a directory")
}

func runUpload(cmd *cobra.Command, args []string) error {
	formatter := getFormatter()

	client, err := getClient()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	results, err := client.Upload(cmd.Context(), clientcli.UploadOptions{
		LocalPath:     args[0],
		Folder:        uploadFolder,
		Name:          uploadName,
		DropExtension: uploadNoExt,
		Recursive:     uploadRecursive,
	})
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	if err := formatter.FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return nil
}
