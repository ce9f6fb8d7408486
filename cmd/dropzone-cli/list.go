package main

import (
	"os"

	"github.com/sagarc03/dropzone/clientcli"
	"github.com/spf13/cobra"
)

var (
	listPrefix string
	listLimit  int
	listAll    bool
	listCursor string
)

var listCmd = &cobra.Command{
	Use:     "list [prefix]",
	Aliases: []string{"ls"},
	Short:   "List uploaded files",
	Long: `List uploaded files in the order they were created.

Examples:
  dropzone-cli list
  dropzone-cli list shots/
  dropzone-cli list --limit 10
  dropzone-cli list --all --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "filter by path prefix")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 100, "max results per page (max: 1000)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "fetch all pages")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "pagination cursor")
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := listPrefix
	if len(args) > 0 {
		prefix = args[0]
	}

	formatter := getFormatter()

	client, err := getClient()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	result, err := client.List(cmd.Context(), clientcli.ListOptions{
		Prefix: prefix,
		Limit:  listLimit,
		Cursor: listCursor,
		All:    listAll,
	})
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	return formatter.FormatList(os.Stdout, result)
}
