package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Index existing files in the storage directory",
	Long: `Scan the storage directory and record every file in the upload index.
Files already indexed with the same content are skipped. This is useful when:
  - Setting up dropzone over a directory that already holds files
  - Recovering the index after database loss
  - Picking up files copied into the directory by hand`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("auto-migrate", true, "create missing database tables")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("scanning storage directory", "path", a.cfg.Storage.Path)

	indexed, err := a.service.Populate(ctx)
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}

	slog.Info("initialization complete", "files_indexed", indexed)
	return nil
}
