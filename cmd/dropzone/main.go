package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/dropzone/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "dropzone",
	Short:   "Minimal file drop server",
	Long: `Dropzone accepts file uploads over HTTP and serves them back from a
local directory. Uploads are indexed in SQLite or PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logCloser = setupLogging(cfg.Env, cfg.Log)

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeat to merge (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: DROPZONE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: dropzone.db, env: DROPZONE_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: DROPZONE_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: DROPZONE_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		closeLogging()
		os.Exit(1)
	}
}
