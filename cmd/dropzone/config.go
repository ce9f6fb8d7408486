package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/dropzone/config"
)

// loadConfig reads the files named by --config and layers env and the
// flags of cmd on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, err := cmd.Flags().GetStringSlice("config")
	if err != nil {
		return nil, fmt.Errorf("read --config: %w", err)
	}

	cfg, err := config.Load(files, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
