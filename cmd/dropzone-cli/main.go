package main

import (
	"errors"
	"os"

	"github.com/sagarc03/dropzone/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	serversFile string
	serverName  string
	endpoint    string
	username    string
	password    string
	jsonOutput  bool
	quiet       bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:          "dropzone-cli",
	Version:      version,
	Short:        "Client for the dropzone upload server",
	SilenceUsage: true,
	Long: `dropzone-cli uploads files to a dropzone server, lists what it stores and
downloads stored files.

Settings are resolved in this order, later entries winning:
  1. the selected saved server (see 'dropzone-cli server')
  2. DROPZONE_ENDPOINT, DROPZONE_USERNAME and DROPZONE_PASSWORD
  3. command line flags`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serversFile, "servers-file", "", "saved servers (default: ~/.dropzone/servers.yaml, env: "+clientcli.EnvServersFile+")")
	rootCmd.PersistentFlags().StringVarP(&serverName, "server", "s", "", "saved server to use (env: "+clientcli.EnvServer+")")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: "+clientcli.DefaultEndpoint+")")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "basic auth username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "basic auth password")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(serverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getServersPath() string {
	if serversFile != "" {
		return serversFile
	}
	if p := os.Getenv(clientcli.EnvServersFile); p != "" {
		return p
	}
	return clientcli.DefaultServersPath()
}

// buildConfig layers the saved server, the environment and the flags.
func buildConfig() (*clientcli.Config, error) {
	servers, err := clientcli.LoadServers(getServersPath())
	if err != nil {
		return nil, err
	}

	name := serverName
	if name == "" {
		name = os.Getenv(clientcli.EnvServer)
	}

	var cfg clientcli.Config
	srv, _, err := servers.Lookup(name)
	switch {
	case err == nil:
		cfg = srv.Config()
	case name == "" && errors.Is(err, clientcli.ErrNoServer):
		// Nothing saved or selected: run on env and flags alone.
	default:
		return nil, err
	}

	cfg = cfg.
		Overlay(clientcli.EnvConfig()).
		Overlay(clientcli.Config{Endpoint: endpoint, Username: username, Password: password})
	return &cfg, nil
}

func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet, noColor)
}

func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}
