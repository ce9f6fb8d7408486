package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/dropzone/clientcli"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage saved servers",
	Long: `Manage the servers saved in ~/.dropzone/servers.yaml.

Each server keeps an endpoint and, for servers with auth enabled, the basic
auth credentials of its upload routes. Pick one with --server or
DROPZONE_SERVER; otherwise the current server is used.`,
}

var (
	addUse     bool
	addNoCheck bool
)

var serverAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a server, replacing any with the same name",
	Long: `Save a server from the global --endpoint, --username and --password
flags. Without --endpoint the endpoint and username are prompted for; a
username without --password prompts for the password.

The credentials are checked against the listing API before saving.

Examples:
  dropzone-cli server add home --endpoint http://nas:3000
  dropzone-cli server add work --endpoint https://drop.example.com --username alice --use`,
	Args: cobra.ExactArgs(1),
	RunE: runServerAdd,
}

var serverListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved servers",
	Args:    cobra.NoArgs,
	RunE:    runServerList,
}

var serverRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Forget a saved server",
	Args:    cobra.ExactArgs(1),
	RunE:    runServerRemove,
}

func init() {
	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverRemoveCmd)

	serverAddCmd.Flags().BoolVar(&addUse, "use", false, "make this the current server")
	serverAddCmd.Flags().BoolVar(&addNoCheck, "no-check", false, "save without contacting the server")
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	path := getServersPath()

	servers, err := clientcli.LoadServers(path)
	if err != nil {
		return err
	}

	srv, err := promptServer(endpoint, username, password)
	if err != nil {
		return err
	}

	if !addNoCheck {
		if err := checkServer(cmd.Context(), *srv); err != nil {
			fmt.Printf("Warning: %v\n", err)
			if !confirm("Save anyway") {
				fmt.Println("Cancelled.")
				return nil
			}
		}
	}

	if err := servers.Put(name, *srv, addUse); err != nil {
		return err
	}
	if err := servers.Save(path); err != nil {
		return err
	}

	fmt.Printf("Server '%s' saved.\n", name)
	if servers.Current == name {
		fmt.Println("It is the current server.")
	}
	return nil
}

// promptServer fills in what the flags left out.
func promptServer(endpointURL, user, pass string) (*clientcli.Server, error) {
	var err error
	if endpointURL == "" {
		prompt := promptui.Prompt{
			Label:   "Endpoint URL",
			Default: clientcli.DefaultEndpoint,
			Validate: func(s string) error {
				return clientcli.Server{Endpoint: s}.Validate()
			},
		}
		if endpointURL, err = prompt.Run(); err != nil {
			return nil, promptErr(err)
		}
		if user == "" {
			prompt := promptui.Prompt{Label: "Username (empty for an open server)"}
			if user, err = prompt.Run(); err != nil {
				return nil, promptErr(err)
			}
		}
	}

	srv := &clientcli.Server{Endpoint: strings.TrimSuffix(endpointURL, "/"), Username: user, Password: pass}
	if user != "" && pass == "" {
		prompt := promptui.Prompt{Label: "Password for " + user, Mask: '*'}
		if srv.Password, err = prompt.Run(); err != nil {
			return nil, promptErr(err)
		}
	}

	return srv, srv.Validate()
}

// checkServer lists one upload, which exercises both reachability and the
// credentials.
func checkServer(ctx context.Context, srv clientcli.Server) error {
	cfg := srv.Config()
	client, err := clientcli.New(&cfg, clientcli.WithTimeout(5*time.Second))
	if err != nil {
		return err
	}

	_, err = client.List(ctx, clientcli.ListOptions{Limit: 1})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, clientcli.ErrUnauthorized):
		return fmt.Errorf("%s rejected the credentials", srv.Endpoint)
	default:
		return fmt.Errorf("could not reach %s: %w", srv.Endpoint, err)
	}
}

func runServerList(_ *cobra.Command, _ []string) error {
	servers, err := clientcli.LoadServers(getServersPath())
	if err != nil {
		return err
	}
	return getFormatter().FormatServers(os.Stdout, servers)
}

func runServerRemove(_ *cobra.Command, args []string) error {
	path := getServersPath()

	servers, err := clientcli.LoadServers(path)
	if err != nil {
		return err
	}
	if err := servers.Remove(args[0]); err != nil {
		return err
	}
	if err := servers.Save(path); err != nil {
		return err
	}

	fmt.Printf("Server '%s' removed.\n", args[0])
	return nil
}

func confirm(label string) bool {
	_, err := (&promptui.Prompt{Label: label, IsConfirm: true}).Run()
	return err == nil
}

// promptErr turns a cancelled prompt into a clean exit.
func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		os.Exit(0)
	}
	return err
}
