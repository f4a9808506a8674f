package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spiderhub-io/hubapi/internal/constants"
	"github.com/spiderhub-io/hubapi/pkg/hubclient"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		apiKey      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key",
		Long:  "Verify an API key against the platform and store it in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				apiEndpoint = DefaultEndpoint
			}

			if apiKey == "" {
				apiKey = viper.GetString("apikey")
			}

			if apiKey == "" {
				key, err := promptAPIKey()
				if err != nil {
					return err
				}

				apiKey = key
			}

			if apiKey == "" {
				return constants.ErrNoAPIKeyConfigured
			}

			client, err := hubclient.NewWithAPIKey(apiEndpoint, apiKey)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Verify the key before storing it
			projects, err := client.Projects().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to verify API key: %w", err)
			}

			viper.Set("api", apiEndpoint)
			viper.Set("apikey", apiKey)

			if err := saveConfig(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in to %s (%d project(s) accessible)\n",
				apiEndpoint, len(projects))

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL")
	cmd.Flags().StringVarP(&apiKey, "apikey", "k", "", "API key to store")

	return cmd
}

// promptAPIKey reads the key from the terminal without echo, falling back
// to a plain line read when stdin is not a TTY.
func promptAPIKey() (string, error) {
	fmt.Print("API key: ")

	if term.IsTerminal(int(syscall.Stdin)) {
		byteKey, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		fmt.Println()

		return strings.TrimSpace(string(byteKey)), nil
	}

	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API key",
		Long:  "Remove the stored API key from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("apikey", "")

			if err := saveConfig(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = os.Stdout.WriteString("Logged out\n")

			return nil
		},
	}
}
