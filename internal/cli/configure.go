package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amdapi/amdapi-go/internal/cliconfig"
)

var (
	configureClientID     string
	configureClientSecret string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store API credentials and endpoint overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if configureClientID != "" {
			cfg.ClientID = configureClientID
		}
		if configureClientSecret != "" {
			cfg.ClientSecret = configureClientSecret
		}
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if authURL != "" {
			cfg.AuthURL = authURL
		}

		if !cfg.HasCredentials() {
			return fmt.Errorf("both --client-id and --client-secret are required on first configure")
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Printf("Configuration written to %s\n", cliconfig.Path())
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&configureClientID, "client-id", "", "API client id")
	configureCmd.Flags().StringVar(&configureClientSecret, "client-secret", "", "API client secret")
}
