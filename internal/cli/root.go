package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	amdapi "github.com/amdapi/amdapi-go"
	"github.com/amdapi/amdapi-go/internal/cliconfig"
)

var (
	Version = "dev"

	verbose bool
	baseURL string
	authURL string
)

var rootCmd = &cobra.Command{
	Use:     "amdapi",
	Short:   "amdapi CLI — upload call recordings for analysis and browse results",
	Version: Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API requests")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the API base URL")
	rootCmd.PersistentFlags().StringVar(&authURL, "auth-url", "", "override the token endpoint")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
}

// newLogger builds the CLI logger; debug level only with --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newClient assembles an SDK client. Credentials come from the config file
// written by 'amdapi configure', falling back to the environment.
func newClient() (*amdapi.Client, error) {
	cfg, err := cliconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	creds := amdapi.Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret}
	if !cfg.HasCredentials() {
		creds, err = amdapi.CredentialsFromEnv()
		if err != nil {
			return nil, fmt.Errorf("no credentials configured — run 'amdapi configure' or set %s and %s",
				amdapi.EnvClientID, amdapi.EnvClientSecret)
		}
	}

	base := cfg.BaseURL
	if baseURL != "" {
		base = baseURL
	}
	auth := cfg.AuthURL
	if authURL != "" {
		auth = authURL
	}

	logger := newLogger()
	return amdapi.NewClient(amdapi.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		BaseURL:      base,
		AuthURL:      auth,
		Logger:       &logger,
	})
}
