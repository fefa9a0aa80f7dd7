package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	amdapi "github.com/amdapi/amdapi-go"
	"github.com/amdapi/amdapi-go/internal/cliconfig"
	"github.com/amdapi/amdapi-go/internal/queue"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential, upload ledger, and retry queue state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Println("=== Credentials ===")
		switch {
		case cfg.HasCredentials():
			fmt.Printf("  Configured in %s (client id: %s)\n", cliconfig.Path(), cfg.ClientID)
		case os.Getenv(amdapi.EnvClientID) != "":
			fmt.Printf("  From environment (%s)\n", amdapi.EnvClientID)
		default:
			fmt.Println("  Not configured. Run 'amdapi configure'.")
		}

		fmt.Println("\n=== Endpoints ===")
		base := cfg.BaseURL
		if base == "" {
			base = amdapi.DefaultBaseURL
		}
		fmt.Printf("  API: %s\n", base)

		fmt.Println("\n=== Upload History ===")
		ledger, err := cliconfig.LoadLedger()
		if err != nil {
			fmt.Printf("  Could not load upload ledger: %v\n", err)
		} else {
			fmt.Printf("  Recordings uploaded: %d\n", len(ledger.Hashes))
		}

		fmt.Println("\n=== Retry Queue ===")
		if err := cliconfig.EnsureDir(); err != nil {
			return err
		}
		q, err := queue.Open(cliconfig.Dir())
		if err != nil {
			fmt.Printf("  Could not open retry queue: %v\n", err)
		} else {
			count := q.Count()
			q.Close()
			fmt.Printf("  Pending retries: %d\n", count)
		}

		return nil
	},
}
