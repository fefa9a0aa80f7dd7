package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	amdapi "github.com/amdapi/amdapi-go"
)

var (
	analyzeCallID       string
	analyzeClientID     int
	analyzeAgentID      int
	analyzeCustomerID   int
	analyzeOrigin       string
	analyzeLanguage     string
	analyzeSummary      bool
	analyzeAgentChannel int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Upload a .wav recording for analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		client, err := newClient()
		if err != nil {
			return err
		}

		params, err := analyzeParamsForFile(path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		fmt.Printf("Uploading %s...\n", filepath.Base(path))

		call, err := client.AnalyzeCall(cmd.Context(), f, params)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}

		fmt.Printf("Call submitted: %s\n", call.UUID)
		fmt.Printf("Check progress with: amdapi get %s\n", call.UUID)
		return nil
	},
}

// analyzeParamsForFile builds AnalyzeParams from the shared analyze/watch
// flags, deriving call id and filename from the path when not given.
func analyzeParamsForFile(path string) (amdapi.AnalyzeParams, error) {
	origin, err := amdapi.ParseOrigin(analyzeOrigin)
	if err != nil {
		return amdapi.AnalyzeParams{}, err
	}
	language, err := amdapi.ParseLanguage(analyzeLanguage)
	if err != nil {
		return amdapi.AnalyzeParams{}, err
	}

	base := filepath.Base(path)
	callID := analyzeCallID
	if callID == "" {
		callID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	params := amdapi.AnalyzeParams{
		Filename:   base,
		CallID:     callID,
		ClientID:   analyzeClientID,
		AgentID:    analyzeAgentID,
		CustomerID: analyzeCustomerID,
		Origin:     origin,
		Language:   language,
		Summary:    analyzeSummary,
	}
	if analyzeAgentChannel >= 0 {
		ch := analyzeAgentChannel
		params.AgentChannel = &ch
	}
	return params, nil
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analyzeCallID, "call-id", "", "your call id (default: file name stem)")
	cmd.Flags().IntVar(&analyzeClientID, "client-id", 0, "your client id")
	cmd.Flags().IntVar(&analyzeAgentID, "agent-id", 0, "your agent id")
	cmd.Flags().IntVar(&analyzeCustomerID, "customer-id", 0, "your customer id")
	cmd.Flags().StringVar(&analyzeOrigin, "origin", "", "call origin: Inbound or Outbound")
	cmd.Flags().StringVar(&analyzeLanguage, "language", "", "call language: en, en-in or fr")
	cmd.Flags().BoolVar(&analyzeSummary, "summary", false, "request a text summary")
	cmd.Flags().IntVar(&analyzeAgentChannel, "agent-channel", -1, "agent channel for stereo recordings (0 or 1)")
	cmd.MarkFlagRequired("origin")
	cmd.MarkFlagRequired("language")
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}
