package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Fetch the current state of a call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		call, err := client.GetCall(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("UUID:        %s\n", call.UUID)
		fmt.Printf("Call ID:     %s\n", call.CallID)
		fmt.Printf("Client ID:   %d\n", call.ClientID)
		fmt.Printf("Agent ID:    %d\n", call.AgentID)
		fmt.Printf("Customer ID: %s\n", call.CustomerID)
		fmt.Printf("Origin:      %s\n", call.Origin)
		fmt.Printf("Language:    %s\n", call.Language)
		fmt.Printf("Analyzed:    %t\n", call.Analyzed)

		if call.Analysis != nil {
			a := call.Analysis
			fmt.Printf("\nDuration:     %.1fs\n", a.AudioDuration)
			fmt.Printf("Speakers:     %d\n", a.TotalSpeakers)
			fmt.Printf("Satisfaction: %.2f\n", a.CustomerSatisfactionScore)
			fmt.Printf("Critical:     %t\n", a.IsCritical)
			fmt.Printf("Segments:     %d\n", len(a.Segments))
			if a.Summary != "" {
				fmt.Printf("\nSummary:\n%s\n", a.Summary)
			}
		}
		return nil
	},
}
