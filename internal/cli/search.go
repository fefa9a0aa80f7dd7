package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	amdapi "github.com/amdapi/amdapi-go"
)

var (
	searchPage      int
	searchAgentID   int
	searchClientID  int
	searchStartDate string
	searchEndDate   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List calls, optionally filtered by agent, client, or date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		params := amdapi.SearchParams{
			PageNumber: searchPage,
			AgentID:    searchAgentID,
			ClientID:   searchClientID,
		}
		if searchStartDate != "" {
			if params.StartDate, err = amdapi.ParseSearchDate(searchStartDate); err != nil {
				return err
			}
		}
		if searchEndDate != "" {
			if params.EndDate, err = amdapi.ParseSearchDate(searchEndDate); err != nil {
				return err
			}
		}

		result, err := client.SearchCalls(cmd.Context(), params)
		if err != nil {
			return err
		}

		if result.NCalls == 0 {
			fmt.Println("No calls found.")
			return nil
		}

		for _, call := range result.Calls {
			fmt.Printf("%s  call_id=%s agent=%d client=%d %s/%s analyzed=%t\n",
				call.UUID, call.CallID, call.AgentID, call.ClientID,
				call.Origin, call.Language, call.Analyzed)
		}

		fmt.Printf("\nPage %d (%d calls)", result.CurrentPage, result.NCalls)
		if result.IsLastPage {
			fmt.Println(" — last page")
		} else {
			fmt.Printf(" — more with --page %d\n", result.CurrentPage+1)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "page number")
	searchCmd.Flags().IntVar(&searchAgentID, "agent-id", 0, "filter by agent id")
	searchCmd.Flags().IntVar(&searchClientID, "client-id", 0, "filter by client id")
	searchCmd.Flags().StringVar(&searchStartDate, "start-date", "", "earliest call date (DD/MM/YYYY)")
	searchCmd.Flags().StringVar(&searchEndDate, "end-date", "", "latest call date (DD/MM/YYYY)")
}
