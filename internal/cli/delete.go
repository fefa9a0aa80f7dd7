package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Permanently delete a call from the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("deletion is irreversible — re-run with --yes to confirm")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		msg, err := client.DeleteCall(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(msg)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "confirm deletion")
}
