package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate the router inventory without connecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		hosts, err := hostsFromConfig()
		if err != nil {
			return fmt.Errorf("invalid inventory: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Inventory OK (%d routers)\n", len(hosts))
		return nil
	},
}
