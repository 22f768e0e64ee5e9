package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server readiness",
		Long:  `Find the first ready gridcfg-server among --server and report its instance and database health.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.serverClient()
			if err != nil {
				return err
			}

			if err := client.DiscoverReady(cmd.Context()); err != nil {
				return err
			}

			status, err := client.Ready(cmd.Context())
			if err != nil {
				return err
			}

			successf(cmd.OutOrStdout(), "%s: %s", status.InstanceID, status.Status)
			if status.Database != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  database: %s\n", status.Database)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  clusters: %d\n", status.Clusters)
			if status.Uptime != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  uptime:   %s\n", status.Uptime)
			}
			return nil
		},
	}
}
