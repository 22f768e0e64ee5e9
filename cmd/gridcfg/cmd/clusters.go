package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gridcfg.io/console/models"
)

func (a *app) newClustersCmd() *cobra.Command {
	clustersCmd := &cobra.Command{
		Use:     "clusters",
		Aliases: []string{"cluster"},
		Short:   "Manage the cluster catalogue",
	}

	clustersCmd.AddCommand(
		a.newClustersListCmd(),
		a.newClustersImportCmd(),
		a.newClustersDeleteCmd(),
	)
	return clustersCmd
}

func (a *app) newClustersListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			clusters, err := c.ListClusters(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(models.ClusterListResponse{Clusters: clusters})
			}

			if len(clusters) == 0 {
				infof(cmd.OutOrStdout(), "no clusters")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), clusterTable(clusters))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print clusters as JSON")
	return cmd
}

// clusterTable renders one row per cluster.
func clusterTable(clusters []models.Cluster) string {
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		discovery := c.Discovery.Kind
		if discovery == "" {
			discovery = "Vm"
		}

		pojo := "no"
		if c.HasPojo() {
			pojo = "yes"
		}

		near := "-"
		if c.ClientNearCfg != nil {
			near = c.ClientNearCfg.EvictionPolicy
			if near == "" {
				near = "yes"
			}
		}

		rows = append(rows, []string{c.Name, discovery, strconv.Itoa(len(c.Caches)), pojo, near})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "DISCOVERY", "CACHES", "POJO", "NEAR CACHE").
		Rows(rows...).
		String()
}

func (a *app) newClustersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalogue.yaml>",
		Short: "Import a cluster catalogue into the server",
		Long: `Upload a YAML or JSON cluster catalogue. Existing clusters with the same
name are replaced. Use "-" to read the catalogue from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.serverClient()
			if err != nil {
				return err
			}

			var document []byte
			if args[0] == "-" {
				document, err = io.ReadAll(cmd.InOrStdin())
			} else {
				document, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read catalogue: %w", err)
			}

			result, err := client.ImportCatalogue(cmd.Context(), document)
			if err != nil {
				return err
			}

			successf(cmd.OutOrStdout(), "imported %d created, %d updated", result.Created, result.Updated)
			return nil
		},
	}
}

func (a *app) newClustersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a cluster from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.serverClient()
			if err != nil {
				return err
			}

			if err := client.DeleteCluster(cmd.Context(), args[0]); err != nil {
				return err
			}

			successf(cmd.OutOrStdout(), "deleted %s", args[0])
			return nil
		},
	}
}
