package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gridcfg.io/console/sdk"
)

func (a *app) newExportCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Export a configuration bundle",
		Long: `Build <cluster>-configuration.zip for the named cluster, or for the cluster
selected in the session when no name is given, and write it to --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			var b *sdk.Bundle
			if len(args) == 1 {
				b, err = c.ExportCluster(cmd.Context(), args[0], nil)
			} else {
				b, err = c.DownloadBundle(cmd.Context())
			}
			if err != nil {
				return err
			}

			path, err := writeBundle(outputDir, b)
			if err != nil {
				return err
			}

			successf(cmd.OutOrStdout(), "wrote %s (%d bytes)", path, len(b.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory to write the bundle to")
	return cmd
}

// writeBundle writes a bundle into dir under its own file name.
func writeBundle(dir string, b *sdk.Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(b.FileName))
	if err := os.WriteFile(path, b.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}
	return path, nil
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent exports of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.serverClient()
			if err != nil {
				return err
			}

			records, err := client.ExportHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				infof(cmd.OutOrStdout(), "no exports")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					r.ClusterName,
					r.FileName,
					strconv.Itoa(r.Entries),
					strconv.FormatInt(r.SizeBytes, 10),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TIME", "CLUSTER", "FILE", "ENTRIES", "SIZE").
				Rows(rows...).
				String())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of exports to show")
	return cmd
}
