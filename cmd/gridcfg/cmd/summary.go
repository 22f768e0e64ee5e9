package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"gridcfg.io/console/cmd/gridcfg/ui"
	"gridcfg.io/console/models"
)

func (a *app) newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the clusters, the selection and the active tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			state, err := c.Summary(cmd.Context())
			if err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), state)
			a.reportSession(cmd.ErrOrStderr(), c)
			return nil
		},
	}
}

func (a *app) newSelectCmd() *cobra.Command {
	var (
		index    int
		clearSel bool
	)

	cmd := &cobra.Command{
		Use:   "select [name]",
		Short: "Select a cluster by name or index",
		Long: `Select the cluster the summary shows. Pass a cluster name, --index for
its position in the list, or --clear to drop the selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byIndex := cmd.Flags().Changed("index")

			modes := 0
			for _, set := range []bool{len(args) == 1, byIndex, clearSel} {
				if set {
					modes++
				}
			}
			if modes != 1 {
				return fmt.Errorf("pass exactly one of a name, --index or --clear")
			}

			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			var state *models.SummaryState
			switch {
			case clearSel:
				state, err = c.ClearSelection(cmd.Context())
			case byIndex:
				state, err = c.SelectIndex(cmd.Context(), index)
			default:
				state, err = c.SelectName(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), state)
			a.reportSession(cmd.ErrOrStderr(), c)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "select the cluster at this position")
	cmd.Flags().BoolVar(&clearSel, "clear", false, "clear the selection")
	return cmd
}

func (a *app) newTabCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tab <server|client> <index>",
		Short:     "Activate a preview tab",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{models.TabGroupServer, models.TabGroupClient},
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid tab index %q", args[1])
			}

			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			state, err := c.SetTab(cmd.Context(), args[0], index)
			if err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), state)
			a.reportSession(cmd.ErrOrStderr(), c)
			return nil
		},
	}
}

// printState writes the cluster list with the selection marked, followed
// by the active tab of each group.
func printState(w io.Writer, state *models.SummaryState) {
	if len(state.Clusters) == 0 {
		fmt.Fprintln(w, "No clusters")
	}
	for i, name := range state.Clusters {
		marker := " "
		if i == state.SelectedIndex {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %d  %s\n", marker, i, name)
	}

	if state.Cluster == nil {
		fmt.Fprintln(w, "Selected: none")
		return
	}
	fmt.Fprintf(w, "Selected: %s\n", state.Cluster.Name)
	fmt.Fprintf(w, "Server tab: %s\n", ui.TabTitle(models.TabGroupServer, state.TabsServer.ActiveTab))
	fmt.Fprintf(w, "Client tab: %s\n", ui.TabTitle(models.TabGroupClient, state.TabsClient.ActiveTab))
}
