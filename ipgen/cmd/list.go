package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalogued cores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "NAME\tVERSION\tMODULE\tDESCRIPTION")

			for _, d := range a.registry.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					d.Name, d.Version, d.Module, d.Description)
			}

			return tw.Flush()
		},
	}
}
