package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ipgen/datarecording"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		record string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history [core]",
		Short: "List the recorded builds, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstNonEmpty(record, a.cfg.Record)
			if path == "" {
				return errors.New("no build history, use --record or set record in the config")
			}

			core := ""
			if len(args) == 1 {
				core = args[0]
			}

			reader, err := datarecording.OpenBuildReader(path)
			if err != nil {
				return err
			}
			defer reader.Close()

			entries, err := reader.Builds(cmd.Context(), core, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tCORE\tVERSION\tBUILD\tIP_ID\tROOT")

			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%08x\t%s\n",
					e.Time().Format(time.DateTime), e.Core, e.Version,
					e.BuildName, e.IPID, e.Root)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&record, "record", "", "History database (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many builds, 0 for all")

	return cmd
}
