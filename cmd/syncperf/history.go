package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"syncperf/internal/config"
	"syncperf/internal/db"
	"syncperf/internal/report"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		configKey string
		show      int64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := config.Archive()
			store, err := newStoreFunc(db.StoreConfig{Type: archive.Type, ConnectionString: archive.DSN})
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			t := tabby.NewCustom(newTabWriter(cmd.OutOrStdout()))

			if show > 0 {
				groups, err := store.GroupStats(ctx, show)
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					return fmt.Errorf("no archived selection with id %d", show)
				}
				t.AddHeader("Identity", "N", "Average", "Variance", "Deviation")
				for _, g := range groups {
					t.AddLine(g.Identity, g.N, report.FormatFloat(g.Mean), report.FormatFloat(g.Variance), report.FormatFloat(g.StdDev))
				}
				t.Print()
				return nil
			}

			records, err := store.History(ctx, configKey, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived selections.")
				return nil
			}
			t.AddHeader("ID", "Date", "Config", "Directory", "Best", "Average", "Groups")
			for _, r := range records {
				t.AddLine(strconv.FormatInt(r.ID, 10), r.CreatedAt.Format(time.DateTime), r.ConfigKey, r.Dir, r.Winner, report.FormatFloat(r.Mean), r.Groups)
			}
			t.Print()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of selections")
	cmd.Flags().StringVar(&configKey, "config-key", "", "Only list this simulation configuration")
	cmd.Flags().Int64Var(&show, "show", 0, "Show the group statistics of one archived selection")
	return cmd
}
