package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"syncperf/internal/benchmark"
	"syncperf/internal/simulation"
)

func newConvertCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a raw timing log into a runs.json document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open log: %w", err)
			}
			defer f.Close()

			samples, err := benchmark.ParseReader(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			groups, err := benchmark.Group(samples)
			if err != nil {
				return err
			}

			store, err := benchmark.NewFileStore(output)
			if err != nil {
				return err
			}
			records := benchmark.RecordsFromGroups(groups.Sorted())
			if err := store.Save(benchmark.RunsDocument{Runs: records}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d runs to %s\n", len(records), store.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", simulation.RunsFile, "Destination runs document")
	return cmd
}
