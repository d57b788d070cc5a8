package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"syncperf/internal/report"
	"syncperf/internal/telemetry"
)

// askOne is a variable so tests can answer prompts.
var askOne = survey.AskOne

func newNormalizeCmd() *cobra.Command {
	var (
		suffix string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "normalize REF FILE...",
		Short: "Reorder matrix CSV files to the layout of a reference matrix",
		Long: `Every FILE must hold the same double entry table as REF, possibly with rows
and columns in another order. The result is written to <name>_normalized.csv,
or over FILE with --in-place (keeping FILE+SUFFIX as backup when SUFFIX
is not empty).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPlace := cmd.Flags().Changed("in-place")
			ref, err := report.ReadMatrixFile(args[0])
			if err != nil {
				return err
			}
			files := args[1:]

			if inPlace && !yes {
				confirm := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Rewrite %d file(s) in place?", len(files)),
					Default: false,
				}
				if err := askOne(prompt, &confirm); err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			for _, file := range files {
				target, err := report.NormalizeFile(ref, file, inPlace, suffix)
				if err != nil {
					return err
				}
				telemetry.LogDebug("Normalized matrix", "file", file, "target", target)
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", file, target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&suffix, "in-place", "i", "", "Rewrite files in place, keeping a backup with this suffix")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
