package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"syncperf/internal/config"
	"syncperf/internal/report"
	"syncperf/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncperf",
		Short: "Compare synchronization strategies from benchmark timings",
		Long: `syncperf turns raw timing samples of interchangeable synchronization
strategies into statistics, a pairwise efficiency matrix and a verdict on
the fastest strategy, including the best tuning of parameterized ones.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./syncperf.yaml or ~/.config/syncperf/syncperf.yaml)")
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.String("log-file", "", "Also write logs to this file")
	pf.Bool("no-color", false, "Disable colored output")

	if err := bindFlags(pf, map[string]string{
		"verbose":  "verbose",
		"log_file": "log-file",
		"no_color": "no-color",
	}); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		newParseCmd(),
		newProcessCmd(),
		newBestCmd(),
		newNormalizeCmd(),
		newConvertCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'syncperf --help' for usage.")
		exit(1)
	}
}

// initConfig reads in config file and ENV variables, then sets up logging
// and the optional metrics endpoint.
func initConfig() error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := config.ValidateConfig(); err != nil {
		return err
	}

	report.SetColor(!viper.GetBool("no_color"))
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	if port := viper.GetInt("metrics_port"); port > 0 {
		go func() {
			if err := telemetry.StartMetricsServer(port); err != nil {
				telemetry.LogError("Metrics server stopped", err, "port", port)
			}
		}()
	}
	return nil
}
