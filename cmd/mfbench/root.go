package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	// Activate the full benchmark registry.
	_ "github.com/spboyer/mfbench/benchmarks"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mfbench",
		Short: "mfbench - uniform access to multi-fidelity benchmarks",
		Long: `mfbench gives hyperparameter optimization research uniform access to
multi-fidelity benchmarks.

It samples configurations from a benchmark's search space, queries
outcomes at a chosen fidelity (training epochs, dataset fraction), and
sweeps whole learning-curve trajectories without training anything.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newSampleCommand())
	cmd.AddCommand(newQueryCommand())
	cmd.AddCommand(newTrajectoryCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
