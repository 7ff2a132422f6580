package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statext",
		Short: "statext - self-correcting extraction of bank statement tables",
		Long: `statext drives a language model to write a routine that extracts the
transaction table from a bank statement PDF, runs the routine, compares its
output against a reference dataset, and feeds the differences back into the
model until the output matches or the attempt budget runs out.`,
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
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newSessionCommand())

	return cmd
}

func execute() error {
	// API keys and hosts may live in a local .env; a missing file is fine.
	_ = godotenv.Load() //nolint:errcheck

	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
