package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statext/statext/internal/tabular"
	"github.com/statext/statext/internal/validate"
)

var (
	compareTolerance   float64
	compareMaxDiffRows int
	comparePositional  bool
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <candidate.csv> <reference.csv>",
		Short: "Compare two CSV datasets with the session equality policy",
		Long: `Compare a candidate CSV against a reference CSV using the same policy
sessions use: column sets must match exactly, rows align by sorted content,
numbers compare within tolerance, and dates compare by calendar day.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().Float64Var(&compareTolerance, "tolerance", validate.DefaultNumericTolerance, "Absolute tolerance for numeric cells")
	cmd.Flags().IntVar(&compareMaxDiffRows, "max-diff-rows", validate.DefaultMaxDiffRows, "Limit of mismatching rows to report")
	cmd.Flags().BoolVar(&comparePositional, "positional", false, "Compare rows by position instead of sorted content")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	candidate, err := tabular.LoadCSV(args[0])
	if err != nil {
		return fmt.Errorf("loading candidate: %w", err)
	}
	reference, err := tabular.LoadCSV(args[1])
	if err != nil {
		return fmt.Errorf("loading reference: %w", err)
	}

	validator := validate.New(validate.Options{
		NumericTolerance: compareTolerance,
		MaxDiffRows:      compareMaxDiffRows,
		PositionalRows:   comparePositional,
	})

	verdict := validator.Validate(candidate, reference)
	if verdict.Pass {
		fmt.Printf("✓ datasets match (%d rows, %d columns)\n", reference.NumRows(), reference.NumColumns())
		return nil
	}

	fmt.Println("✗ datasets differ:")
	fmt.Println(verdict.Diff.Format())
	return &ExhaustedError{Message: "datasets do not match"}
}
