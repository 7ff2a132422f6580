package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statext/statext/internal/schema"
	"github.com/statext/statext/internal/task"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <job.yaml> [job.yaml ...]",
		Short: "Check job specs without running them",
		Long: `Check that each job spec is well formed: the YAML matches the job
schema, the reference CSV loads, and the statement document exists.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		if problems := checkJob(path); len(problems) > 0 {
			failed++
			fmt.Printf("✗ %s\n", path)
			for _, p := range problems {
				fmt.Printf("    %s\n", p)
			}
		} else {
			fmt.Printf("✓ %s\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d job spec(s) failed checks", failed, len(args))
	}
	return nil
}

func checkJob(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []string{err.Error()}
	}

	if errs := schema.ValidateJobBytes(raw); len(errs) > 0 {
		return errs
	}

	spec, err := task.LoadJobSpec(path)
	if err != nil {
		return []string{err.Error()}
	}

	var problems []string
	if _, err := os.Stat(spec.DocumentPath()); err != nil {
		problems = append(problems, fmt.Sprintf("document: %v", err))
	}

	tk, err := spec.Task()
	if err != nil {
		problems = append(problems, err.Error())
	} else if tk.Reference.NumRows() == 0 {
		problems = append(problems, "reference CSV has a header but no rows")
	}

	if _, err := spec.GeneratorConfig(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := spec.ExecutorOptions(); err != nil {
		problems = append(problems, err.Error())
	}

	return problems
}
