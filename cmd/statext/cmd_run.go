package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/statext/statext/internal/config"
	executepkg "github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/generate"
	"github.com/statext/statext/internal/orchestration"
	"github.com/statext/statext/internal/reporting"
	"github.com/statext/statext/internal/session"
	"github.com/statext/statext/internal/task"
)

var (
	runVerbose     bool
	runOutputDir   string
	runTranscripts string
	runMaxAttempts int
	runWorkers     int
	runInterpret   bool
	runJUnitPath   string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job.yaml> [job.yaml ...]",
		Short: "Run extraction sessions for one or more jobs",
		Long: `Run an extraction session for each job spec.

A job spec names the statement document, the reference CSV the extracted
table must reproduce, and the generator and executor settings. Multiple jobs
run as a batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose output with per-attempt progress")
	cmd.Flags().StringVarP(&runOutputDir, "output", "o", "", "Directory for result JSON and winning routines (overrides job specs)")
	cmd.Flags().StringVar(&runTranscripts, "transcript-dir", "", "Directory for NDJSON session transcripts")
	cmd.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Attempt budget (overrides job specs)")
	cmd.Flags().IntVar(&runWorkers, "workers", 1, "Number of jobs to run concurrently")
	cmd.Flags().BoolVar(&runInterpret, "interpret", false, "Print a plain-language interpretation of each session")
	cmd.Flags().StringVar(&runJUnitPath, "junit", "", "Write batch results as JUnit XML to this path")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var entries []orchestration.BatchEntry
	var outputDirs []string
	var closers []func()
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	for _, specPath := range args {
		spec, err := task.LoadJobSpec(specPath)
		if err != nil {
			return err
		}

		tk, err := spec.Task()
		if err != nil {
			return err
		}

		opts := spec.RunOptions()
		opts = append(opts, config.WithMaxAttempts(runMaxAttempts))
		if runOutputDir != "" {
			opts = append(opts, config.WithOutputDir(runOutputDir))
		}
		if runTranscripts != "" {
			opts = append(opts, config.WithLogDir(runTranscripts))
		}
		cfg := config.NewRunConfig(opts...)

		genCfg, err := spec.GeneratorConfig()
		if err != nil {
			return err
		}
		gen, err := generate.New(genCfg)
		if err != nil {
			return err
		}

		execOpts, err := spec.ExecutorOptions()
		if err != nil {
			return err
		}
		if execOpts.Timeout <= 0 {
			execOpts.Timeout = cfg.ExecutionTimeout()
		}
		executor := executepkg.NewPythonExecutor(execOpts)

		var runnerOpts []orchestration.RunnerOption
		if dir := cfg.LogDir(); dir != "" {
			logger, err := session.NewJSONLogger(session.DefaultLogPath(dir, tk.Name))
			if err != nil {
				return err
			}
			closers = append(closers, func() {
				if err := logger.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: closing transcript: %v\n", err)
				}
			})
			runnerOpts = append(runnerOpts, orchestration.WithLogger(logger))
		}

		runner := orchestration.NewRunner(cfg, gen, executor, runnerOpts...)
		runner.OnProgress(newConsoleReporter(os.Stderr, runVerbose).Listen)

		entries = append(entries, orchestration.BatchEntry{Runner: runner, Task: tk})
		outputDirs = append(outputDirs, cfg.OutputDir())
	}

	results, err := orchestration.RunBatch(ctx, entries, runWorkers)
	if err != nil {
		return err
	}

	exhausted := 0
	for i, result := range results {
		if result.Status != session.StatusSucceeded {
			exhausted++
		}
		if runInterpret || len(results) == 1 {
			fmt.Println(reporting.FormatSummaryReport(result))
		}
		if dir := outputDirs[i]; dir != "" {
			path, err := reporting.SaveResult(dir, result)
			if err != nil {
				return err
			}
			fmt.Printf("Results written to %s\n", path)
		}
	}

	if len(results) > 1 {
		fmt.Println(reporting.FormatBatchReport(results))
	}

	if runJUnitPath != "" {
		if err := reporting.WriteJUnitFile(runJUnitPath, "statext", results); err != nil {
			return err
		}
	}

	if exhausted > 0 {
		return &ExhaustedError{
			Message: fmt.Sprintf("%d of %d job(s) did not produce a matching routine", exhausted, len(results)),
		}
	}
	return nil
}
