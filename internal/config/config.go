// Package config holds the immutable run configuration assembled by the CLI
// and consumed by the orchestration runner.
package config

import (
	"time"

	"github.com/statext/statext/internal/validate"
)

const (
	// DefaultMaxAttempts is the attempt budget when none is configured.
	DefaultMaxAttempts = 3
	// DefaultGenerationTimeout bounds one model call.
	DefaultGenerationTimeout = 120 * time.Second
	// DefaultExecutionTimeout bounds one candidate routine run.
	DefaultExecutionTimeout = 30 * time.Second
)

// RunConfig is the configuration for one session run. Construct it with
// NewRunConfig; the zero value is not usable.
type RunConfig struct {
	maxAttempts       int
	generationTimeout time.Duration
	executionTimeout  time.Duration
	numericTolerance  float64
	maxDiffRows       int
	logDir            string
	outputDir         string
}

// Option configures a RunConfig.
type Option func(*RunConfig)

// WithMaxAttempts sets the attempt budget. Non-positive values are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *RunConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithGenerationTimeout bounds each model call. Non-positive values are ignored.
func WithGenerationTimeout(d time.Duration) Option {
	return func(c *RunConfig) {
		if d > 0 {
			c.generationTimeout = d
		}
	}
}

// WithExecutionTimeout bounds each candidate run. Non-positive values are ignored.
func WithExecutionTimeout(d time.Duration) Option {
	return func(c *RunConfig) {
		if d > 0 {
			c.executionTimeout = d
		}
	}
}

// WithNumericTolerance sets the absolute tolerance for numeric cell
// comparison. Non-positive values are ignored.
func WithNumericTolerance(tol float64) Option {
	return func(c *RunConfig) {
		if tol > 0 {
			c.numericTolerance = tol
		}
	}
}

// WithMaxDiffRows bounds the row samples collected per validation diff.
func WithMaxDiffRows(n int) Option {
	return func(c *RunConfig) {
		if n > 0 {
			c.maxDiffRows = n
		}
	}
}

// WithLogDir sets where session transcripts are written. Empty disables
// transcript logging.
func WithLogDir(dir string) Option {
	return func(c *RunConfig) { c.logDir = dir }
}

// WithOutputDir sets where results and winning routines are written.
func WithOutputDir(dir string) Option {
	return func(c *RunConfig) { c.outputDir = dir }
}

// NewRunConfig creates a RunConfig with defaults, then applies opts in order.
func NewRunConfig(opts ...Option) *RunConfig {
	c := &RunConfig{
		maxAttempts:       DefaultMaxAttempts,
		generationTimeout: DefaultGenerationTimeout,
		executionTimeout:  DefaultExecutionTimeout,
		numericTolerance:  validate.DefaultNumericTolerance,
		maxDiffRows:       validate.DefaultMaxDiffRows,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxAttempts returns the attempt budget.
func (c *RunConfig) MaxAttempts() int { return c.maxAttempts }

// GenerationTimeout returns the per-model-call bound.
func (c *RunConfig) GenerationTimeout() time.Duration { return c.generationTimeout }

// ExecutionTimeout returns the per-candidate-run bound.
func (c *RunConfig) ExecutionTimeout() time.Duration { return c.executionTimeout }

// NumericTolerance returns the absolute numeric comparison tolerance.
func (c *RunConfig) NumericTolerance() float64 { return c.numericTolerance }

// MaxDiffRows returns the diff row sample bound.
func (c *RunConfig) MaxDiffRows() int { return c.maxDiffRows }

// LogDir returns the transcript directory, empty when logging is disabled.
func (c *RunConfig) LogDir() string { return c.logDir }

// OutputDir returns the results directory.
func (c *RunConfig) OutputDir() string { return c.outputDir }

// ValidatorOptions maps the config onto validator options.
func (c *RunConfig) ValidatorOptions() validate.Options {
	return validate.Options{
		NumericTolerance: c.numericTolerance,
		MaxDiffRows:      c.maxDiffRows,
	}
}
