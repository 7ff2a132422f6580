package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/statext/statext/internal/config"
	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/generate"
	"github.com/statext/statext/internal/schema"
	"github.com/statext/statext/internal/tabular"
)

// JobSpec is the on-disk YAML description of a task plus the run, generator,
// and executor settings it wants. Relative paths resolve against the spec
// file's directory.
type JobSpec struct {
	Name        string    `yaml:"name"`
	Document    string    `yaml:"document"`
	Reference   string    `yaml:"reference"`
	LayoutHints []string  `yaml:"layout_hints"`
	OutputDir   string    `yaml:"output_dir"`
	Config      JobConfig `yaml:"config"`
	// Generator and Executor stay as raw maps until decoded; the schema has
	// already constrained their shape.
	Generator map[string]any `yaml:"generator"`
	Executor  map[string]any `yaml:"executor"`

	dir string
}

// JobConfig holds the loop settings a job may override.
type JobConfig struct {
	MaxAttempts              int     `yaml:"max_attempts"`
	GenerationTimeoutSeconds int     `yaml:"generation_timeout_seconds"`
	ExecutionTimeoutSeconds  int     `yaml:"execution_timeout_seconds"`
	NumericTolerance         float64 `yaml:"numeric_tolerance"`
	MaxDiffRows              int     `yaml:"max_diff_rows"`
}

// LoadJobSpec reads, schema-validates, and parses a job spec file.
func LoadJobSpec(path string) (*JobSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job spec: %w", err)
	}

	if errs := schema.ValidateJobBytes(raw); len(errs) > 0 {
		return nil, fmt.Errorf("job spec %s is invalid:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var spec JobSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing job spec: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving job spec path: %w", err)
	}
	spec.dir = filepath.Dir(abs)

	return &spec, nil
}

// resolve turns a spec-relative path into an absolute one.
func (s *JobSpec) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// DocumentPath returns the absolute statement document path.
func (s *JobSpec) DocumentPath() string { return s.resolve(s.Document) }

// ReferencePath returns the absolute reference CSV path.
func (s *JobSpec) ReferencePath() string { return s.resolve(s.Reference) }

// OutputPath returns the absolute output directory, empty when unset.
func (s *JobSpec) OutputPath() string { return s.resolve(s.OutputDir) }

// Task loads the reference dataset and builds the runnable task.
func (s *JobSpec) Task() (*Task, error) {
	ref, err := tabular.LoadCSV(s.ReferencePath())
	if err != nil {
		return nil, fmt.Errorf("loading reference for job %q: %w", s.Name, err)
	}

	t := &Task{
		Name:        s.Name,
		Document:    s.DocumentPath(),
		Reference:   ref,
		LayoutHints: s.LayoutHints,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// GeneratorConfig decodes the generator section. An absent section defaults
// to the local ollama backend.
func (s *JobSpec) GeneratorConfig() (generate.Config, error) {
	cfg := generate.Config{Backend: "ollama"}
	if s.Generator == nil {
		return cfg, nil
	}
	if err := mapstructure.Decode(s.Generator, &cfg); err != nil {
		return generate.Config{}, fmt.Errorf("decoding generator config for job %q: %w", s.Name, err)
	}
	return cfg, nil
}

// ExecutorOptions decodes the executor section and applies the job's
// execution timeout.
func (s *JobSpec) ExecutorOptions() (execute.PythonOptions, error) {
	var opts execute.PythonOptions
	if s.Executor != nil {
		if err := mapstructure.Decode(s.Executor, &opts); err != nil {
			return execute.PythonOptions{}, fmt.Errorf("decoding executor config for job %q: %w", s.Name, err)
		}
	}
	if s.Config.ExecutionTimeoutSeconds > 0 {
		opts.Timeout = time.Duration(s.Config.ExecutionTimeoutSeconds) * time.Second
	}
	return opts, nil
}

// RunOptions maps the job's config section onto run config options. Zero
// values fall through to the defaults.
func (s *JobSpec) RunOptions() []config.Option {
	opts := []config.Option{
		config.WithMaxAttempts(s.Config.MaxAttempts),
		config.WithMaxDiffRows(s.Config.MaxDiffRows),
	}
	if s.Config.NumericTolerance > 0 {
		opts = append(opts, config.WithNumericTolerance(s.Config.NumericTolerance))
	}
	if s.Config.GenerationTimeoutSeconds > 0 {
		opts = append(opts, config.WithGenerationTimeout(time.Duration(s.Config.GenerationTimeoutSeconds)*time.Second))
	}
	if s.Config.ExecutionTimeoutSeconds > 0 {
		opts = append(opts, config.WithExecutionTimeout(time.Duration(s.Config.ExecutionTimeoutSeconds)*time.Second))
	}
	if s.OutputDir != "" {
		opts = append(opts, config.WithOutputDir(s.OutputPath()))
	}
	return opts
}
