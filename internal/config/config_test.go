package config

import (
	"testing"
	"time"

	"github.com/statext/statext/internal/validate"
)

func TestNewRunConfig_DefaultValues(t *testing.T) {
	cfg := NewRunConfig()

	if cfg.MaxAttempts() != DefaultMaxAttempts {
		t.Fatalf("MaxAttempts() = %d, want %d", cfg.MaxAttempts(), DefaultMaxAttempts)
	}
	if cfg.GenerationTimeout() != DefaultGenerationTimeout {
		t.Fatalf("GenerationTimeout() = %v, want %v", cfg.GenerationTimeout(), DefaultGenerationTimeout)
	}
	if cfg.ExecutionTimeout() != DefaultExecutionTimeout {
		t.Fatalf("ExecutionTimeout() = %v, want %v", cfg.ExecutionTimeout(), DefaultExecutionTimeout)
	}
	if cfg.NumericTolerance() != validate.DefaultNumericTolerance {
		t.Fatalf("NumericTolerance() = %v, want %v", cfg.NumericTolerance(), validate.DefaultNumericTolerance)
	}
	if cfg.MaxDiffRows() != validate.DefaultMaxDiffRows {
		t.Fatalf("MaxDiffRows() = %d, want %d", cfg.MaxDiffRows(), validate.DefaultMaxDiffRows)
	}
	if cfg.LogDir() != "" {
		t.Fatalf("LogDir() = %q, want empty", cfg.LogDir())
	}
	if cfg.OutputDir() != "" {
		t.Fatalf("OutputDir() = %q, want empty", cfg.OutputDir())
	}
}

func TestNewRunConfig_AppliesFunctionalOptions(t *testing.T) {
	cfg := NewRunConfig(
		WithMaxAttempts(5),
		WithGenerationTimeout(30*time.Second),
		WithExecutionTimeout(10*time.Second),
		WithNumericTolerance(0.5),
		WithMaxDiffRows(7),
		WithLogDir("transcripts"),
		WithOutputDir("out"),
	)

	if cfg.MaxAttempts() != 5 {
		t.Fatalf("MaxAttempts() = %d, want 5", cfg.MaxAttempts())
	}
	if cfg.GenerationTimeout() != 30*time.Second {
		t.Fatalf("GenerationTimeout() = %v, want 30s", cfg.GenerationTimeout())
	}
	if cfg.ExecutionTimeout() != 10*time.Second {
		t.Fatalf("ExecutionTimeout() = %v, want 10s", cfg.ExecutionTimeout())
	}
	if cfg.NumericTolerance() != 0.5 {
		t.Fatalf("NumericTolerance() = %v, want 0.5", cfg.NumericTolerance())
	}
	if cfg.MaxDiffRows() != 7 {
		t.Fatalf("MaxDiffRows() = %d, want 7", cfg.MaxDiffRows())
	}
	if cfg.LogDir() != "transcripts" {
		t.Fatalf("LogDir() = %q, want %q", cfg.LogDir(), "transcripts")
	}
	if cfg.OutputDir() != "out" {
		t.Fatalf("OutputDir() = %q, want %q", cfg.OutputDir(), "out")
	}
}

func TestOptionOrder_LastOptionWins(t *testing.T) {
	cfg := NewRunConfig(
		WithMaxAttempts(2),
		WithMaxAttempts(4),
		WithLogDir("a"),
		WithLogDir("b"),
	)

	if cfg.LogDir() != "b" {
		t.Fatalf("LogDir() = %q, want %q", cfg.LogDir(), "b")
	}
	if cfg.MaxAttempts() != 4 {
		t.Fatalf("MaxAttempts() = %d, want 4", cfg.MaxAttempts())
	}
}

func TestInvalidOptionValues_Ignored(t *testing.T) {
	cfg := NewRunConfig(
		WithMaxAttempts(0),
		WithGenerationTimeout(-1),
		WithExecutionTimeout(0),
		WithNumericTolerance(-0.1),
		WithMaxDiffRows(-3),
	)

	if cfg.MaxAttempts() != DefaultMaxAttempts {
		t.Fatalf("MaxAttempts() = %d, want default %d", cfg.MaxAttempts(), DefaultMaxAttempts)
	}
	if cfg.GenerationTimeout() != DefaultGenerationTimeout {
		t.Fatalf("GenerationTimeout() = %v, want default", cfg.GenerationTimeout())
	}
	if cfg.ExecutionTimeout() != DefaultExecutionTimeout {
		t.Fatalf("ExecutionTimeout() = %v, want default", cfg.ExecutionTimeout())
	}
	if cfg.NumericTolerance() != validate.DefaultNumericTolerance {
		t.Fatalf("NumericTolerance() = %v, want default", cfg.NumericTolerance())
	}
	if cfg.MaxDiffRows() != validate.DefaultMaxDiffRows {
		t.Fatalf("MaxDiffRows() = %d, want default", cfg.MaxDiffRows())
	}
}

func TestValidatorOptions(t *testing.T) {
	cfg := NewRunConfig(WithNumericTolerance(0.25), WithMaxDiffRows(9))

	opts := cfg.ValidatorOptions()
	if opts.NumericTolerance != 0.25 {
		t.Fatalf("NumericTolerance = %v, want 0.25", opts.NumericTolerance)
	}
	if opts.MaxDiffRows != 9 {
		t.Fatalf("MaxDiffRows = %d, want 9", opts.MaxDiffRows)
	}
}
