package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/statext/statext/internal/tabular"
)

// PlanContext is the static task description derived once per session. Every
// generation call in the session consumes the same plan.
type PlanContext struct {
	TaskName    string
	Document    string
	ColumnNames []string
	ColumnTypes map[string]tabular.Kind
	LayoutHints []string
}

// Request is one generation call: the session plan plus the critique from the
// previous failed attempt. Critique is empty only on attempt 1.
type Request struct {
	Plan     *PlanContext
	Critique string
}

// Generator produces candidate routine source from a plan and an optional
// critique. The core assumes nothing about the underlying model beyond this
// contract.
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// Config selects and configures a generator backend.
type Config struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
	// Host is the service address for backends that need one (ollama).
	Host string `mapstructure:"host"`
	// SourceFile is the script served by the static backend.
	SourceFile string `mapstructure:"source_file"`
}

// New creates a generator from its config. Known backends: openai, ollama,
// static. MockGenerator is constructed directly and is meant for tests.
func New(cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "openai":
		return NewOpenAIGenerator(cfg.Model)
	case "ollama":
		return NewOllamaGenerator(cfg.Host, cfg.Model)
	case "static":
		if cfg.SourceFile == "" {
			return nil, fmt.Errorf("static backend requires source_file")
		}
		return NewStaticGenerator(cfg.SourceFile), nil
	default:
		return nil, fmt.Errorf("unsupported generator backend: %q", cfg.Backend)
	}
}
