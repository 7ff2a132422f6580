package execute

import (
	"context"
	"fmt"

	"github.com/statext/statext/internal/tabular"
)

// ErrorKind classifies why a candidate routine failed to produce a dataset.
type ErrorKind string

const (
	// ErrSyntax means the candidate source did not compile/parse.
	ErrSyntax ErrorKind = "compile_or_syntax_error"
	// ErrRuntime means the candidate raised or crashed while running.
	ErrRuntime ErrorKind = "runtime_error"
	// ErrTimeout means the candidate exceeded the execution timeout.
	ErrTimeout ErrorKind = "timeout"
	// ErrOutputShape means the candidate ran but returned something that
	// cannot be coerced into a dataset.
	ErrOutputShape ErrorKind = "output_shape_error"
)

// Error describes a candidate execution failure. It is recoverable at the
// session level: the orchestrator converts it into a critique for the next
// attempt.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Location is the source position of a runtime error, when one could be
	// extracted (e.g. `parser.py, line 12`).
	Location string `json:"location,omitempty"`
}

func (e *Error) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Location, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Request is one candidate execution: the generated routine source and the
// document it should parse.
type Request struct {
	// Source is the candidate routine, a Python script defining
	// parse(pdf_path).
	Source string
	// Document is the path of the document to parse.
	Document string
}

// Executor runs a candidate routine against a document in an isolated,
// throwaway context. Candidate failures are reported as *Error; any other
// error is infrastructural (the execution environment itself is broken) and
// aborts the session rather than consuming attempt budget.
//
// Executors never retry internally. Retry policy lives solely in the
// orchestrator.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*tabular.Dataset, error)
}
