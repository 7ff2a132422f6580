package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/statext/statext/internal/schema"
	"github.com/statext/statext/internal/tabular"
)

// DefaultExecutionTimeout bounds one candidate run.
const DefaultExecutionTimeout = 30 * time.Second

// Harness exit codes, shared with the embedded Python harness.
const (
	exitSyntax      = 3
	exitRuntime     = 4
	exitOutputShape = 5
)

// PythonOptions configures a PythonExecutor.
type PythonOptions struct {
	// Python is the interpreter binary. Defaults to "python3".
	Python string `mapstructure:"python"`
	// Timeout is the wall-clock limit per execution.
	Timeout time.Duration
}

// PythonExecutor runs candidate routines as Python scripts through an
// embedded harness. Every execution gets a freshly created workspace that is
// torn down afterwards, so no state survives between attempts, and the child
// process runs with a scrubbed environment.
type PythonExecutor struct {
	python  string
	timeout time.Duration
}

// NewPythonExecutor creates an executor using the given options.
func NewPythonExecutor(opts PythonOptions) *PythonExecutor {
	python := opts.Python
	if python == "" {
		python = "python3"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultExecutionTimeout
	}
	return &PythonExecutor{python: python, timeout: timeout}
}

// tracebackLocation extracts the last parser.py frame from a Python traceback.
var tracebackLocation = regexp.MustCompile(`File "parser\.py", line (\d+)`)

// Execute writes the candidate into a throwaway workspace, runs it through
// the harness under the configured timeout, and decodes the dataset envelope
// printed on stdout. Candidate failures come back as *Error; errors setting
// up the workspace or starting the interpreter are returned as plain
// infrastructural errors.
func (p *PythonExecutor) Execute(ctx context.Context, req *Request) (*tabular.Dataset, error) {
	workspace, err := os.MkdirTemp("", "statext-run-*")
	if err != nil {
		return nil, fmt.Errorf("creating execution workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			slog.Warn("failed to remove execution workspace", "path", workspace, "error", err)
		}
	}()

	if err := os.WriteFile(filepath.Join(workspace, "parser.py"), []byte(req.Source), 0o644); err != nil {
		return nil, fmt.Errorf("writing candidate source: %w", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, "harness.py"), []byte(harnessSource), 0o644); err != nil {
		return nil, fmt.Errorf("writing harness: %w", err)
	}

	document, err := filepath.Abs(req.Document)
	if err != nil {
		return nil, fmt.Errorf("resolving document path: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, p.python, "harness.py", "parser.py", document)
	cmd.Dir = workspace
	cmd.Env = scrubbedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if timeoutCtx.Err() == context.DeadlineExceeded {
		return nil, &Error{
			Kind:    ErrTimeout,
			Message: fmt.Sprintf("candidate exceeded the %s execution timeout", p.timeout),
		}
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", p.python, runErr)
		}
		return nil, classifyExit(exitErr.ExitCode(), stderr.String())
	}

	return decodeOutput(stdout.Bytes())
}

// classifyExit maps a harness exit code and stderr to an execution error.
func classifyExit(code int, stderr string) *Error {
	detail := tail(strings.TrimSpace(stderr), 4096)
	switch code {
	case exitSyntax:
		return &Error{Kind: ErrSyntax, Message: detail}
	case exitRuntime:
		e := &Error{Kind: ErrRuntime, Message: detail}
		if m := tracebackLocation.FindAllStringSubmatch(stderr, -1); len(m) > 0 {
			e.Location = fmt.Sprintf("parser.py, line %s", m[len(m)-1][1])
		}
		return e
	case exitOutputShape:
		return &Error{Kind: ErrOutputShape, Message: detail}
	default:
		return &Error{
			Kind:    ErrRuntime,
			Message: fmt.Sprintf("interpreter exited with code %d: %s", code, detail),
		}
	}
}

// decodeOutput validates the stdout envelope against the dataset schema and
// decodes it. Either failure is an output shape error: the candidate ran but
// did not produce a dataset.
func decodeOutput(stdout []byte) (*tabular.Dataset, error) {
	if errs := schema.ValidateEnvelopeBytes(stdout); len(errs) > 0 {
		return nil, &Error{
			Kind:    ErrOutputShape,
			Message: "candidate output is not a dataset envelope: " + strings.Join(errs, "; "),
		}
	}
	ds, err := tabular.DecodeEnvelope(stdout)
	if err != nil {
		return nil, &Error{Kind: ErrOutputShape, Message: err.Error()}
	}
	return ds, nil
}

// scrubbedEnv builds a minimal child environment: interpreter basics only,
// no inherited credentials or proxy settings.
func scrubbedEnv() []string {
	env := []string{
		"PYTHONDONTWRITEBYTECODE=1",
		"PYTHONIOENCODING=utf-8",
		"NO_PROXY=*",
	}
	for _, key := range []string{"PATH", "HOME", "LANG"} {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return env
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
