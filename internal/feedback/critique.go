// Package feedback turns failed attempt outcomes into bounded critiques for
// the next generation call.
package feedback

import (
	"fmt"
	"strings"

	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/session"
)

// DefaultMaxSourceBytes bounds how much of the prior routine a critique
// carries. Oversized scripts are truncated, never dropped entirely.
const DefaultMaxSourceBytes = 8 * 1024

// Critique describes why an attempt was rejected and what the next one must
// fix. Render produces the text handed to the generator.
type Critique struct {
	Kind    session.OutcomeKind `json:"kind"`
	Summary string              `json:"summary"`
	Detail  string              `json:"detail,omitempty"`
	// PriorSource is the rejected routine, truncated to the synthesizer's
	// byte bound. Empty when generation itself failed.
	PriorSource string `json:"prior_source,omitempty"`
}

// Render formats the critique for inclusion in a generation prompt.
func (c *Critique) Render() string {
	var b strings.Builder
	b.WriteString(c.Summary)
	if c.Detail != "" {
		b.WriteString("\n\n")
		b.WriteString(c.Detail)
	}
	if c.PriorSource != "" {
		b.WriteString("\n\nThe rejected script was:\n\n")
		b.WriteString(c.PriorSource)
	}
	return b.String()
}

// Synthesizer builds critiques from attempt outcomes.
type Synthesizer struct {
	maxSourceBytes int
}

// NewSynthesizer creates a synthesizer. A non-positive maxSourceBytes selects
// DefaultMaxSourceBytes.
func NewSynthesizer(maxSourceBytes int) *Synthesizer {
	if maxSourceBytes <= 0 {
		maxSourceBytes = DefaultMaxSourceBytes
	}
	return &Synthesizer{maxSourceBytes: maxSourceBytes}
}

// Synthesize builds the critique for a failed attempt. It returns nil for a
// successful outcome, which never needs one.
func (s *Synthesizer) Synthesize(outcome *session.AttemptOutcome, priorSource string) *Critique {
	if outcome == nil || outcome.Succeeded() {
		return nil
	}

	c := &Critique{
		Kind:        outcome.Kind,
		PriorSource: s.truncateSource(priorSource),
	}

	switch outcome.Kind {
	case session.OutcomeGenerationFailure:
		c.Summary = "The previous attempt did not produce a script at all."
		c.Detail = outcome.GenerationError
		c.PriorSource = ""

	case session.OutcomeExecutionFailure:
		c.Summary, c.Detail = describeExecError(outcome.ExecError)

	case session.OutcomeValidationFailure:
		c.Summary = "The script ran but its output did not match the expected table."
		if outcome.Verdict != nil {
			c.Detail = outcome.Verdict.Diff.Format()
		}

	default:
		c.Summary = fmt.Sprintf("The previous attempt failed (%s).", outcome.Kind)
	}

	return c
}

func describeExecError(e *execute.Error) (summary, detail string) {
	if e == nil {
		return "The script failed to run.", ""
	}

	switch e.Kind {
	case execute.ErrSyntax:
		summary = "The script has a syntax error and could not be loaded."
	case execute.ErrRuntime:
		summary = "The script raised an exception while parsing the document."
	case execute.ErrTimeout:
		summary = "The script ran past its time limit. It must finish faster; avoid unbounded loops and per-page re-reads."
	case execute.ErrOutputShape:
		summary = "The script returned something that is not a table of columns."
	default:
		summary = "The script failed to run."
	}

	detail = e.Message
	if e.Location != "" {
		detail = fmt.Sprintf("%s (%s)", detail, e.Location)
	}
	return summary, detail
}

func (s *Synthesizer) truncateSource(src string) string {
	if len(src) <= s.maxSourceBytes {
		return src
	}
	return src[:s.maxSourceBytes] + "\n# [script truncated]"
}
