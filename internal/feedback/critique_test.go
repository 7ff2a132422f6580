package feedback

import (
	"strings"
	"testing"

	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/session"
	"github.com/statext/statext/internal/validate"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_Success(t *testing.T) {
	s := NewSynthesizer(0)
	require.Nil(t, s.Synthesize(&session.AttemptOutcome{Kind: session.OutcomeSuccess}, "src"))
	require.Nil(t, s.Synthesize(nil, "src"))
}

func TestSynthesize_GenerationFailure(t *testing.T) {
	s := NewSynthesizer(0)
	c := s.Synthesize(&session.AttemptOutcome{
		Kind:            session.OutcomeGenerationFailure,
		GenerationError: "model request timed out",
	}, "")

	require.Equal(t, session.OutcomeGenerationFailure, c.Kind)
	require.Empty(t, c.PriorSource)

	rendered := c.Render()
	require.Contains(t, rendered, "did not produce a script")
	require.Contains(t, rendered, "model request timed out")
}

func TestSynthesize_ExecutionFailure(t *testing.T) {
	tests := []struct {
		kind     execute.ErrorKind
		wantHint string
	}{
		{execute.ErrSyntax, "syntax error"},
		{execute.ErrRuntime, "raised an exception"},
		{execute.ErrTimeout, "time limit"},
		{execute.ErrOutputShape, "not a table"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s := NewSynthesizer(0)
			c := s.Synthesize(&session.AttemptOutcome{
				Kind: session.OutcomeExecutionFailure,
				ExecError: &execute.Error{
					Kind:     tt.kind,
					Message:  "KeyError: 'amount'",
					Location: "line 12",
				},
			}, "def parse(p): ...")

			rendered := c.Render()
			require.Contains(t, rendered, tt.wantHint)
			require.Contains(t, rendered, "KeyError: 'amount'")
			require.Contains(t, rendered, "line 12")
			require.Contains(t, rendered, "def parse(p): ...")
		})
	}
}

func TestSynthesize_ValidationFailure(t *testing.T) {
	s := NewSynthesizer(0)
	c := s.Synthesize(&session.AttemptOutcome{
		Kind: session.OutcomeValidationFailure,
		Verdict: &validate.Verdict{
			Pass: false,
			Diff: &validate.Diff{
				CellMismatches: []validate.CellMismatch{
					{Row: 1, Column: "amount", Expected: "10", Actual: "$10.00"},
				},
			},
		},
	}, "def parse(p): ...")

	rendered := c.Render()
	require.Contains(t, rendered, "did not match the expected table")
	require.Contains(t, rendered, `row 1, column "amount"`)
	require.Contains(t, rendered, "$10.00")
}

func TestSynthesize_TruncatesPriorSource(t *testing.T) {
	s := NewSynthesizer(64)
	long := strings.Repeat("x", 500)
	c := s.Synthesize(&session.AttemptOutcome{
		Kind:      session.OutcomeExecutionFailure,
		ExecError: &execute.Error{Kind: execute.ErrRuntime, Message: "boom"},
	}, long)

	require.LessOrEqual(t, len(c.PriorSource), 64+len("\n# [script truncated]"))
	require.Contains(t, c.PriorSource, "[script truncated]")
}

func TestRender_IsBounded(t *testing.T) {
	// A critique built from a bounded diff and a truncated source stays small
	// no matter how large the failing dataset was.
	s := NewSynthesizer(DefaultMaxSourceBytes)

	diff := &validate.Diff{TruncatedRows: 1000000}
	for i := 0; i < validate.DefaultMaxDiffRows; i++ {
		diff.CellMismatches = append(diff.CellMismatches, validate.CellMismatch{
			Row: i, Column: "amount", Expected: "1", Actual: "2",
		})
	}

	c := s.Synthesize(&session.AttemptOutcome{
		Kind:    session.OutcomeValidationFailure,
		Verdict: &validate.Verdict{Pass: false, Diff: diff},
	}, strings.Repeat("y", 100000))

	require.Less(t, len(c.Render()), 16*1024)
}
