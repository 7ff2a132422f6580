package reporting

import (
	"strings"
	"testing"

	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/session"
	"github.com/statext/statext/internal/validate"
	"github.com/stretchr/testify/require"
)

func successResult() *session.Result {
	return &session.Result{
		SessionID: "s-1",
		TaskName:  "chase-checking",
		Status:    session.StatusSucceeded,
		Attempts: []session.AttemptSummary{
			{Index: 1, Outcome: &session.AttemptOutcome{Kind: session.OutcomeSuccess}, DurationMs: 420},
		},
		WinningSource: "def parse(p): ...",
		DurationMs:    450,
	}
}

func exhaustedResult() *session.Result {
	return &session.Result{
		SessionID: "s-2",
		TaskName:  "boa-savings",
		Status:    session.StatusExhausted,
		Reason:    session.ReasonBudgetExhausted,
		Attempts: []session.AttemptSummary{
			{Index: 1, Outcome: &session.AttemptOutcome{
				Kind:      session.OutcomeExecutionFailure,
				ExecError: &execute.Error{Kind: execute.ErrRuntime, Message: "IndexError: list index out of range", Location: "line 9"},
			}},
			{Index: 2, Outcome: &session.AttemptOutcome{
				Kind: session.OutcomeValidationFailure,
				Verdict: &validate.Verdict{Pass: false, Diff: &validate.Diff{
					CellMismatches: []validate.CellMismatch{
						{Row: 0, Column: "amount", Expected: "-4.5", Actual: "4.5"},
					},
				}},
			}},
		},
		DurationMs: 9000,
	}
}

func TestInterpretStatus(t *testing.T) {
	require.Equal(t, "Succeeded on the first attempt", InterpretStatus(successResult()))
	require.Equal(t, "Gave up after 2 attempt(s)", InterpretStatus(exhaustedResult()))

	cancelled := exhaustedResult()
	cancelled.Reason = session.ReasonCancelled
	require.Contains(t, InterpretStatus(cancelled), "Cancelled")
}

func TestFormatSummaryReport_Success(t *testing.T) {
	report := FormatSummaryReport(successResult())

	require.Contains(t, report, "chase-checking")
	require.Contains(t, report, "Succeeded on the first attempt")
	require.Contains(t, report, "✓ #1")
	require.NotContains(t, report, "Final attempt detail")
}

func TestFormatSummaryReport_Exhausted(t *testing.T) {
	report := FormatSummaryReport(exhaustedResult())

	require.Contains(t, report, "boa-savings")
	require.Contains(t, report, "Gave up after 2 attempt(s)")
	require.Contains(t, report, "✗ #1")
	require.Contains(t, report, "✗ #2")
	// The final attempt's full diff is expanded.
	require.Contains(t, report, "Final attempt detail")
	require.Contains(t, report, `row 0, column "amount"`)
}

func TestFormatBatchReport(t *testing.T) {
	report := FormatBatchReport([]*session.Result{successResult(), exhaustedResult()})

	require.Contains(t, report, "1 succeeded, 1 exhausted out of 2")
	require.True(t, strings.Contains(report, "✓ chase-checking"))
	require.True(t, strings.Contains(report, "✗ boa-savings"))
}
