// Package reporting renders session results for humans and CI, and persists
// them to disk.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/statext/statext/internal/session"
)

// InterpretStatus returns a plain-language label for a session status.
func InterpretStatus(r *session.Result) string {
	switch r.Status {
	case session.StatusSucceeded:
		if n := len(r.Attempts); n == 1 {
			return "Succeeded on the first attempt"
		}
		return fmt.Sprintf("Succeeded after %d attempts", len(r.Attempts))
	case session.StatusExhausted:
		if r.Reason == session.ReasonCancelled {
			return fmt.Sprintf("Cancelled after %d attempt(s)", len(r.Attempts))
		}
		return fmt.Sprintf("Gave up after %d attempt(s)", len(r.Attempts))
	default:
		return string(r.Status)
	}
}

// interpretOutcome explains one attempt outcome in a sentence.
func interpretOutcome(o *session.AttemptOutcome) string {
	switch o.Kind {
	case session.OutcomeSuccess:
		return "output matched the reference"
	case session.OutcomeGenerationFailure:
		return fmt.Sprintf("no script was generated: %s", o.GenerationError)
	case session.OutcomeExecutionFailure:
		if o.ExecError != nil {
			return fmt.Sprintf("script failed (%s): %s", o.ExecError.Kind, firstLine(o.ExecError.Message))
		}
		return "script failed to run"
	case session.OutcomeValidationFailure:
		if o.Verdict != nil && o.Verdict.Diff != nil {
			if n := o.Verdict.Diff.MismatchedRows(); n > 0 {
				return fmt.Sprintf("output differed from the reference in %d row(s)", n)
			}
		}
		return "output differed from the reference"
	default:
		return string(o.Kind)
	}
}

// FormatSummaryReport produces a full plain-language report for one session.
// The final failed attempt is expanded in full, since it explains why the
// session ended the way it did.
func FormatSummaryReport(r *session.Result) string {
	var b strings.Builder

	duration := time.Duration(r.DurationMs) * time.Millisecond

	b.WriteString("=== Session Summary ===\n\n")
	b.WriteString(fmt.Sprintf("Task:     %s\n", r.TaskName))
	b.WriteString(fmt.Sprintf("Outcome:  %s\n", InterpretStatus(r)))
	b.WriteString(fmt.Sprintf("Duration: %v\n", duration))

	if len(r.Attempts) > 0 {
		b.WriteString("\nAttempts:\n")
		for _, a := range r.Attempts {
			icon := "✗"
			if a.Outcome.Succeeded() {
				icon = "✓"
			}
			b.WriteString(fmt.Sprintf("  %s #%d: %s (%dms)\n", icon, a.Index, interpretOutcome(a.Outcome), a.DurationMs))
		}
	}

	if r.Status == session.StatusExhausted {
		if last := lastAttempt(r); last != nil {
			if detail := outcomeDetail(last.Outcome); detail != "" {
				b.WriteString("\nFinal attempt detail:\n")
				b.WriteString(indent(detail, "  "))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// FormatBatchReport summarizes several sessions, one line per task.
func FormatBatchReport(results []*session.Result) string {
	var b strings.Builder

	succeeded := 0
	for _, r := range results {
		if r.Status == session.StatusSucceeded {
			succeeded++
		}
	}

	b.WriteString("=== Batch Summary ===\n\n")
	b.WriteString(fmt.Sprintf("Jobs: %d succeeded, %d exhausted out of %d\n\n", succeeded, len(results)-succeeded, len(results)))
	for _, r := range results {
		icon := "✗"
		if r.Status == session.StatusSucceeded {
			icon = "✓"
		}
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", icon, r.TaskName, InterpretStatus(r)))
	}
	return b.String()
}

func lastAttempt(r *session.Result) *session.AttemptSummary {
	if len(r.Attempts) == 0 {
		return nil
	}
	return &r.Attempts[len(r.Attempts)-1]
}

// outcomeDetail renders the full detail of a failed outcome: the complete
// bounded diff for validation failures, the message and location for
// execution failures.
func outcomeDetail(o *session.AttemptOutcome) string {
	switch o.Kind {
	case session.OutcomeValidationFailure:
		if o.Verdict != nil {
			return o.Verdict.Diff.Format()
		}
	case session.OutcomeExecutionFailure:
		if o.ExecError != nil {
			if o.ExecError.Location != "" {
				return fmt.Sprintf("%s (%s)", o.ExecError.Message, o.ExecError.Location)
			}
			return o.ExecError.Message
		}
	case session.OutcomeGenerationFailure:
		return o.GenerationError
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
