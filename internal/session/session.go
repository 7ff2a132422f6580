package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/tabular"
	"github.com/statext/statext/internal/validate"
)

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusPending means the session is still attempting.
	StatusPending Status = "pending"
	// StatusSucceeded means an attempt produced a dataset matching the reference.
	StatusSucceeded Status = "succeeded"
	// StatusExhausted means the attempt budget ran out without a success.
	StatusExhausted Status = "exhausted"
)

// EndReason qualifies why an exhausted session stopped.
type EndReason string

const (
	ReasonBudgetExhausted EndReason = "budget_exhausted"
	ReasonCancelled       EndReason = "cancelled"
)

// OutcomeKind classifies how one attempt ended.
type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeGenerationFailure OutcomeKind = "generation_failure"
	OutcomeExecutionFailure  OutcomeKind = "execution_failure"
	OutcomeValidationFailure OutcomeKind = "validation_failure"
)

// AttemptOutcome is the result of running one candidate routine. Exactly one
// of the detail fields is set, according to Kind: ExecError for execution
// failures, Verdict for validation failures, GenerationError for generation
// failures. Success carries no detail beyond the dataset.
type AttemptOutcome struct {
	Kind OutcomeKind `json:"kind"`
	// Dataset is the extracted table, set only on success. It is kept out of
	// serialized records; transcripts and saved results carry the source.
	Dataset         *tabular.Dataset  `json:"-"`
	ExecError       *execute.Error    `json:"exec_error,omitempty"`
	Verdict         *validate.Verdict `json:"verdict,omitempty"`
	GenerationError string            `json:"generation_error,omitempty"`
}

// Succeeded reports whether the attempt produced a matching dataset.
func (o *AttemptOutcome) Succeeded() bool {
	return o != nil && o.Kind == OutcomeSuccess
}

// Attempt is one full pass through generate, execute, and validate.
type Attempt struct {
	// Index is 1-based.
	Index int `json:"index"`
	// Source is the candidate routine, empty when generation itself failed.
	Source  string          `json:"source,omitempty"`
	Outcome *AttemptOutcome `json:"outcome"`
	// Critique is the rendered feedback handed to the next attempt. Empty on
	// the final attempt and on success.
	Critique   string `json:"critique,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Session is the append-only record of one task run. It is not safe for
// concurrent use; the runner owns it for the duration of the run.
type Session struct {
	ID        string
	TaskName  string
	StartedAt time.Time

	status   Status
	reason   EndReason
	attempts []*Attempt
}

// New creates a pending session for the named task.
func New(taskName string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		TaskName:  taskName,
		StartedAt: time.Now().UTC(),
		status:    StatusPending,
	}
}

// Record appends a completed attempt. Attempts must arrive in index order.
func (s *Session) Record(a *Attempt) error {
	if s.status != StatusPending {
		return fmt.Errorf("session %s already concluded", s.ID)
	}
	if want := len(s.attempts) + 1; a.Index != want {
		return fmt.Errorf("attempt index %d out of order, expected %d", a.Index, want)
	}
	s.attempts = append(s.attempts, a)
	return nil
}

// Conclude transitions the session to its terminal status. It may be called
// exactly once; reason is only meaningful for StatusExhausted.
func (s *Session) Conclude(status Status, reason EndReason) error {
	if s.status != StatusPending {
		return fmt.Errorf("session %s already concluded as %s", s.ID, s.status)
	}
	if status != StatusSucceeded && status != StatusExhausted {
		return fmt.Errorf("cannot conclude session with status %q", status)
	}
	s.status = status
	if status == StatusExhausted {
		s.reason = reason
	}
	return nil
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Reason returns the end reason for an exhausted session, empty otherwise.
func (s *Session) Reason() EndReason { return s.reason }

// Attempts returns the recorded attempts in order.
func (s *Session) Attempts() []*Attempt { return s.attempts }

// NumAttempts returns how many attempts were recorded.
func (s *Session) NumAttempts() int { return len(s.attempts) }

// LastAttempt returns the most recent attempt, or nil before the first.
func (s *Session) LastAttempt() *Attempt {
	if len(s.attempts) == 0 {
		return nil
	}
	return s.attempts[len(s.attempts)-1]
}

// Result is the immutable summary produced when a session concludes.
type Result struct {
	SessionID  string           `json:"session_id"`
	TaskName   string           `json:"task_name"`
	Status     Status           `json:"status"`
	Reason     EndReason        `json:"reason,omitempty"`
	Attempts   []AttemptSummary `json:"attempts"`
	// WinningSource is the routine from the successful attempt, empty when
	// the session exhausted its budget.
	WinningSource string `json:"winning_source,omitempty"`
	// FinalDataset is the table the winning routine extracted, nil when the
	// session exhausted its budget.
	FinalDataset *tabular.Dataset `json:"-"`
	StartedAt    time.Time        `json:"started_at"`
	DurationMs   int64            `json:"duration_ms"`
}

// AttemptSummary is the per-attempt slice of a Result.
type AttemptSummary struct {
	Index      int             `json:"index"`
	Outcome    *AttemptOutcome `json:"outcome"`
	Critique   string          `json:"critique,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

// Finalize builds the Result for a concluded session.
func (s *Session) Finalize() (*Result, error) {
	if s.status == StatusPending {
		return nil, fmt.Errorf("session %s has not concluded", s.ID)
	}

	r := &Result{
		SessionID:  s.ID,
		TaskName:   s.TaskName,
		Status:     s.status,
		Reason:     s.reason,
		StartedAt:  s.StartedAt,
		DurationMs: time.Since(s.StartedAt).Milliseconds(),
	}
	for _, a := range s.attempts {
		r.Attempts = append(r.Attempts, AttemptSummary{
			Index:      a.Index,
			Outcome:    a.Outcome,
			Critique:   a.Critique,
			DurationMs: a.DurationMs,
		})
		if a.Outcome.Succeeded() {
			r.WinningSource = a.Source
			r.FinalDataset = a.Outcome.Dataset
		}
	}
	return r, nil
}
