// Package orchestration drives the attempt loop: generate a candidate
// routine, execute it against the document, validate its output, and feed a
// critique into the next attempt until success or the budget runs out.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/statext/statext/internal/config"
	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/feedback"
	"github.com/statext/statext/internal/generate"
	"github.com/statext/statext/internal/session"
	"github.com/statext/statext/internal/task"
	"github.com/statext/statext/internal/validate"
)

// Runner executes sessions for tasks.
type Runner struct {
	cfg       *config.RunConfig
	generator generate.Generator
	executor  execute.Executor
	validator *validate.Validator
	synth     *feedback.Synthesizer
	logger    session.Logger

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event.
type EventType string

const (
	EventSessionStart    EventType = "session_start"
	EventSessionComplete EventType = "session_complete"
	EventAttemptStart    EventType = "attempt_start"
	EventAttemptComplete EventType = "attempt_complete"
	EventCritique        EventType = "critique"
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	EventType   EventType
	TaskName    string
	Attempt     int
	MaxAttempts int
	Outcome     session.OutcomeKind
	Status      session.Status
	DurationMs  int64
	Details     map[string]any
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the session transcript logger.
func WithLogger(l session.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithSynthesizer overrides the critique synthesizer.
func WithSynthesizer(s *feedback.Synthesizer) RunnerOption {
	return func(r *Runner) {
		r.synth = s
	}
}

// NewRunner creates a runner. The validator and synthesizer derive from cfg
// unless overridden.
func NewRunner(cfg *config.RunConfig, gen generate.Generator, exec execute.Executor, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		generator: gen,
		executor:  exec,
		validator: validate.New(cfg.ValidatorOptions()),
		synth:     feedback.NewSynthesizer(0),
		logger:    session.NopLogger{},
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func (r *Runner) logEvent(t session.EventType, data map[string]any) {
	if err := r.logger.Log(session.NewEvent(t, data)); err != nil {
		slog.Warn("failed to log session event", "type", t, "error", err)
	}
}

// Run executes one session for the task. It returns an error only for
// infrastructural failures (a broken executor, an unrunnable task); candidate
// failures are absorbed into the attempt record and the critique loop.
func (r *Runner) Run(ctx context.Context, t *task.Task) (*session.Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	sess := session.New(t.Name)
	maxAttempts := r.cfg.MaxAttempts()
	plan := buildPlan(t)

	r.logEvent(session.EventSessionStart, session.SessionStartData(sess.ID, t.Name, t.Document, maxAttempts))
	r.notifyProgress(ProgressEvent{
		EventType:   EventSessionStart,
		TaskName:    t.Name,
		MaxAttempts: maxAttempts,
	})

	critique := ""
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// A cancelled context ends the session between attempts; an attempt
		// already underway runs to completion.
		if ctx.Err() != nil {
			if err := sess.Conclude(session.StatusExhausted, session.ReasonCancelled); err != nil {
				return nil, err
			}
			break
		}

		r.logEvent(session.EventAttemptStart, session.AttemptStartData(attempt, maxAttempts))
		r.notifyProgress(ProgressEvent{
			EventType:   EventAttemptStart,
			TaskName:    t.Name,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
		})

		started := time.Now()
		source, outcome, err := r.runAttempt(ctx, plan, t, critique)
		if err != nil {
			r.logEvent(session.EventError, session.ErrorData(err.Error(), map[string]any{"attempt": attempt}))
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		durationMs := time.Since(started).Milliseconds()

		rec := &session.Attempt{
			Index:      attempt,
			Source:     source,
			Outcome:    outcome,
			DurationMs: durationMs,
		}

		// Synthesize a critique only when another attempt will consume it.
		critique = ""
		if !outcome.Succeeded() && attempt < maxAttempts {
			if c := r.synth.Synthesize(outcome, source); c != nil {
				critique = c.Render()
				rec.Critique = critique
				r.logEvent(session.EventCritique, session.CritiqueData(attempt, critique))
				r.notifyProgress(ProgressEvent{
					EventType:   EventCritique,
					TaskName:    t.Name,
					Attempt:     attempt,
					MaxAttempts: maxAttempts,
				})
			}
		}

		if err := sess.Record(rec); err != nil {
			return nil, err
		}

		r.logEvent(session.EventAttemptComplete, session.AttemptCompleteData(attempt, outcome, durationMs))
		r.notifyProgress(ProgressEvent{
			EventType:   EventAttemptComplete,
			TaskName:    t.Name,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Outcome:     outcome.Kind,
			DurationMs:  durationMs,
		})

		if outcome.Succeeded() {
			if err := sess.Conclude(session.StatusSucceeded, ""); err != nil {
				return nil, err
			}
			break
		}
	}

	if sess.Status() == session.StatusPending {
		if err := sess.Conclude(session.StatusExhausted, session.ReasonBudgetExhausted); err != nil {
			return nil, err
		}
	}

	result, err := sess.Finalize()
	if err != nil {
		return nil, err
	}

	r.logEvent(session.EventSessionEnd, session.SessionCompleteData(result.Status, result.Reason, len(result.Attempts), result.DurationMs))
	r.notifyProgress(ProgressEvent{
		EventType:   EventSessionComplete,
		TaskName:    t.Name,
		Attempt:     len(result.Attempts),
		MaxAttempts: maxAttempts,
		Status:      result.Status,
		DurationMs:  result.DurationMs,
	})

	return result, nil
}

// runAttempt performs one generate/execute/validate pass. Candidate failures
// come back as an outcome; only infrastructural failures return an error.
func (r *Runner) runAttempt(ctx context.Context, plan *generate.PlanContext, t *task.Task, critique string) (string, *session.AttemptOutcome, error) {
	genCtx, cancel := context.WithTimeout(ctx, r.cfg.GenerationTimeout())
	source, err := r.generator.Generate(genCtx, &generate.Request{Plan: plan, Critique: critique})
	cancel()
	if err != nil {
		// Model failures consume budget like any other failed attempt; the
		// session must terminate within its bound even against a flaky
		// backend.
		slog.Debug("generation failed", "task", t.Name, "error", err)
		return "", &session.AttemptOutcome{
			Kind:            session.OutcomeGenerationFailure,
			GenerationError: err.Error(),
		}, nil
	}

	dataset, err := r.executor.Execute(ctx, &execute.Request{Source: source, Document: t.Document})
	if err != nil {
		var execErr *execute.Error
		if !errors.As(err, &execErr) {
			return source, nil, fmt.Errorf("executor failure: %w", err)
		}
		slog.Debug("candidate execution failed", "task", t.Name, "kind", execErr.Kind)
		return source, &session.AttemptOutcome{
			Kind:      session.OutcomeExecutionFailure,
			ExecError: execErr,
		}, nil
	}

	verdict := r.validator.Validate(dataset, t.Reference)
	if !verdict.Pass {
		return source, &session.AttemptOutcome{
			Kind:    session.OutcomeValidationFailure,
			Verdict: verdict,
		}, nil
	}

	return source, &session.AttemptOutcome{Kind: session.OutcomeSuccess, Dataset: dataset}, nil
}
