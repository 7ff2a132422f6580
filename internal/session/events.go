package session

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventSessionStart    EventType = "session_start"
	EventSessionEnd      EventType = "session_complete"
	EventAttemptStart    EventType = "attempt_start"
	EventAttemptComplete EventType = "attempt_complete"
	EventCritique        EventType = "critique"
	EventError           EventType = "error"
)

// Event is a single timestamped entry in a session transcript.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// SessionStartData returns event data for a session start.
func SessionStartData(sessionID, taskName, document string, maxAttempts int) map[string]any {
	return map[string]any{
		"session_id":   sessionID,
		"task_name":    taskName,
		"document":     document,
		"max_attempts": maxAttempts,
	}
}

// SessionCompleteData returns event data for a session end.
func SessionCompleteData(status Status, reason EndReason, attempts int, durationMs int64) map[string]any {
	d := map[string]any{
		"status":      string(status),
		"attempts":    attempts,
		"duration_ms": durationMs,
	}
	if reason != "" {
		d["reason"] = string(reason)
	}
	return d
}

// AttemptStartData returns event data for an attempt start.
func AttemptStartData(index, maxAttempts int) map[string]any {
	return map[string]any{
		"attempt":      index,
		"max_attempts": maxAttempts,
	}
}

// AttemptCompleteData returns event data for an attempt completion.
func AttemptCompleteData(index int, outcome *AttemptOutcome, durationMs int64) map[string]any {
	d := map[string]any{
		"attempt":     index,
		"outcome":     string(outcome.Kind),
		"duration_ms": durationMs,
	}
	if outcome.ExecError != nil {
		d["error_kind"] = string(outcome.ExecError.Kind)
		d["error_message"] = outcome.ExecError.Message
	}
	if outcome.GenerationError != "" {
		d["error_message"] = outcome.GenerationError
	}
	if outcome.Verdict != nil && !outcome.Verdict.Pass {
		d["mismatched_rows"] = outcome.Verdict.Diff.MismatchedRows()
	}
	return d
}

// CritiqueData returns event data for a critique handed to the next attempt.
func CritiqueData(attempt int, critique string) map[string]any {
	return map[string]any{
		"attempt":  attempt,
		"critique": critique,
	}
}

// ErrorData returns event data for an error.
func ErrorData(message string, details map[string]any) map[string]any {
	d := map[string]any{
		"message": message,
	}
	for k, v := range details {
		d[k] = v
	}
	return d
}
