package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/statext/statext/internal/orchestration"
	"github.com/statext/statext/internal/session"
)

// consoleReporter prints progress events. In verbose mode every attempt is
// reported; otherwise only session boundaries are.
type consoleReporter struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func newConsoleReporter(w io.Writer, verbose bool) *consoleReporter {
	return &consoleReporter{w: w, verbose: verbose}
}

// Listen is an orchestration.ProgressListener.
//
//nolint:errcheck // display-only writes; errors are not actionable
func (c *consoleReporter) Listen(ev orchestration.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.EventType {
	case orchestration.EventSessionStart:
		fmt.Fprintf(c.w, "▶ %s: starting (budget %d)\n", ev.TaskName, ev.MaxAttempts)

	case orchestration.EventAttemptStart:
		if c.verbose {
			fmt.Fprintf(c.w, "  %s: attempt %d/%d\n", ev.TaskName, ev.Attempt, ev.MaxAttempts)
		}

	case orchestration.EventAttemptComplete:
		if c.verbose {
			icon := "✗"
			if ev.Outcome == session.OutcomeSuccess {
				icon = "✓"
			}
			fmt.Fprintf(c.w, "  %s: attempt %d %s %s (%dms)\n", ev.TaskName, ev.Attempt, icon, ev.Outcome, ev.DurationMs)
		}

	case orchestration.EventCritique:
		if c.verbose {
			fmt.Fprintf(c.w, "  %s: critique fed into attempt %d\n", ev.TaskName, ev.Attempt+1)
		}

	case orchestration.EventSessionComplete:
		icon := "✓"
		if ev.Status != session.StatusSucceeded {
			icon = "✗"
		}
		fmt.Fprintf(c.w, "%s %s: %s after %d attempt(s) (%dms)\n", icon, ev.TaskName, ev.Status, ev.Attempt, ev.DurationMs)
	}
}
