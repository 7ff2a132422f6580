package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionFile represents a transcript file on disk.
type SessionFile struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	NumEvents int
}

// ListSessions finds transcript files in dir, newest first.
func ListSessions(dir string) ([]SessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading transcript directory: %w", err)
	}

	var files []SessionFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, "-session.jsonl") && !strings.HasSuffix(name, "-session.jsonl.zst") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, name)
		events, _ := ReadEvents(path) //nolint:errcheck
		files = append(files, SessionFile{
			Path:      path,
			Name:      name,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			NumEvents: len(events),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// ReadEvents parses all events from a transcript file.
func ReadEvents(path string) ([]Event, error) {
	r, closeFn, err := openTranscript(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var events []Event
	scanner := bufio.NewScanner(r)
	// Increase buffer for large lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue // skip malformed lines
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a human-readable session timeline to w.
//
//nolint:errcheck // display-only writes; errors are not actionable
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, " SESSION TIMELINE")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	start := events[0].Timestamp
	for _, ev := range events {
		elapsed := ev.Timestamp.Sub(start)
		ts := formatDuration(elapsed)

		switch ev.Type {
		case EventSessionStart:
			task, _ := ev.Data["task_name"].(string) //nolint:errcheck
			doc, _ := ev.Data["document"].(string)   //nolint:errcheck
			budget := jsonNumber(ev.Data["max_attempts"])
			fmt.Fprintf(w, "[%s] 🚀 Session started  task=%s  document=%s  budget=%d\n", ts, task, doc, budget)

		case EventAttemptStart:
			num := jsonNumber(ev.Data["attempt"])
			total := jsonNumber(ev.Data["max_attempts"])
			fmt.Fprintf(w, "[%s] ▶  Attempt %d/%d\n", ts, num, total)

		case EventAttemptComplete:
			num := jsonNumber(ev.Data["attempt"])
			outcome, _ := ev.Data["outcome"].(string) //nolint:errcheck
			dur := jsonNumber(ev.Data["duration_ms"])
			icon := "✗"
			if outcome == string(OutcomeSuccess) {
				icon = "✓"
			}
			fmt.Fprintf(w, "[%s] %s  Attempt %d: %s (%dms)\n", ts, icon, num, outcome, dur)
			if msg, ok := ev.Data["error_message"].(string); ok && msg != "" {
				fmt.Fprintf(w, "[%s]      %s\n", ts, firstLine(msg))
			}

		case EventCritique:
			num := jsonNumber(ev.Data["attempt"])
			fmt.Fprintf(w, "[%s] ✍  Critique after attempt %d\n", ts, num)

		case EventError:
			msg, _ := ev.Data["message"].(string) //nolint:errcheck
			fmt.Fprintf(w, "[%s] ❌ Error: %s\n", ts, msg)

		case EventSessionEnd:
			status, _ := ev.Data["status"].(string) //nolint:errcheck
			attempts := jsonNumber(ev.Data["attempts"])
			dur := jsonNumber(ev.Data["duration_ms"])
			icon := "🏁"
			if status != string(StatusSucceeded) {
				icon = "💤"
			}
			fmt.Fprintf(w, "[%s] %s Session %s after %d attempt(s) (%dms)\n", ts, icon, status, attempts, dur)

		default:
			fmt.Fprintf(w, "[%s] %s %v\n", ts, ev.Type, ev.Data)
		}
	}
	fmt.Fprintln(w)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%6dms", d.Milliseconds())
	}
	return fmt.Sprintf("%6.1fs", d.Seconds())
}

// jsonNumber extracts a number from a JSON-decoded interface{} (float64 or json.Number).
func jsonNumber(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		i, _ := n.Int64() //nolint:errcheck
		return int(i)
	}
	return 0
}
