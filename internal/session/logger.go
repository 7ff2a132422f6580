package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Logger defines the interface for session transcript logging.
type Logger interface {
	Log(event Event) error
	Close() error
}

// JSONLogger writes events as newline-delimited JSON (NDJSON). When the path
// ends in .zst the stream is zstd-compressed.
type JSONLogger struct {
	mu   sync.Mutex
	file *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
	path string
}

// NewJSONLogger creates a logger that writes NDJSON to the given path.
// Parent directories are created automatically.
func NewJSONLogger(path string) (*JSONLogger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating transcript directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}

	l := &JSONLogger{file: f, path: path}
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		l.zw = zw
		l.enc = json.NewEncoder(zw)
	} else {
		l.enc = json.NewEncoder(f)
	}
	return l, nil
}

// Log writes a single event as one JSON line.
func (l *JSONLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(event)
}

// Close flushes and closes the underlying file.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.zw != nil {
		if err := l.zw.Close(); err != nil {
			l.file.Close() //nolint:errcheck
			return err
		}
	}
	return l.file.Close()
}

// Path returns the file path of the transcript.
func (l *JSONLogger) Path() string {
	return l.path
}

// NopLogger discards all events. Useful as a default when logging is disabled.
type NopLogger struct{}

// Log is a no-op.
func (NopLogger) Log(Event) error { return nil }

// Close is a no-op.
func (NopLogger) Close() error { return nil }

// DefaultLogPath returns a timestamped transcript path inside dir for the
// named task.
func DefaultLogPath(dir, taskName string) string {
	ts := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, fmt.Sprintf("%s-%s-session.jsonl.zst", ts, taskName))
}

// openTranscript opens a transcript for reading, transparently decompressing
// zstd streams. The returned closer releases decoder and file resources.
func openTranscript(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, func() { f.Close() }, nil //nolint:errcheck
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	return zr, func() {
		zr.Close()
		f.Close() //nolint:errcheck
	}, nil
}
