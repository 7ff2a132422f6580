package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/statext/statext/internal/session"
)

// SaveResult writes the session result as indented JSON under dir and, for a
// successful session, writes the winning routine next to it. It returns the
// result file path.
func SaveResult(dir string, r *session.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-result.json", r.TaskName))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing result: %w", err)
	}

	if r.WinningSource != "" {
		srcPath := filepath.Join(dir, fmt.Sprintf("%s-parser.py", r.TaskName))
		if err := os.WriteFile(srcPath, []byte(r.WinningSource), 0644); err != nil {
			return "", fmt.Errorf("writing winning routine: %w", err)
		}
	}

	return path, nil
}
