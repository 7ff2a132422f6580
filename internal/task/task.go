// Package task defines extraction tasks and the YAML job specs that describe
// them on disk.
package task

import (
	"fmt"

	"github.com/statext/statext/internal/tabular"
)

// Task is one extraction problem: a statement document and the reference
// dataset a candidate routine's output must reproduce.
type Task struct {
	Name      string
	Document  string
	Reference *tabular.Dataset
	// LayoutHints are free-form notes about the document's structure, passed
	// to the generator verbatim.
	LayoutHints []string
}

// Validate checks the task is runnable.
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task has no name")
	}
	if t.Document == "" {
		return fmt.Errorf("task %q has no document", t.Name)
	}
	if t.Reference == nil || t.Reference.NumColumns() == 0 {
		return fmt.Errorf("task %q has no reference dataset", t.Name)
	}
	return nil
}
