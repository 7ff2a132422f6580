package orchestration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/statext/statext/internal/execute"
	"github.com/statext/statext/internal/generate"
	"github.com/statext/statext/internal/session"
	"github.com/stretchr/testify/require"
)

func batchEntry(t *testing.T, name string, pass bool) BatchEntry {
	t.Helper()
	tk := testTask(t)
	tk.Name = name

	result := execute.MockResult{Dataset: referenceDataset(t)}
	if !pass {
		result = execute.MockResult{Err: &execute.Error{Kind: execute.ErrRuntime, Message: "boom"}}
	}

	gen := &generate.MockGenerator{Sources: []string{"v1", "v2", "v3"}}
	exec := &execute.MockExecutor{Results: []execute.MockResult{result, result, result}}
	return BatchEntry{Runner: newTestRunner(gen, exec), Task: tk}
}

func TestRunBatch(t *testing.T) {
	entries := []BatchEntry{
		batchEntry(t, "job-a", true),
		batchEntry(t, "job-b", false),
		batchEntry(t, "job-c", true),
	}

	results, err := RunBatch(context.Background(), entries, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results keep entry order regardless of completion order.
	require.Equal(t, "job-a", results[0].TaskName)
	require.Equal(t, "job-b", results[1].TaskName)
	require.Equal(t, "job-c", results[2].TaskName)

	require.Equal(t, session.StatusSucceeded, results[0].Status)
	require.Equal(t, session.StatusExhausted, results[1].Status)
	require.Equal(t, session.StatusSucceeded, results[2].Status)
}

func TestRunBatch_SequentialWhenLimitUnset(t *testing.T) {
	entries := []BatchEntry{
		batchEntry(t, "one", true),
		batchEntry(t, "two", true),
	}

	results, err := RunBatch(context.Background(), entries, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestRunBatch_InfrastructuralFailureStopsBatch(t *testing.T) {
	broken := testTask(t)
	broken.Name = "broken"
	gen := &generate.MockGenerator{Sources: []string{"v1"}}
	exec := &execute.MockExecutor{Results: []execute.MockResult{
		{Err: errors.New("workspace creation failed")},
	}}

	entries := []BatchEntry{
		{Runner: newTestRunner(gen, exec), Task: broken},
	}
	_, err := RunBatch(context.Background(), entries, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "workspace creation failed")
}

func TestRunBatch_Empty(t *testing.T) {
	results, err := RunBatch(context.Background(), nil, 4)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRunBatch_ManyJobs(t *testing.T) {
	var entries []BatchEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, batchEntry(t, fmt.Sprintf("job-%d", i), true))
	}

	results, err := RunBatch(context.Background(), entries, 4)
	require.NoError(t, err)
	require.Len(t, results, 10)
	for i, r := range results {
		require.Equal(t, fmt.Sprintf("job-%d", i), r.TaskName)
	}
}
