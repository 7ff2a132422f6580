package orchestration

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/statext/statext/internal/session"
	"github.com/statext/statext/internal/task"
)

// BatchEntry pairs a task with the runner configured for it. Jobs carry their
// own generator and executor settings, so each gets its own runner.
type BatchEntry struct {
	Runner *Runner
	Task   *task.Task
}

// RunBatch runs sessions for all entries with at most limit running at once.
// A non-positive limit runs them sequentially. Results hold the same order as
// entries. The first infrastructural failure cancels the remaining sessions.
func RunBatch(ctx context.Context, entries []BatchEntry, limit int) ([]*session.Result, error) {
	if limit <= 0 {
		limit = 1
	}

	results := make([]*session.Result, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, entry := range entries {
		g.Go(func() error {
			result, err := entry.Runner.Run(ctx, entry.Task)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
