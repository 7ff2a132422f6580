package orchestration

import (
	"github.com/statext/statext/internal/generate"
	"github.com/statext/statext/internal/tabular"
	"github.com/statext/statext/internal/task"
)

// buildPlan derives the generation plan from the task's reference dataset.
// The plan is computed once per session; every attempt shares it.
func buildPlan(t *task.Task) *generate.PlanContext {
	names := t.Reference.ColumnNames()
	kinds := make(map[string]tabular.Kind, len(names))
	for _, name := range names {
		kinds[name] = t.Reference.ColumnKind(name)
	}
	return &generate.PlanContext{
		TaskName:    t.Name,
		Document:    t.Document,
		ColumnNames: names,
		ColumnTypes: kinds,
		LayoutHints: t.LayoutHints,
	}
}
