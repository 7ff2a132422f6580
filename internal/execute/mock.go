package execute

import (
	"context"
	"fmt"

	"github.com/statext/statext/internal/tabular"
)

// MockResult scripts one Execute call of a MockExecutor.
type MockResult struct {
	Dataset *tabular.Dataset
	Err     error
}

// MockExecutor returns scripted results in order. It records the requests it
// received so tests can assert on what was executed.
type MockExecutor struct {
	Results  []MockResult
	Requests []*Request
}

// Execute pops the next scripted result. Calls beyond the script fail.
func (m *MockExecutor) Execute(ctx context.Context, req *Request) (*tabular.Dataset, error) {
	m.Requests = append(m.Requests, req)
	if len(m.Requests) > len(m.Results) {
		return nil, fmt.Errorf("mock executor: unexpected call %d", len(m.Requests))
	}
	r := m.Results[len(m.Requests)-1]
	return r.Dataset, r.Err
}

// Calls returns how many times Execute was invoked.
func (m *MockExecutor) Calls() int {
	return len(m.Requests)
}
