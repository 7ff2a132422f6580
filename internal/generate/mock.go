package generate

import (
	"context"
	"fmt"
)

// MockGenerator returns scripted sources in call order and records the
// requests it received, so tests can assert on the critiques the
// orchestrator fed back.
type MockGenerator struct {
	// Sources are returned one per call. A nil entry makes that call fail.
	Sources []string
	// Errs, when set for a call index, makes that call fail with the error.
	Errs map[int]error

	Requests []*Request
}

// Generate pops the next scripted source. Calls beyond the script fail.
func (m *MockGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	i := len(m.Requests)
	m.Requests = append(m.Requests, req)

	if err, ok := m.Errs[i]; ok {
		return "", err
	}
	if i >= len(m.Sources) {
		return "", fmt.Errorf("mock generator: unexpected call %d", i+1)
	}
	return m.Sources[i], nil
}

// Calls returns how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	return len(m.Requests)
}
