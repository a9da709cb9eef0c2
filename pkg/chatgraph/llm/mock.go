package llm

import (
	"context"
	"maps"
	"sync"
)

// MockStep is one scripted response of a MockProcessor.
type MockStep struct {
	Content string
	Err     error
}

// MockCall records one Process invocation.
type MockCall struct {
	Template string
	Vars     map[string]any
}

// MockProcessor is a scripted Processor for tests.
// Steps are consumed in order; once exhausted the last step repeats.
// Safe for concurrent use.
type MockProcessor struct {
	mu    sync.Mutex
	steps []MockStep
	fn    func(template string, vars map[string]any) (string, error)
	calls []MockCall
}

// NewMockProcessor creates a mock that returns the given responses in order.
func NewMockProcessor(responses ...string) *MockProcessor {
	return (&MockProcessor{}).WithResponses(responses...)
}

// WithResponses appends successful responses to the script.
func (m *MockProcessor) WithResponses(responses ...string) *MockProcessor {
	for _, r := range responses {
		m.steps = append(m.steps, MockStep{Content: r})
	}
	return m
}

// WithError appends a failing step to the script.
func (m *MockProcessor) WithError(err error) *MockProcessor {
	m.steps = append(m.steps, MockStep{Err: err})
	return m
}

// WithFunc makes every call delegate to fn, ignoring the script.
func (m *MockProcessor) WithFunc(fn func(template string, vars map[string]any) (string, error)) *MockProcessor {
	m.fn = fn
	return m
}

// Process implements Processor.
func (m *MockProcessor) Process(_ context.Context, template string, vars map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.calls)
	m.calls = append(m.calls, MockCall{Template: template, Vars: maps.Clone(vars)})

	if m.fn != nil {
		return m.fn(template, vars)
	}
	if len(m.steps) == 0 {
		return "", nil
	}
	step := m.steps[min(n, len(m.steps)-1)]
	return step.Content, step.Err
}

// CallCount returns the number of Process invocations.
func (m *MockProcessor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded invocations.
func (m *MockProcessor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
