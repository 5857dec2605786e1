package bessel

import (
	"context"
	"sort"
)

// MockEvaluator is a configurable Evaluator for tests in other packages.
type MockEvaluator struct {
	// Label is returned by Name; "mock" when empty.
	Label string
	Value float64
	Err   error
	Fn    func(ctx context.Context, x float64, n int) (float64, error)
}

// Name returns the evaluator name.
func (m *MockEvaluator) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

// Evaluate returns the pre-configured Value and Err, or calls Fn if provided.
func (m *MockEvaluator) Evaluate(ctx context.Context, x float64, n int) (float64, error) {
	if m.Fn != nil {
		return m.Fn(ctx, x, n)
	}
	return m.Value, m.Err
}

// TestFactory is an EvaluatorFactory over a fixed set of evaluators.
type TestFactory struct {
	evaluators map[string]Evaluator
}

// NewTestFactory creates a factory pre-populated with the given evaluators.
func NewTestFactory(evaluators map[string]Evaluator) *TestFactory {
	if evaluators == nil {
		evaluators = make(map[string]Evaluator)
	}
	return &TestFactory{evaluators: evaluators}
}

// Create returns the evaluator by name.
func (f *TestFactory) Create(name string) (Evaluator, error) {
	return f.Get(name)
}

// Get returns the evaluator by name.
func (f *TestFactory) Get(name string) (Evaluator, error) {
	ev, ok := f.evaluators[name]
	if !ok {
		return nil, &UnknownEvaluatorError{Name: name}
	}
	return ev, nil
}

// List returns all registered names, sorted.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.evaluators))
	for name := range f.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op; evaluators are fixed at construction.
func (f *TestFactory) Register(name string, creator func() coreEvaluator) error {
	return nil
}

// GetAll returns all evaluators.
func (f *TestFactory) GetAll() map[string]Evaluator {
	result := make(map[string]Evaluator, len(f.evaluators))
	for k, v := range f.evaluators {
		result[k] = v
	}
	return result
}
