package bessel

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry names of the built-in evaluators.
const (
	// AlgoMiller selects MillerEvaluator.
	AlgoMiller = "miller"
	// AlgoStdlib selects StdlibEvaluator.
	AlgoStdlib = "stdlib"
)

// EvaluatorFactory creates and caches Evaluator instances by name.
type EvaluatorFactory interface {
	// Create builds a new, uncached Evaluator by name.
	Create(name string) (Evaluator, error)

	// Get returns the cached Evaluator for name, creating it on first use.
	Get(name string) (Evaluator, error)

	// List returns the registered names in sorted order.
	List() []string

	// Register adds or replaces an evaluator type.
	Register(name string, creator func() coreEvaluator) error

	// GetAll returns every registered evaluator keyed by name.
	GetAll() map[string]Evaluator
}

// UnknownEvaluatorError is returned when a name is not registered.
type UnknownEvaluatorError struct {
	Name string
}

func (e *UnknownEvaluatorError) Error() string {
	return fmt.Sprintf("unknown evaluator: %s", e.Name)
}

// DefaultFactory is the thread-safe EvaluatorFactory used by the application.
type DefaultFactory struct {
	mu         sync.RWMutex
	creators   map[string]func() coreEvaluator
	evaluators map[string]Evaluator
}

// NewDefaultFactory returns a factory with the built-in evaluators registered:
//   - "miller": MillerEvaluator (rational fits + forward/backward recurrence)
//   - "stdlib": StdlibEvaluator (math.Jn, used as a cross-check)
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:   make(map[string]func() coreEvaluator),
		evaluators: make(map[string]Evaluator),
	}
	_ = f.Register(AlgoMiller, func() coreEvaluator { return MillerEvaluator{} })
	_ = f.Register(AlgoStdlib, func() coreEvaluator { return StdlibEvaluator{} })
	return f
}

// Register adds a new evaluator type. A previous registration under the
// same name is replaced and its cached instance dropped.
func (f *DefaultFactory) Register(name string, creator func() coreEvaluator) error {
	if creator == nil {
		return fmt.Errorf("bessel: nil creator for evaluator %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	delete(f.evaluators, name)
	return nil
}

// Create builds a fresh Evaluator without caching it.
func (f *DefaultFactory) Create(name string) (Evaluator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, &UnknownEvaluatorError{Name: name}
	}
	return NewEvaluator(creator()), nil
}

// Get returns the cached Evaluator for name, creating it on first use.
func (f *DefaultFactory) Get(name string) (Evaluator, error) {
	f.mu.RLock()
	if ev, exists := f.evaluators[name]; exists {
		f.mu.RUnlock()
		return ev, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if ev, exists := f.evaluators[name]; exists {
		return ev, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownEvaluatorError{Name: name}
	}
	ev := NewEvaluator(creator())
	f.evaluators[name] = ev
	return ev, nil
}

// List returns the registered names sorted alphabetically.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := maps.Keys(f.creators)
	slices.Sort(names)
	return names
}

// GetAll returns a copy of the name → Evaluator map, creating any evaluator
// that has not been requested yet.
func (f *DefaultFactory) GetAll() map[string]Evaluator {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, creator := range f.creators {
		if _, exists := f.evaluators[name]; !exists {
			f.evaluators[name] = NewEvaluator(creator())
		}
	}
	return maps.Clone(f.evaluators)
}

// MustGet is like Get but panics if name is not registered.
func (f *DefaultFactory) MustGet(name string) Evaluator {
	ev, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("bessel: required evaluator not found: %s", name))
	}
	return ev
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[name]
	return exists
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}
