package check

import (
	"fmt"
	"sync"

	"github.com/kylerisse/uptui/pkg/monitor"
)

// Factory creates a Check for a monitor target.
// Each check type registers a Factory with the Registry for the monitor
// kind it handles.
type Factory func(target monitor.Target) (Check, error)

// Registry holds registered check factories keyed by monitor kind.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[monitor.Kind]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[monitor.Kind]Factory),
	}
}

// Register adds a check factory for the given monitor kind.
// Returns an error if the kind is already registered.
func (r *Registry) Register(kind monitor.Kind, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("check type %q is already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Create instantiates a Check for the given target.
// Returns an error if the target's kind is not registered or the factory fails.
func (r *Registry) Create(target monitor.Target) (Check, error) {
	if target == nil {
		return nil, fmt.Errorf("no target")
	}

	r.mu.RLock()
	factory, exists := r.factories[target.Kind()]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown check type %q", target.Kind())
	}
	return factory(target)
}

// Kinds returns the monitor kinds that have a registered factory.
func (r *Registry) Kinds() []monitor.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]monitor.Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}
