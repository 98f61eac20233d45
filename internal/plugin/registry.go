package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a builtin plugin instance configured with the entry's
// options. A fresh instance is built per build pass so plugins are never
// shared across concurrent builds.
type Factory func(options map[string]any) (Plugin, error)

// Registry manages builtin plugin registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty builtin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a builtin factory under the given name.
// Returns an error if the name is already taken.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("cannot register builtin with empty name")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for builtin %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("builtin %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve constructs the named builtin with the given options.
// Returns an error if the name is not registered.
func (r *Registry) Resolve(name string, options map[string]any) (Plugin, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("builtin %q not found (known: %v)", name, r.Names())
	}
	return factory(options)
}

// Has checks if a builtin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns all registered builtin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// globalRegistry is the default builtin registry used throughout the application.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global builtin registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a builtin factory to the global registry.
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}
