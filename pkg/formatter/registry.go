package formatter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a fresh formatter instance.
type Factory func() Formatter

// Registry stores formatter factories by implementation reference so
// configuration can name them. Implementations can embed or wrap this for
// dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry holding the built-in table and list
// formatters.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.MustRegister(TableFormatter, func() Formatter { return NewTable() })
	r.MustRegister(ListFormatter, func() Formatter { return NewList() })
	return r
}

// Register adds a factory under name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("formatter: factory is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("formatter: name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("formatter: %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// New instantiates the formatter registered under name.
func (r *Registry) New(name string) (Formatter, error) {
	r.mu.RLock()
	factory, ok := r.factories[strings.TrimSpace(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("formatter: %q not found", name)
	}
	return factory(), nil
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[strings.TrimSpace(name)]
	return ok
}

// List returns the registered names sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
