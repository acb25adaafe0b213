package tool

import (
	"fmt"
	"sort"
	"sync"
)

var defaultRegistry = NewRegistry()

// Registry maps each Kind to its implementation.
type Registry struct {
	mu    sync.RWMutex
	tools map[Kind]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[Kind]Tool)}
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds t to the default registry. Tool packages call it from init.
func Register(t Tool) {
	if err := defaultRegistry.Register(t); err != nil {
		panic(err)
	}
}

// Register adds t, replacing any tool of the same kind.
func (r *Registry) Register(t Tool) error {
	if !t.Kind().Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownTool, t.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Kind()] = t
	return nil
}

// Lookup returns the tool registered for kind.
func (r *Registry) Lookup(kind Kind) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotRegistered, kind)
	}
	return t, nil
}

// Kinds returns the registered kinds in declaration order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.tools))
	for k := range r.tools {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Clear removes all registered tools.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[Kind]Tool)
}
