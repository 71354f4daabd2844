package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the providers configured at start-up
type Registry struct {
	providers map[string]CheckoutProvider
	mu        sync.RWMutex
}

// NewRegistry creates a registry holding the given providers
func NewRegistry(providers ...CheckoutProvider) *Registry {
	r := &Registry{
		providers: make(map[string]CheckoutProvider),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider under its own name
func (r *Registry) Register(p CheckoutProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Get retrieves a provider by route name
func (r *Registry) Get(name string) (CheckoutProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}

	return p, nil
}

// Names returns the registered provider names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
