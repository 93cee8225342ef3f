// Package registry maps provider identifiers to their adapter instances.
// Registration is explicit: built-in providers are registered at startup and
// tests register fakes through the same hook.
package registry

import (
	"sort"
	"sync"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
)

// ProviderAdapters bundles everything one provider can offer. Nil slots mean
// the provider does not support that resource type.
type ProviderAdapters struct {
	Fields     ports.FieldAdapter
	Boundaries ports.BoundaryAdapter
	WorkPlans  ports.WorkPlanAdapter
	Auth       ports.AuthProvider
}

// Registry resolves providers to adapters. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[domain.Provider]ProviderAdapters
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{providers: make(map[domain.Provider]ProviderAdapters)}
}

// Register adds or overrides a provider's adapter set.
func (r *Registry) Register(p domain.Provider, adapters ProviderAdapters) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p] = adapters
}

// Known returns the registered provider identifiers, sorted.
func (r *Registry) Known() []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	known := make([]domain.Provider, 0, len(r.providers))
	for p := range r.providers {
		known = append(known, p)
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	return known
}

func (r *Registry) lookup(p domain.Provider) (ProviderAdapters, error) {
	r.mu.RLock()
	adapters, ok := r.providers[p]
	r.mu.RUnlock()
	if !ok {
		return ProviderAdapters{}, &domain.UnsupportedProviderError{Provider: p, Known: r.Known()}
	}
	return adapters, nil
}

// Fields returns the field adapter for a provider.
func (r *Registry) Fields(p domain.Provider) (ports.FieldAdapter, error) {
	adapters, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	if adapters.Fields == nil {
		return nil, &domain.UnsupportedProviderError{Provider: p, Known: r.Known()}
	}
	return adapters.Fields, nil
}

// Boundaries returns the boundary adapter for a provider.
func (r *Registry) Boundaries(p domain.Provider) (ports.BoundaryAdapter, error) {
	adapters, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	if adapters.Boundaries == nil {
		return nil, &domain.UnsupportedProviderError{Provider: p, Known: r.Known()}
	}
	return adapters.Boundaries, nil
}

// WorkPlans returns the work-plan adapter for a provider.
func (r *Registry) WorkPlans(p domain.Provider) (ports.WorkPlanAdapter, error) {
	adapters, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	if adapters.WorkPlans == nil {
		return nil, &domain.UnsupportedProviderError{Provider: p, Known: r.Known()}
	}
	return adapters.WorkPlans, nil
}

// Auth returns the OAuth provider implementation for a provider.
func (r *Registry) Auth(p domain.Provider) (ports.AuthProvider, error) {
	adapters, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	if adapters.Auth == nil {
		return nil, &domain.UnsupportedProviderError{Provider: p, Known: r.Known()}
	}
	return adapters.Auth, nil
}

// IsProviderFullySupported reports whether both field and boundary adapters
// are registered for a provider.
func (r *Registry) IsProviderFullySupported(p domain.Provider) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapters, ok := r.providers[p]
	return ok && adapters.Fields != nil && adapters.Boundaries != nil
}
