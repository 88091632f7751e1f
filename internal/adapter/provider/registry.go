// Package provider implements the uniform payment-provider interface and
// its name-based registry, plus two self-contained simulator providers
// (stripesim, paypalsim) that stand in for the real gateways in tests and
// development. Grounded on the registry-of-named-implementations shape
// the teacher repo uses for its storage adapters, generalized to a
// domain-level abstraction per the provider contract.
package provider

import (
	"strings"
	"sync"

	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
)

// Registry resolves a ports.Provider by name, case-insensitively.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ports.Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ports.Provider)}
}

// Register adds or replaces a provider under its own Name(), normalized
// to lowercase.
func (r *Registry) Register(p ports.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Get resolves name case-insensitively. Unknown providers fail with
// apperror.ErrUnknownProvider.
func (r *Registry) Get(name string) (ports.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, apperror.ErrUnknownProvider(name)
	}
	return p, nil
}
