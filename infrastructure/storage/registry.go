// Package storage routes deployment configuration to a flow storage backend.
package storage

import (
	"fmt"

	"github.com/orchesto/flowstore/config"
	"github.com/orchesto/flowstore/domain"
)

// Factory is a constructor function that builds a storage backend from its
// deployment configuration and the engine's collaborators.
type Factory func(cfg *config.Config, collab domain.Collaborators) (domain.Storage, error)

// Registry manages all registered storage backend implementations.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty storage registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the given kind (e.g. "bitbucket").
func (r *Registry) Register(kind string, factory Factory) {
	r.factories[kind] = factory
}

// Get builds a configured storage instance for the kind named in cfg.
func (r *Registry) Get(cfg *config.Config, collab domain.Collaborators) (domain.Storage, error) {
	factory, ok := r.factories[cfg.Storage.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown storage kind: %q", cfg.Storage.Kind)
	}
	return factory(cfg, collab)
}

// Names returns the list of registered storage kinds.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
