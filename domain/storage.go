package domain

import "context"

// Storage abstracts how the orchestration system locates and loads flow
// source. Each implementation presents a name-addressable view over flow
// files living in one backing store (a git hosting service, a local
// directory, an object store, etc.).
type Storage interface {
	// DefaultLabels returns the marker labels identifying this storage kind,
	// used by the scheduler to route execution.
	DefaultLabels() []string

	// Add registers a flow with this storage and returns the location the
	// flow resolves to. Registering the same flow name twice is an error.
	Add(flow Flow) (string, error)

	// Contains reports whether a flow with the given name is registered.
	Contains(name string) bool

	// Get fetches the flow source at the given location and hands it to the
	// extraction collaborator. An empty location falls back to the storage's
	// default path.
	Get(ctx context.Context, location string) (Flow, error)

	// Build finalizes the storage definition before deployment, running the
	// healthcheck collaborator. It returns the storage itself; backends that
	// expect files to be committed out-of-band perform no side effects here.
	Build(ctx context.Context) (Storage, error)
}
