package domain

import "context"

// Flow is a workflow definition object managed by the orchestration system.
// Storage backends only deal with its identity; deserializing the definition
// itself is the extractor's job.
type Flow interface {
	// Name returns the unique flow name within one storage instance.
	Name() string
}

// ExtractFunc deserializes a flow from the raw content of its source file.
// Implementations live in the orchestration engine, not in this library.
type ExtractFunc func(content string) (Flow, error)

// HealthcheckFunc validates a storage definition before deployment.
type HealthcheckFunc func(ctx context.Context) error

// Collaborators bundles the external hooks a storage backend delegates to.
// Either field may be nil when the caller does not need that step.
type Collaborators struct {
	Extract     ExtractFunc
	Healthcheck HealthcheckFunc
}
