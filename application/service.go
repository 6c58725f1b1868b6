package application

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/orchesto/flowstore/config"
	"github.com/orchesto/flowstore/domain"
	storagePkg "github.com/orchesto/flowstore/infrastructure/storage"
)

// SourceFlow is a flow rendered from its raw source, used when the caller
// only needs the file content (e.g. the inspection CLI) rather than a fully
// deserialized flow object.
type SourceFlow struct {
	FlowName string
	Source   string
}

// Name returns the flow name.
func (f SourceFlow) Name() string { return f.FlowName }

var _ domain.Flow = SourceFlow{}

// FetchService resolves a deployment configuration to a storage backend and
// fetches flow source through it.
type FetchService struct {
	registry *storagePkg.Registry
}

// NewFetchService creates a new service with the given storage registry.
func NewFetchService(registry *storagePkg.Registry) *FetchService {
	return &FetchService{
		registry: registry,
	}
}

// FetchOptions holds runtime options for a single fetch.
type FetchOptions struct {
	Location string // File path to fetch; empty uses the configured default
	Verbose  bool
}

// Fetch builds the configured storage, runs its build-time healthcheck, and
// fetches the flow source at the requested location.
func (s *FetchService) Fetch(
	ctx context.Context,
	cfg *config.Config,
	opts FetchOptions,
) (domain.Flow, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	name := opts.Location
	if name == "" {
		name = cfg.Storage.Path
	}

	collab := domain.Collaborators{
		Extract: func(content string) (domain.Flow, error) {
			return SourceFlow{FlowName: name, Source: content}, nil
		},
	}

	store, err := s.registry.Get(cfg, collab)
	if err != nil {
		return nil, err
	}

	logger.Infof("Using %q storage for repo %q", cfg.Storage.Kind, cfg.Storage.Repo)

	// Mirror the engine's build step: register the flow, then build.
	if _, err := store.Add(SourceFlow{FlowName: name}); err != nil {
		return nil, err
	}

	built, err := store.Build(ctx)
	if err != nil {
		return nil, err
	}

	flow, err := built.Get(ctx, opts.Location)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Fetched flow %q", flow.Name())
	return flow, nil
}
