// Package bitbucket implements flow storage backed by files committed to a
// Bitbucket repository (cloud or server).
package bitbucket

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/orchesto/flowstore/config"
	"github.com/orchesto/flowstore/domain"
	"github.com/orchesto/flowstore/infrastructure/atlassian"
)

// Kind is the registry name of this storage backend.
const Kind = "bitbucket"

// storageLabel marks flows held in Bitbucket storage so the scheduler can
// route their execution.
const storageLabel = "bitbucket-flow-storage"

const defaultBranch = "master"

var errNoExtractor = errors.New("no flow extractor configured")

// Fetcher retrieves raw file content from a repository.
// *atlassian.Client satisfies it.
type Fetcher interface {
	GetContents(ctx context.Context, repo, path, branch string) (string, error)
}

// Storage presents a name-addressable view over flow files living in one
// Bitbucket repository. Files are expected to be committed to the repository
// out-of-band; Build performs no network side effects.
//
// Storage is not safe for concurrent registration; callers must serialize
// Add externally.
type Storage struct {
	repo   string
	path   string
	host   string
	branch string
	creds  *atlassian.Credentials

	client      Fetcher
	extract     domain.ExtractFunc
	healthcheck domain.HealthcheckFunc

	// flows maps a registered flow name to the file path it resolves to.
	// Every entry holds the storage's default path: one adapter instance
	// serves a single file location.
	flows map[string]string

	// added remembers flow objects registered during this process lifetime.
	// Never persisted.
	added map[string]domain.Flow
}

// Option configures a Storage.
type Option func(*Storage)

// WithPath sets the default file path flows resolve to.
func WithPath(path string) Option {
	return func(s *Storage) {
		s.path = path
	}
}

// WithHost points the storage at a self-hosted Bitbucket Server. Without it
// the storage talks to Bitbucket cloud.
func WithHost(host string) Option {
	return func(s *Storage) {
		s.host = host
	}
}

// WithBranch overrides the branch content is fetched from.
func WithBranch(branch string) Option {
	return func(s *Storage) {
		s.branch = branch
	}
}

// WithCredentials injects explicit Bitbucket credentials instead of reading
// the process environment.
func WithCredentials(creds atlassian.Credentials) Option {
	return func(s *Storage) {
		s.creds = &creds
	}
}

// WithFetcher replaces the Bitbucket client, mainly for tests.
func WithFetcher(fetcher Fetcher) Option {
	return func(s *Storage) {
		s.client = fetcher
	}
}

// WithExtractor sets the flow extraction collaborator.
func WithExtractor(extract domain.ExtractFunc) Option {
	return func(s *Storage) {
		s.extract = extract
	}
}

// WithHealthcheck sets the healthcheck collaborator run by Build.
func WithHealthcheck(healthcheck domain.HealthcheckFunc) Option {
	return func(s *Storage) {
		s.healthcheck = healthcheck
	}
}

// New creates a Bitbucket storage for the given repository. Repo format is
// "<workspace>/<repo_slug>" for cloud and "<project_key>/repos/<repo_slug>"
// for server. Construction performs no network I/O.
func New(repo string, opts ...Option) *Storage {
	storage := &Storage{
		repo:   repo,
		branch: defaultBranch,
		flows:  make(map[string]string),
		added:  make(map[string]domain.Flow),
	}

	for _, opt := range opts {
		opt(storage)
	}

	if storage.client == nil {
		storage.client = atlassian.NewClient(storage.creds, storage.host)
	}

	return storage
}

// FromConfig builds a Storage from a deployment configuration, wiring in the
// given collaborators. Registered with the storage registry under Kind.
func FromConfig(cfg *config.Config, collab domain.Collaborators) (domain.Storage, error) {
	opts := []Option{
		WithExtractor(collab.Extract),
		WithHealthcheck(collab.Healthcheck),
	}

	if cfg.Storage.Path != "" {
		opts = append(opts, WithPath(cfg.Storage.Path))
	}
	if cfg.Storage.Host != "" {
		opts = append(opts, WithHost(cfg.Storage.Host))
	}
	if cfg.Storage.Branch != "" {
		opts = append(opts, WithBranch(cfg.Storage.Branch))
	}
	if cfg.Credentials.User != "" || cfg.Credentials.Password != "" {
		opts = append(opts, WithCredentials(atlassian.Credentials{
			User:     cfg.Credentials.User,
			Password: cfg.Credentials.Password,
		}))
	}

	return New(cfg.Storage.Repo, opts...), nil
}

var _ domain.Storage = (*Storage)(nil)

// DefaultLabels returns the marker label identifying Bitbucket storage.
func (s *Storage) DefaultLabels() []string {
	return []string{storageLabel}
}

// Contains reports whether a flow with the given name is registered.
func (s *Storage) Contains(name string) bool {
	_, ok := s.flows[name]
	return ok
}

// Add registers a flow under its name and returns the path it resolves to.
// The flow's file must be committed to the repository independently.
func (s *Storage) Add(flow domain.Flow) (string, error) {
	if s.Contains(flow.Name()) {
		return "", &domain.DuplicateNameError{Name: flow.Name()}
	}

	s.flows[flow.Name()] = s.path
	s.added[flow.Name()] = flow

	logger.Debugf("Registered flow %q at %q in repo %q", flow.Name(), s.path, s.repo)
	return s.path, nil
}

// Get fetches the flow source at the given location and hands it to the
// extraction collaborator. The location must be one a registered flow
// resolves to; when empty, the storage's default path is used.
func (s *Storage) Get(ctx context.Context, location string) (domain.Flow, error) {
	switch {
	case location != "":
		if !s.resolvesTo(location) {
			return nil, &domain.NotContainedError{Location: location}
		}
	case s.path != "":
		location = s.path
	default:
		return nil, domain.ErrMissingLocation
	}

	content, err := s.client.GetContents(ctx, s.repo, location, s.branch)
	if err != nil {
		return nil, err
	}

	if s.extract == nil {
		return nil, errNoExtractor
	}
	return s.extract(content)
}

// Build runs the healthcheck collaborator and returns the storage itself.
// No files are committed during this step.
func (s *Storage) Build(ctx context.Context) (domain.Storage, error) {
	if s.healthcheck != nil {
		if err := s.healthcheck(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// resolvesTo reports whether any registered flow resolves to the location.
func (s *Storage) resolvesTo(location string) bool {
	for _, path := range s.flows {
		if path == location {
			return true
		}
	}
	return false
}
