// Package testdoubles provides test doubles (spies, stubs, dummies) for
// domain interfaces. These are hand-crafted implementations — no mock
// frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/orchesto/flowstore/domain"
	"github.com/orchesto/flowstore/infrastructure/storage/bitbucket"
)

// ---------------------------------------------------------------------------
// StubFlow
// ---------------------------------------------------------------------------

// StubFlow implements domain.Flow with a fixed name.
type StubFlow struct {
	FlowName string
}

var _ domain.Flow = StubFlow{}

func (f StubFlow) Name() string { return f.FlowName }

// ---------------------------------------------------------------------------
// SpyFetcher
// ---------------------------------------------------------------------------

// FetchCall records one GetContents invocation.
type FetchCall struct {
	Repo   string
	Path   string
	Branch string
}

// SpyFetcher implements bitbucket.Fetcher as a configurable spy.
// Configure Contents (path -> content) or Err, then inspect Calls.
type SpyFetcher struct {
	Contents map[string]string
	Err      error

	// spy: calls received
	Calls []FetchCall
}

var _ bitbucket.Fetcher = (*SpyFetcher)(nil)

func (f *SpyFetcher) GetContents(
	_ context.Context,
	repo, path, branch string,
) (string, error) {
	f.Calls = append(f.Calls, FetchCall{Repo: repo, Path: path, Branch: branch})

	if f.Err != nil {
		return "", f.Err
	}
	if f.Contents != nil {
		if content, ok := f.Contents[path]; ok {
			return content, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", path)
}

// ---------------------------------------------------------------------------
// SpyStorage
// ---------------------------------------------------------------------------

// SpyStorage implements domain.Storage as a configurable spy.
type SpyStorage struct {
	Labels []string

	// --- Add ---
	AddPath string
	AddErr  error
	// spy: flows added
	AddedFlows []domain.Flow

	// --- Get ---
	Flow   domain.Flow
	GetErr error
	// spy: locations requested
	GetLocations []string

	// --- Build ---
	BuildErr error
	// spy: build invocations
	BuildCalls int
}

var _ domain.Storage = (*SpyStorage)(nil)

func (s *SpyStorage) DefaultLabels() []string { return s.Labels }

func (s *SpyStorage) Contains(name string) bool {
	for _, flow := range s.AddedFlows {
		if flow.Name() == name {
			return true
		}
	}
	return false
}

func (s *SpyStorage) Add(flow domain.Flow) (string, error) {
	s.AddedFlows = append(s.AddedFlows, flow)
	return s.AddPath, s.AddErr
}

func (s *SpyStorage) Get(_ context.Context, location string) (domain.Flow, error) {
	s.GetLocations = append(s.GetLocations, location)
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.Flow, nil
}

func (s *SpyStorage) Build(_ context.Context) (domain.Storage, error) {
	s.BuildCalls++
	if s.BuildErr != nil {
		return nil, s.BuildErr
	}
	return s, nil
}
