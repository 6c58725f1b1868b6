package domain

import (
	"errors"
	"fmt"
)

// ErrAuthentication is returned when Bitbucket rejects the configured
// credentials (HTTP 401), on any request. It is fatal and never retried.
var ErrAuthentication = errors.New("authentication failed, check credentials")

// ErrMissingLocation is returned by Storage.Get when no location is given
// and no default path was configured at construction.
var ErrMissingLocation = errors.New("no flow location provided")

// NotFoundError reports that no file exists at the requested path on the
// requested branch.
type NotFoundError struct {
	Path   string
	Repo   string
	Branch string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no file found at `%s` in repo `%s@%s`", e.Path, e.Repo, e.Branch)
}

// RequestFailedError reports a non-2xx response that is neither an
// authentication failure nor a missing file.
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request to Bitbucket failed with %d", e.StatusCode)
}

// DuplicateNameError reports an attempt to register a flow name that is
// already present in the storage.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name conflict: flow %q is already present in this storage", e.Name)
}

// NotContainedError reports a requested location that no registered flow
// resolves to.
type NotContainedError struct {
	Location string
}

func (e *NotContainedError) Error() string {
	return fmt.Sprintf("flow at %q is not contained in this storage", e.Location)
}
