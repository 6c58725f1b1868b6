// Package atlassian provides a thin client for the Bitbucket REST API,
// covering the handful of read-only operations flow storage needs.
package atlassian

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/orchesto/flowstore/domain"
)

// CloudAPI is the base URL of the Bitbucket cloud REST API.
const CloudAPI = "https://api.bitbucket.org/2.0"

const (
	// EnvUser and EnvPassword are the fixed secret-context keys read when no
	// explicit credentials are supplied.
	EnvUser     = "BITBUCKET_USER"
	EnvPassword = "BITBUCKET_PASSWORD"

	defaultBranch  = "master"
	requestTimeout = 30 * time.Second
	serverPageSize = 100
)

// Version is the product version reported in the User-agent header.
// Overridden at release time via -ldflags.
var Version = "0.1.0" //nolint:gochecknoglobals // set by the build

// Credentials is a basic-auth user and app password (or token) pair.
// Either field may be empty; the request is then sent unauthenticated and
// the server decides whether that is acceptable.
type Credentials struct {
	User     string
	Password string
}

// CredentialsFromEnv reads credentials from the process-wide secret context
// under the fixed keys BITBUCKET_USER and BITBUCKET_PASSWORD.
func CredentialsFromEnv() Credentials {
	return Credentials{
		User:     os.Getenv(EnvUser),
		Password: os.Getenv(EnvPassword),
	}
}

// Client wraps an HTTP session against either Bitbucket cloud or a
// self-hosted Bitbucket Server. A non-empty host selects server mode.
//
// Repo identifiers differ by mode: "<workspace>/<repo_slug>" for cloud,
// "<project_key>/repos/<repo_slug>" for server.
type Client struct {
	creds      Credentials
	host       string
	cloudAPI   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the cloud API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.cloudAPI = strings.TrimSuffix(base, "/")
	}
}

// NewClient creates a Bitbucket client. When creds is nil the credentials
// are resolved from the process environment. No network I/O happens here.
func NewClient(creds *Credentials, host string, opts ...Option) *Client {
	client := &Client{
		host:     strings.TrimSuffix(host, "/"),
		cloudAPI: CloudAPI,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}

	if creds != nil {
		client.creds = *creds
	} else {
		client.creds = CredentialsFromEnv()
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetContents returns the raw content of a file in a repo, decoded as UTF-8
// text. An empty branch defaults to "master". There is no retry and no rate
// limiting; errors surface immediately.
func (c *Client) GetContents(ctx context.Context, repo, path, branch string) (string, error) {
	if branch == "" {
		branch = defaultBranch
	}

	resp, err := c.doRequest(ctx, c.contentURL(repo, path, branch))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &domain.NotFoundError{Path: path, Repo: repo, Branch: branch}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.RequestFailedError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

// GetTags returns all tags in a repo, sorted by semantic version descending.
func (c *Client) GetTags(ctx context.Context, repo string) ([]string, error) {
	var tags []string
	var err error

	if c.host != "" {
		tags, err = c.serverTags(ctx, repo)
	} else {
		tags, err = c.cloudTags(ctx, repo)
	}
	if err != nil {
		return nil, err
	}

	sortVersionsDescending(tags)
	return tags, nil
}

// contentURL builds the raw-content URL for the configured mode.
func (c *Client) contentURL(repo, path, branch string) string {
	if c.host != "" {
		return fmt.Sprintf("%s/projects/%s/browse/%s?raw&at=%s", c.host, repo, path, branch)
	}
	return fmt.Sprintf("%s/repositories/%s/src/%s/%s", c.cloudAPI, repo, branch, path)
}

// cloudTags walks the cloud refs endpoint following "next" page links.
func (c *Client) cloudTags(ctx context.Context, repo string) ([]string, error) {
	var allTags []string
	url := fmt.Sprintf("%s/repositories/%s/refs/tags", c.cloudAPI, repo)

	for url != "" {
		var page struct {
			Values []struct {
				Name string `json:"name"`
			} `json:"values"`
			Next string `json:"next"`
		}

		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, err
		}

		for _, ref := range page.Values {
			allTags = append(allTags, ref.Name)
		}
		url = page.Next
	}

	return allTags, nil
}

// serverTags walks the server tags endpoint using start-offset paging.
func (c *Client) serverTags(ctx context.Context, repo string) ([]string, error) {
	var allTags []string
	start := 0

	for {
		url := fmt.Sprintf("%s/rest/api/1.0/projects/%s/tags?limit=%d&start=%d",
			c.host, repo, serverPageSize, start)

		var page struct {
			Values []struct {
				DisplayID string `json:"displayId"`
			} `json:"values"`
			IsLastPage    bool `json:"isLastPage"`
			NextPageStart int  `json:"nextPageStart"`
		}

		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, err
		}

		for _, tag := range page.Values {
			allTags = append(allTags, tag.DisplayID)
		}

		if page.IsLastPage {
			break
		}
		start = page.NextPageStart
	}

	return allTags, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.RequestFailedError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// doRequest issues an authenticated GET. A 401 maps to
// domain.ErrAuthentication before any other status handling.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.creds.User != "" || c.creds.Password != "" {
		req.SetBasicAuth(c.creds.User, c.creds.Password)
	}
	req.Header.Set("User-agent", "flowstore/"+Version)

	logger.Debugf("GET %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, domain.ErrAuthentication
	}

	return resp, nil
}

// --- version sorting ---

func sortVersionsDescending(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		v1 := normalizeVersion(versions[i])
		v2 := normalizeVersion(versions[j])
		if semver.IsValid(v1) && semver.IsValid(v2) {
			return semver.Compare(v1, v2) > 0
		}
		return versions[i] > versions[j]
	})
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
