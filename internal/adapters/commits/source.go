// Package commits tracks per-team commit snapshots fetched from an
// external code-hosting API.
package commits

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hacksprint/arena/internal/domain/model"
	"github.com/hacksprint/arena/internal/domain/repourl"
)

// Default HTTP source configuration.
const (
	defaultBaseURL        = "https://api.github.com"
	defaultRequestTimeout = 15 * time.Second
	defaultPageSize       = 30
)

// Source is the commit-history collaborator. Implementations return the
// ordered commit list for a repository or fail with ErrUpstream.
type Source interface {
	ListCommits(ctx context.Context, repo repourl.Repo) ([]model.CommitRecord, error)
}

// HTTPSource fetches commit history from a GitHub-style REST API.
type HTTPSource struct {
	base     string
	client   *http.Client
	pageSize int
}

// SourceOption applies a configuration option to the HTTPSource.
type SourceOption func(*HTTPSource)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(base string) SourceOption {
	return func(s *HTTPSource) {
		if base != "" {
			s.base = base
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithPageSize bounds how many commits a single poll fetches.
func WithPageSize(n int) SourceOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewHTTPSource constructs a GitHub-style commit source.
func NewHTTPSource(opts ...SourceOption) *HTTPSource {
	s := &HTTPSource{
		base:     defaultBaseURL,
		client:   &http.Client{Timeout: defaultRequestTimeout},
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commitPayload mirrors the GitHub commits list response shape.
type commitPayload struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// ListCommits fetches the latest commits for the repository. All failure
// modes surface as ErrUpstream with a human-readable detail; the caller
// decides what to do with its prior snapshot.
func (s *HTTPSource) ListCommits(ctx context.Context, repo repourl.Repo) ([]model.CommitRecord, error) {
	if repo.Host != "github.com" {
		return nil, fmt.Errorf("%w: host %q not supported by commit source", ErrUpstream, repo.Host)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d", s.base, repo.Owner, repo.Name, s.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: repository %s/%s not found", ErrUpstream, repo.Owner, repo.Name)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited by %s", ErrUpstream, repo.Host)
	default:
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrUpstream, resp.StatusCode, repo.Host)
	}

	var payload []commitPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %s", ErrUpstream, err)
	}

	out := make([]model.CommitRecord, 0, len(payload))
	for _, c := range payload {
		out = append(out, model.CommitRecord{
			SHA:     c.SHA,
			Message: c.Commit.Message,
			Author:  c.Commit.Author.Name,
			Date:    c.Commit.Author.Date,
		})
	}
	return out, nil
}
