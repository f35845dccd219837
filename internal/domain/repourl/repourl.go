// Package repourl parses and validates code-hosting repository URLs.
package repourl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL indicates a URL that does not resolve to a supported
// code-hosting repository.
var ErrInvalidURL = errors.New("invalid repository url")

// supportedHosts are the code-hosting providers the engine recognizes.
var supportedHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
}

// Repo identifies a repository on a supported host.
type Repo struct {
	Host  string
	Owner string
	Name  string
}

// String renders the canonical https URL for the repository.
func (r Repo) String() string {
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Name
}

// Parse validates raw as a supported code-hosting URL with an
// {owner}/{repo} path. A missing scheme is tolerated; everything past
// the repo segment is ignored.
func Parse(raw string) (Repo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Repo{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Repo{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if !supportedHosts[host] {
		return Repo{}, fmt.Errorf("%w: unsupported host %q", ErrInvalidURL, host)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Repo{}, fmt.Errorf("%w: missing owner/repo path", ErrInvalidURL)
	}
	name := strings.TrimSuffix(segments[1], ".git")
	if name == "" {
		return Repo{}, fmt.Errorf("%w: missing repo name", ErrInvalidURL)
	}
	return Repo{Host: host, Owner: segments[0], Name: name}, nil
}
