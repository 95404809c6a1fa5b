package ingest

import (
	"net/url"
	"strings"

	"codebase-genius/pkg/errors"
)

// RepoRef identifies a GitHub repository to ingest
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the owner/name form used as the repo key in the graph
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// DirName returns a filesystem-safe directory name for the clone
func (r RepoRef) DirName() string {
	return r.Owner + "__" + r.Name
}

// CloneURL returns the https clone URL
func (r RepoRef) CloneURL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name + ".git"
}

// ParseRepoURL accepts https://github.com/owner/repo[.git] or a bare
// owner/repo and returns the repository reference. Anything else is rejected
// before a subprocess ever runs.
func ParseRepoURL(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}

	// Bare owner/repo shorthand
	if !strings.Contains(s, "://") && !strings.HasPrefix(s, "github.com/") {
		parts := strings.Split(strings.Trim(s, "/"), "/")
		if len(parts) == 2 && validSegment(parts[0]) && validSegment(strings.TrimSuffix(parts[1], ".git")) {
			return RepoRef{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
		}
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}

	if strings.HasPrefix(s, "github.com/") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}

	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	if !validSegment(owner) || !validSegment(name) {
		return RepoRef{}, errors.NewInvalidRepoURL(raw)
	}

	return RepoRef{Owner: owner, Name: name}, nil
}

func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
