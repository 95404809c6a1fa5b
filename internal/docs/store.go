package docs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

// Store writes and retrieves generated documentation artifacts on disk
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewDocGenerationFailed("", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.Named("docs"),
	}, nil
}

// Dir returns the store's root directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes a rendered document to a timestamped file and returns its name
func (s *Store) Save(repoName, content string) (string, error) {
	name := "docs_" + time.Now().Format("20060102_150405") + ".md"
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", apperrors.NewDocGenerationFailed(repoName, err)
	}

	s.logger.Info("Documentation artifact written",
		zap.String("repo", repoName),
		zap.String("path", path),
	)
	return name, nil
}

// Load reads an artifact by name. Names are constrained to the store
// directory so request input cannot reach elsewhere on disk.
func (s *Store) Load(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean != name || strings.HasPrefix(clean, ".") || !strings.HasSuffix(clean, ".md") {
		return "", apperrors.NewArtifactNotFound(name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewArtifactNotFound(name)
		}
		return "", apperrors.NewDocGenerationFailed("", err)
	}
	return string(data), nil
}

// List returns artifact file names, newest first
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.NewDocGenerationFailed("", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}

	// Timestamped names sort chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Latest returns the name of the newest artifact
func (s *Store) Latest() (string, error) {
	names, err := s.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", apperrors.NewArtifactNotFound("latest")
	}
	return names[0], nil
}
