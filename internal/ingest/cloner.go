package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
	"go.uber.org/zap"
)

// Cloner fetches repositories into the workspace directory using the git CLI
type Cloner struct {
	workspaceDir string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewCloner creates a cloner rooted at workspaceDir
func NewCloner(workspaceDir string, timeout time.Duration) *Cloner {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Cloner{
		workspaceDir: workspaceDir,
		timeout:      timeout,
		logger:       logger.Named("ingest"),
	}
}

// Clone performs a shallow clone of the repository and returns the local path.
// An existing clone is removed first so every ingest sees the current HEAD.
func (c *Cloner) Clone(ctx context.Context, ref RepoRef) (string, error) {
	if err := os.MkdirAll(c.workspaceDir, 0o755); err != nil {
		return "", errors.NewCloneFailed(ref.CloneURL(), err)
	}

	dest := filepath.Join(c.workspaceDir, ref.DirName())
	if _, err := os.Stat(dest); err == nil {
		if err := os.RemoveAll(dest); err != nil {
			return "", errors.NewCloneFailed(ref.CloneURL(), err)
		}
	}

	start := time.Now()
	_, err := c.run(ctx, c.workspaceDir, "clone", "--depth", "1", "--single-branch", ref.CloneURL(), ref.DirName())
	if err != nil {
		return "", errors.NewCloneFailed(ref.CloneURL(), err)
	}

	c.logger.Info("Repository cloned",
		zap.String("repo", ref.FullName()),
		zap.String("path", dest),
		zap.Duration("elapsed", time.Since(start)),
	)
	return dest, nil
}

// HeadCommit returns the HEAD commit hash of a local clone
func (c *Cloner) HeadCommit(ctx context.Context, repoPath string) (string, error) {
	out, err := c.run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return out, nil
}

// run executes a git command and returns stdout
func (c *Cloner) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewContextTimeout("git "+args[0], c.timeout)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}
