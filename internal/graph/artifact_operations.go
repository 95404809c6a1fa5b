package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "codebase-genius/pkg/errors"
)

// ============================================================================
// Artifact Operations
// ============================================================================

// RecordArtifact registers a generated documentation file against its repo
func (r *Repository) RecordArtifact(ctx context.Context, repoName, path string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (a:Artifact {path: $path})
		SET a.repo_name = $repoName,
		    a.created_at = datetime($now)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"path":     path,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("record artifact", err)
	}

	r.logger.Info("Artifact recorded",
		zap.String("repo", repoName),
		zap.String("path", path),
	)
	return nil
}

// LatestArtifact returns the most recently recorded artifact. An empty
// repoName matches artifacts from any repository.
func (r *Repository) LatestArtifact(ctx context.Context, repoName string) (*Artifact, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Artifact)
		WHERE $repoName = '' OR a.repo_name = $repoName
		RETURN a.path as path, a.repo_name as repo_name, a.created_at as created_at
		ORDER BY a.created_at DESC
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("latest artifact", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed("fetch artifact record", err)
		}
		if repoName == "" {
			repoName = "latest"
		}
		return nil, apperrors.NewArtifactNotFound(repoName)
	}

	record := result.Record()
	return &Artifact{
		Path:      getStringFromRecord(record, "path"),
		RepoName:  getStringFromRecord(record, "repo_name"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
	}, nil
}

// ListArtifacts returns every recorded artifact, newest first
func (r *Repository) ListArtifacts(ctx context.Context) ([]Artifact, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Artifact)
		RETURN a.path as path, a.repo_name as repo_name, a.created_at as created_at
		ORDER BY a.created_at DESC
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("list artifacts", err)
	}

	var artifacts []Artifact
	for result.Next(ctx) {
		record := result.Record()
		artifacts = append(artifacts, Artifact{
			Path:      getStringFromRecord(record, "path"),
			RepoName:  getStringFromRecord(record, "repo_name"),
			CreatedAt: getTimeFromRecord(record, "created_at"),
		})
	}
	return artifacts, nil
}
