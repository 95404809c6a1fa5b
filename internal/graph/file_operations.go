package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "codebase-genius/pkg/errors"
)

// ============================================================================
// File Operations
// ============================================================================

// UpsertFiles attaches a batch of file nodes to a repository
func (r *Repository) UpsertFiles(ctx context.Context, repoName string, files []FileRecord) error {
	if len(files) == 0 {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	rows := make([]interface{}, len(files))
	for i, f := range files {
		rows[i] = map[string]interface{}{
			"path":     f.Path,
			"language": f.Language,
			"size":     f.Size,
		}
	}

	query := `
		MATCH (repo:Repo {full_name: $repoName})
		UNWIND $rows AS row
		MERGE (f:File {repo: $repoName, path: row.path})
		SET f.language = row.language,
		    f.size = row.size
		MERGE (repo)-[:HAS_FILE]->(f)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"rows":     rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert files", err)
	}

	r.logger.Debug("File batch upserted",
		zap.String("repo", repoName),
		zap.Int("count", len(files)),
	)
	return nil
}

// LinkImports records IMPORTS edges from files to module nodes
func (r *Repository) LinkImports(ctx context.Context, repoName string, imports []ImportEdge) error {
	if len(imports) == 0 {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	rows := make([]interface{}, len(imports))
	for i, imp := range imports {
		rows[i] = map[string]interface{}{
			"filePath": imp.FilePath,
			"path":     imp.Path,
			"line":     imp.Line,
		}
	}

	query := `
		UNWIND $rows AS row
		MATCH (f:File {repo: $repoName, path: row.filePath})
		MERGE (m:Module {path: row.path})
		MERGE (f)-[imp:IMPORTS]->(m)
		SET imp.line = row.line
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"rows":     rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("link imports", err)
	}

	return nil
}

// GetFileImports lists the import paths of one file
func (r *Repository) GetFileImports(ctx context.Context, repoName, filePath string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (f:File {repo: $repoName, path: $filePath})-[:IMPORTS]->(m:Module)
		RETURN m.path as path
		ORDER BY path
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"filePath": filePath,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get file imports", err)
	}

	var paths []string
	for result.Next(ctx) {
		if p := getStringFromRecord(result.Record(), "path"); p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// GetImportPairs returns file-to-module edges for diagram rendering
func (r *Repository) GetImportPairs(ctx context.Context, repoName string, limit int) ([]ImportEdge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 50
	}

	query := `
		MATCH (f:File {repo: $repoName})-[imp:IMPORTS]->(m:Module)
		RETURN f.path as file_path, m.path as path
		ORDER BY f.path
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get import pairs", err)
	}

	var edges []ImportEdge
	for result.Next(ctx) {
		record := result.Record()
		edges = append(edges, ImportEdge{
			FilePath: getStringFromRecord(record, "file_path"),
			Path:     getStringFromRecord(record, "path"),
		})
	}
	return edges, nil
}
