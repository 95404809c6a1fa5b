package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "codebase-genius/pkg/errors"
)

// ============================================================================
// Search Operations
// ============================================================================

// SearchSymbols matches symbols by name or doc comment, case-insensitive
func (r *Repository) SearchSymbols(ctx context.Context, repoName, query string, limit int) ([]SymbolRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}

	searchQuery := `
		MATCH (s:Symbol {repo: $repoName})
		WHERE toLower(s.name) CONTAINS toLower($query)
		   OR toLower(s.doc_comment) CONTAINS toLower($query)
		RETURN s.id as id, s.name as name, s.kind as kind,
		       s.file_path as file_path, s.language as language,
		       s.receiver as receiver, s.start_line as start_line,
		       s.end_line as end_line, s.doc_comment as doc_comment
		ORDER BY s.name
		LIMIT $limit
	`

	result, err := session.Run(ctx, searchQuery, map[string]interface{}{
		"repoName": repoName,
		"query":    query,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("search symbols", err)
	}

	return collectSymbols(ctx, result)
}

// SearchFiles matches files by path substring, case-insensitive
func (r *Repository) SearchFiles(ctx context.Context, repoName, query string, limit int) ([]FileRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}

	searchQuery := `
		MATCH (f:File {repo: $repoName})
		WHERE toLower(f.path) CONTAINS toLower($query)
		RETURN f.path as path, f.language as language, f.size as size
		ORDER BY f.path
		LIMIT $limit
	`

	result, err := session.Run(ctx, searchQuery, map[string]interface{}{
		"repoName": repoName,
		"query":    query,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("search files", err)
	}

	var files []FileRecord
	for result.Next(ctx) {
		record := result.Record()
		files = append(files, FileRecord{
			Path:     getStringFromRecord(record, "path"),
			Language: getStringFromRecord(record, "language"),
			Size:     getInt64FromRecord(record, "size"),
		})
	}
	return files, nil
}
