package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "codebase-genius/pkg/errors"
)

// ============================================================================
// Symbol Operations
// ============================================================================

// UpsertSymbols attaches a batch of symbol nodes to their files
func (r *Repository) UpsertSymbols(ctx context.Context, repoName string, symbols []SymbolRecord) error {
	if len(symbols) == 0 {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	rows := make([]interface{}, len(symbols))
	for i, s := range symbols {
		rows[i] = map[string]interface{}{
			"id":         s.ID,
			"name":       s.Name,
			"kind":       s.Kind,
			"filePath":   s.FilePath,
			"language":   s.Language,
			"receiver":   s.Receiver,
			"startLine":  s.StartLine,
			"endLine":    s.EndLine,
			"docComment": s.DocComment,
		}
	}

	query := `
		UNWIND $rows AS row
		MATCH (f:File {repo: $repoName, path: row.filePath})
		MERGE (s:Symbol {repo: $repoName, id: row.id})
		SET s.name = row.name,
		    s.kind = row.kind,
		    s.file_path = row.filePath,
		    s.language = row.language,
		    s.receiver = row.receiver,
		    s.start_line = row.startLine,
		    s.end_line = row.endLine,
		    s.doc_comment = row.docComment
		MERGE (f)-[:DEFINES]->(s)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"rows":     rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert symbols", err)
	}

	r.logger.Debug("Symbol batch upserted",
		zap.String("repo", repoName),
		zap.Int("count", len(symbols)),
	)
	return nil
}

// LinkCalls records CALLS edges between symbols by name within a file's scope.
// Callee names resolve repo-wide; unresolved names are dropped.
func (r *Repository) LinkCalls(ctx context.Context, repoName string, calls []CallEdge) error {
	if len(calls) == 0 {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	rows := make([]interface{}, len(calls))
	for i, c := range calls {
		rows[i] = map[string]interface{}{
			"filePath": c.FilePath,
			"caller":   c.Caller,
			"callee":   c.Callee,
			"line":     c.Line,
		}
	}

	query := `
		UNWIND $rows AS row
		MATCH (caller:Symbol {repo: $repoName, file_path: row.filePath, name: row.caller})
		MATCH (callee:Symbol {repo: $repoName, name: row.callee})
		MERGE (caller)-[call:CALLS]->(callee)
		SET call.line = row.line
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"rows":     rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("link calls", err)
	}

	return nil
}

// GetFileSymbols lists the symbols defined in one file
func (r *Repository) GetFileSymbols(ctx context.Context, repoName, filePath string) ([]SymbolRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (f:File {repo: $repoName, path: $filePath})-[:DEFINES]->(s:Symbol)
		RETURN s.id as id, s.name as name, s.kind as kind,
		       s.file_path as file_path, s.language as language,
		       s.receiver as receiver, s.start_line as start_line,
		       s.end_line as end_line, s.doc_comment as doc_comment
		ORDER BY s.start_line
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"filePath": filePath,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get file symbols", err)
	}

	return collectSymbols(ctx, result)
}

// GetSymbolCallers lists symbols that call the named symbol
func (r *Repository) GetSymbolCallers(ctx context.Context, repoName, symbolName string) ([]SymbolRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (caller:Symbol {repo: $repoName})-[:CALLS]->(callee:Symbol {repo: $repoName, name: $symbolName})
		RETURN DISTINCT caller.id as id, caller.name as name, caller.kind as kind,
		       caller.file_path as file_path, caller.language as language,
		       caller.receiver as receiver, caller.start_line as start_line,
		       caller.end_line as end_line, caller.doc_comment as doc_comment
		ORDER BY file_path, start_line
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName":   repoName,
		"symbolName": symbolName,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get symbol callers", err)
	}

	return collectSymbols(ctx, result)
}

// GetCallPairs lists CALLS edges for diagramming, ordered by file then caller
func (r *Repository) GetCallPairs(ctx context.Context, repoName string, limit int) ([]CallEdge, error) {
	if limit <= 0 {
		limit = 50
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (caller:Symbol {repo: $repoName})-[call:CALLS]->(callee:Symbol {repo: $repoName})
		RETURN caller.file_path as file_path, caller.name as caller,
		       callee.name as callee, call.line as line
		ORDER BY file_path, caller
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"repoName": repoName,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get call pairs", err)
	}

	var edges []CallEdge
	for result.Next(ctx) {
		record := result.Record()
		edges = append(edges, CallEdge{
			FilePath: getStringFromRecord(record, "file_path"),
			Caller:   getStringFromRecord(record, "caller"),
			Callee:   getStringFromRecord(record, "callee"),
			Line:     getIntFromRecord(record, "line"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("collect call pairs", err)
	}
	return edges, nil
}

func collectSymbols(ctx context.Context, result neo4j.ResultWithContext) ([]SymbolRecord, error) {
	var symbols []SymbolRecord
	for result.Next(ctx) {
		record := result.Record()
		symbols = append(symbols, SymbolRecord{
			ID:         getStringFromRecord(record, "id"),
			Name:       getStringFromRecord(record, "name"),
			Kind:       getStringFromRecord(record, "kind"),
			FilePath:   getStringFromRecord(record, "file_path"),
			Language:   getStringFromRecord(record, "language"),
			Receiver:   getStringFromRecord(record, "receiver"),
			StartLine:  getIntFromRecord(record, "start_line"),
			EndLine:    getIntFromRecord(record, "end_line"),
			DocComment: getStringFromRecord(record, "doc_comment"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("collect symbols", err)
	}
	return symbols, nil
}
