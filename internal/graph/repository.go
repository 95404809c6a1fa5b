package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

// Repository handles all Neo4j operations for the code context graph
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("graph"),
	}
}

// Connect builds a driver from connection settings and verifies it
func Connect(ctx context.Context, uri, user, password string) (*Repository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return NewRepository(driver), nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// UpsertRepo creates or refreshes a repository node
func (r *Repository) UpsertRepo(ctx context.Context, repo RepoRecord) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (repo:Repo {full_name: $fullName})
		SET repo.url = $url,
		    repo.commit = $commit,
		    repo.file_count = $fileCount,
		    repo.ingested_at = datetime($ingestedAt)
		RETURN repo.full_name as full_name
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fullName":   repo.FullName,
		"url":        repo.URL,
		"commit":     repo.Commit,
		"fileCount":  repo.FileCount,
		"ingestedAt": repo.IngestedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert repo", err)
	}

	_, err = result.Single(ctx)
	if err != nil {
		return apperrors.NewGraphQueryFailed("verify repo upsert", err)
	}

	r.logger.Info("Repository node upserted",
		zap.String("repo", repo.FullName),
		zap.String("commit", repo.Commit),
	)
	return nil
}

// DeleteRepo removes a repository and everything hanging off it.
// Artifacts survive so earlier documentation runs stay retrievable.
func (r *Repository) DeleteRepo(ctx context.Context, fullName string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (repo:Repo {full_name: $fullName})
		OPTIONAL MATCH (repo)-[:HAS_FILE]->(f:File)
		OPTIONAL MATCH (f)-[:DEFINES]->(s:Symbol)
		DETACH DELETE s, f, repo
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"fullName": fullName,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("delete repo", err)
	}

	r.logger.Info("Repository graph deleted", zap.String("repo", fullName))
	return nil
}

// GetRepo fetches a repository node, or a not-ingested error
func (r *Repository) GetRepo(ctx context.Context, fullName string) (*RepoRecord, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (repo:Repo {full_name: $fullName})
		RETURN repo.full_name as full_name, repo.url as url,
		       repo.commit as commit, repo.file_count as file_count
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fullName": fullName,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get repo", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed("fetch repo record", err)
		}
		return nil, apperrors.NewRepoNotIngested(fullName)
	}

	record := result.Record()
	return &RepoRecord{
		FullName:  getStringFromRecord(record, "full_name"),
		URL:       getStringFromRecord(record, "url"),
		Commit:    getStringFromRecord(record, "commit"),
		FileCount: getIntFromRecord(record, "file_count"),
	}, nil
}

// GetRepoOverview assembles the summary used by prompts and the repo_overview tool
func (r *Repository) GetRepoOverview(ctx context.Context, fullName string) (*RepoOverview, error) {
	repo, err := r.GetRepo(ctx, fullName)
	if err != nil {
		return nil, err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	overview := &RepoOverview{
		FullName:  repo.FullName,
		URL:       repo.URL,
		Commit:    repo.Commit,
		FileCount: repo.FileCount,
		Languages: make(map[string]int),
	}

	langQuery := `
		MATCH (repo:Repo {full_name: $fullName})-[:HAS_FILE]->(f:File)
		RETURN f.language as language, count(f) as file_count
	`
	result, err := session.Run(ctx, langQuery, map[string]interface{}{"fullName": fullName})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("repo language breakdown", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		lang := getStringFromRecord(record, "language")
		if lang != "" {
			overview.Languages[lang] = getIntFromRecord(record, "file_count")
		}
	}

	symQuery := `
		MATCH (repo:Repo {full_name: $fullName})-[:HAS_FILE]->(:File)-[:DEFINES]->(s:Symbol)
		RETURN count(s) as symbol_count
	`
	result, err = session.Run(ctx, symQuery, map[string]interface{}{"fullName": fullName})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("repo symbol count", err)
	}
	if result.Next(ctx) {
		overview.SymbolCount = getIntFromRecord(result.Record(), "symbol_count")
	}

	importQuery := `
		MATCH (repo:Repo {full_name: $fullName})-[:HAS_FILE]->(f:File)-[imp:IMPORTS]->(m:Module)
		RETURN m.path as path, count(f) as import_count
		ORDER BY import_count DESC
		LIMIT 10
	`
	result, err = session.Run(ctx, importQuery, map[string]interface{}{"fullName": fullName})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("repo top imports", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		overview.TopImports = append(overview.TopImports, ImportCount{
			Path:  getStringFromRecord(record, "path"),
			Count: getIntFromRecord(record, "import_count"),
		})
	}

	sizeQuery := `
		MATCH (repo:Repo {full_name: $fullName})-[:HAS_FILE]->(f:File)
		RETURN f.path as path, f.language as language, f.size as size
		ORDER BY f.size DESC
		LIMIT 5
	`
	result, err = session.Run(ctx, sizeQuery, map[string]interface{}{"fullName": fullName})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("repo largest files", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		overview.LargestFiles = append(overview.LargestFiles, FileRecord{
			Path:     getStringFromRecord(record, "path"),
			Language: getStringFromRecord(record, "language"),
			Size:     getInt64FromRecord(record, "size"),
		})
	}

	return overview, nil
}

// ListRepos returns the full names of every ingested repository
func (r *Repository) ListRepos(ctx context.Context) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (repo:Repo)
		RETURN repo.full_name as full_name
		ORDER BY repo.ingested_at DESC
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("list repos", err)
	}

	var names []string
	for result.Next(ctx) {
		if name := getStringFromRecord(result.Record(), "full_name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
