package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "codebase-genius/pkg/errors"
)

// These tests require a running Neo4j instance on bolt://localhost:7687
func TestRepository_UpsertRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	repoName := "test-owner/test-repo-" + time.Now().Format("20060102150405")

	defer cleanupRepo(ctx, driver, repoName)

	err = repo.UpsertRepo(ctx, RepoRecord{
		FullName:   repoName,
		URL:        "https://github.com/" + repoName,
		Commit:     "abc123",
		IngestedAt: time.Now(),
		FileCount:  2,
	})
	if err != nil {
		t.Fatalf("UpsertRepo failed: %v", err)
	}

	got, err := repo.GetRepo(ctx, repoName)
	if err != nil {
		t.Fatalf("GetRepo failed: %v", err)
	}
	if got.Commit != "abc123" {
		t.Errorf("Expected commit 'abc123', got '%s'", got.Commit)
	}
	if got.FileCount != 2 {
		t.Errorf("Expected file count 2, got %d", got.FileCount)
	}
}

func TestRepository_FilesAndSymbols(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	repoName := "test-owner/test-repo-" + time.Now().Format("20060102150405")

	defer cleanupRepo(ctx, driver, repoName)

	err = repo.UpsertRepo(ctx, RepoRecord{
		FullName:   repoName,
		URL:        "https://github.com/" + repoName,
		Commit:     "abc123",
		IngestedAt: time.Now(),
		FileCount:  1,
	})
	if err != nil {
		t.Fatalf("UpsertRepo failed: %v", err)
	}

	err = repo.UpsertFiles(ctx, repoName, []FileRecord{
		{Path: "main.go", Language: "go", Size: 120},
	})
	if err != nil {
		t.Fatalf("UpsertFiles failed: %v", err)
	}

	err = repo.UpsertSymbols(ctx, repoName, []SymbolRecord{
		{ID: "main.go:3:main", Name: "main", Kind: "function", FilePath: "main.go", Language: "go", StartLine: 3, EndLine: 8},
		{ID: "main.go:10:helper", Name: "helper", Kind: "function", FilePath: "main.go", Language: "go", StartLine: 10, EndLine: 12},
	})
	if err != nil {
		t.Fatalf("UpsertSymbols failed: %v", err)
	}

	err = repo.LinkCalls(ctx, repoName, []CallEdge{
		{FilePath: "main.go", Caller: "main", Callee: "helper", Line: 5},
	})
	if err != nil {
		t.Fatalf("LinkCalls failed: %v", err)
	}

	symbols, err := repo.GetFileSymbols(ctx, repoName, "main.go")
	if err != nil {
		t.Fatalf("GetFileSymbols failed: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("Expected 2 symbols, got %d", len(symbols))
	}
	if symbols[0].Name != "main" {
		t.Errorf("Expected first symbol 'main', got '%s'", symbols[0].Name)
	}

	callers, err := repo.GetSymbolCallers(ctx, repoName, "helper")
	if err != nil {
		t.Fatalf("GetSymbolCallers failed: %v", err)
	}
	if len(callers) != 1 || callers[0].Name != "main" {
		t.Errorf("Expected caller 'main', got %v", callers)
	}

	results, err := repo.SearchSymbols(ctx, repoName, "helper", 5)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 search result, got %d", len(results))
	}

	pairs, err := repo.GetCallPairs(ctx, repoName, 10)
	if err != nil {
		t.Fatalf("GetCallPairs failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Caller != "main" || pairs[0].Callee != "helper" {
		t.Errorf("Expected main->helper call pair, got %v", pairs)
	}
}

func TestRepository_ImportsAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	repoName := "test-owner/test-repo-" + time.Now().Format("20060102150405")

	defer cleanupRepo(ctx, driver, repoName)

	err = repo.UpsertRepo(ctx, RepoRecord{
		FullName:   repoName,
		URL:        "https://github.com/" + repoName,
		IngestedAt: time.Now(),
		FileCount:  1,
	})
	if err != nil {
		t.Fatalf("UpsertRepo failed: %v", err)
	}

	err = repo.UpsertFiles(ctx, repoName, []FileRecord{
		{Path: "main.go", Language: "go", Size: 80},
	})
	if err != nil {
		t.Fatalf("UpsertFiles failed: %v", err)
	}

	err = repo.LinkImports(ctx, repoName, []ImportEdge{
		{FilePath: "main.go", Path: "fmt", Line: 3},
		{FilePath: "main.go", Path: "os", Line: 4},
	})
	if err != nil {
		t.Fatalf("LinkImports failed: %v", err)
	}

	imports, err := repo.GetFileImports(ctx, repoName, "main.go")
	if err != nil {
		t.Fatalf("GetFileImports failed: %v", err)
	}
	if len(imports) != 2 {
		t.Errorf("Expected 2 imports, got %d", len(imports))
	}

	names, err := repo.ListRepos(ctx)
	if err != nil {
		t.Fatalf("ListRepos failed: %v", err)
	}
	found := false
	for _, name := range names {
		if name == repoName {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %s in repo listing", repoName)
	}

	if err := repo.DeleteRepo(ctx, repoName); err != nil {
		t.Fatalf("DeleteRepo failed: %v", err)
	}
	if _, err := repo.GetRepo(ctx, repoName); err == nil {
		t.Error("Expected error after DeleteRepo")
	}
}

func TestRepository_Artifacts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	repoName := "test-owner/test-repo-" + time.Now().Format("20060102150405")
	path := "docs_" + time.Now().Format("20060102150405") + ".md"

	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx,
			"MATCH (a:Artifact {path: $path}) DETACH DELETE a",
			map[string]interface{}{"path": path})
	}()

	if err := repo.RecordArtifact(ctx, repoName, path); err != nil {
		t.Fatalf("RecordArtifact failed: %v", err)
	}

	latest, err := repo.LatestArtifact(ctx, repoName)
	if err != nil {
		t.Fatalf("LatestArtifact failed: %v", err)
	}
	if latest.Path != path {
		t.Errorf("Expected path '%s', got '%s'", path, latest.Path)
	}

	artifacts, err := repo.ListArtifacts(ctx)
	if err != nil {
		t.Fatalf("ListArtifacts failed: %v", err)
	}
	if len(artifacts) == 0 {
		t.Error("Expected at least 1 artifact")
	}

	_, err = repo.LatestArtifact(ctx, "nobody/no-artifacts")
	if err == nil {
		t.Error("Expected error for repo without artifacts")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeDocs) {
		t.Errorf("Expected docs error type, got %v", err)
	}
}

func TestRepository_GetRepo_NotIngested(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	_, err = repo.GetRepo(ctx, "nobody/does-not-exist")
	if err == nil {
		t.Fatal("Expected error for missing repo")
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeIngest) {
		t.Errorf("Expected ingest error type, got %v", err)
	}
}

func TestRepository_SessionHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	sessionID := "test-session-" + time.Now().Format("20060102150405")

	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx,
			"MATCH (s:Session {id: $id}) OPTIONAL MATCH (s)-[:CONTAINS]->(m) DETACH DELETE m, s",
			map[string]interface{}{"id": sessionID})
	}()

	turns := []struct{ role, content string }{
		{"user", "what does this repo do"},
		{"assistant", "it generates documentation"},
		{"user", "which file is the entrypoint"},
	}
	for _, turn := range turns {
		if err := repo.LogMessage(ctx, sessionID, turn.role, turn.content); err != nil {
			t.Fatalf("LogMessage failed: %v", err)
		}
		time.Sleep(time.Second)
	}

	history, err := repo.GetSessionHistory(ctx, sessionID, 10)
	if err != nil {
		t.Fatalf("GetSessionHistory failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(history))
	}
	if history[0].Content != "what does this repo do" {
		t.Errorf("Expected chronological order, first was '%s'", history[0].Content)
	}
	if history[2].Role != "user" {
		t.Errorf("Expected last role 'user', got '%s'", history[2].Role)
	}
}

func cleanupRepo(ctx context.Context, driver neo4j.DriverWithContext, repoName string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, `
		MATCH (repo:Repo {full_name: $name})
		OPTIONAL MATCH (repo)-[:HAS_FILE]->(f:File)
		OPTIONAL MATCH (f)-[:DEFINES]->(s:Symbol)
		DETACH DELETE s, f, repo
	`, map[string]interface{}{"name": repoName})
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}
