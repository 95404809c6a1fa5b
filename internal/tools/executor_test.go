package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/docs"
)

func newTestExecutor(t *testing.T) *Executor {
	store, err := docs.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewExecutor(nil, store, 1<<20)
}

func writeTestRepo(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cmd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmd", "main.go"),
		[]byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"),
		[]byte("# Test\n"), 0o644))
	return dir
}

func TestExecute_UnknownTool(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{
		Name: "does_not_exist",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "tool not found: does_not_exist")
}

func TestExecute_GraphToolsRequireRepo(t *testing.T) {
	e := newTestExecutor(t)
	execCtx := &ExecutionContext{SessionID: "s1"}

	for _, name := range []string{ToolSearchSymbols, ToolGetFileSymbols, ToolRepoOverview, ToolGetFileTree} {
		result := e.Execute(context.Background(), execCtx, adapter.ToolCall{
			Name:      name,
			Arguments: map[string]interface{}{"query": "x", "path": "x", "name": "x"},
		})
		assert.False(t, result.Success, "tool %s should fail without a repo", name)
		assert.Contains(t, result.Error, "No repository")
	}
}

func TestExecute_GetFileTree(t *testing.T) {
	e := newTestExecutor(t)
	execCtx := &ExecutionContext{
		RepoName: "octocat/hello-world",
		RepoPath: writeTestRepo(t),
	}

	result := e.Execute(context.Background(), execCtx, adapter.ToolCall{Name: ToolGetFileTree})

	require.True(t, result.Success, "error: %s", result.Error)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data["tree"], "main.go")
}

func TestExecute_ReadRepoFile(t *testing.T) {
	e := newTestExecutor(t)
	execCtx := &ExecutionContext{
		RepoName: "octocat/hello-world",
		RepoPath: writeTestRepo(t),
	}

	result := e.Execute(context.Background(), execCtx, adapter.ToolCall{
		Name:      ToolReadRepoFile,
		Arguments: map[string]interface{}{"path": "cmd/main.go"},
	})
	require.True(t, result.Success, "error: %s", result.Error)
	data := result.Data.(map[string]interface{})
	assert.Contains(t, data["content"], "package main")

	// Traversal attempts are rejected
	result = e.Execute(context.Background(), execCtx, adapter.ToolCall{
		Name:      ToolReadRepoFile,
		Arguments: map[string]interface{}{"path": "../outside.txt"},
	})
	assert.False(t, result.Success)
}

func TestExecute_Artifacts(t *testing.T) {
	store, err := docs.NewStore(t.TempDir())
	require.NoError(t, err)
	e := NewExecutor(nil, store, 1<<20)

	// Empty store
	result := e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{Name: ToolReadArtifact})
	assert.False(t, result.Success)

	name, err := store.Save("octocat/hello-world", "# Generated Docs\n")
	require.NoError(t, err)

	result = e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{Name: ToolListArtifacts})
	require.True(t, result.Success)
	assert.Equal(t, []string{name}, result.Data)

	// Default reads the latest
	result = e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{Name: ToolReadArtifact})
	require.True(t, result.Success)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, name, data["name"])
	assert.Contains(t, data["content"], "Generated Docs")
}

func TestExecute_FetchWebpage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Example Docs</title></head>
			<body><nav>skip me</nav><main><h1>Guide</h1><p>Useful content.</p></main>
			<script>var hidden = 1;</script></body></html>`))
	}))
	defer srv.Close()

	e := newTestExecutor(t)
	result := e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{
		Name:      ToolFetchWebpage,
		Arguments: map[string]interface{}{"url": srv.URL},
	})

	require.True(t, result.Success, "error: %s", result.Error)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, "Example Docs", data["title"])
	assert.Contains(t, data["text"], "Useful content.")
	assert.NotContains(t, data["text"], "skip me")
	assert.NotContains(t, data["text"], "hidden")
}

func TestExecute_FetchWebpage_BadURL(t *testing.T) {
	e := newTestExecutor(t)

	for _, bad := range []string{"", "ftp://example.com", "not a url at all"} {
		result := e.Execute(context.Background(), &ExecutionContext{}, adapter.ToolCall{
			Name:      ToolFetchWebpage,
			Arguments: map[string]interface{}{"url": bad},
		})
		assert.False(t, result.Success, "url %q should be rejected", bad)
	}
}

func TestGetAllTools(t *testing.T) {
	tools := GetAllTools()
	require.NotEmpty(t, tools)

	names := make(map[string]bool)
	for _, tool := range tools {
		assert.Equal(t, "function", tool.Type)
		assert.NotEmpty(t, tool.Function.Name)
		assert.NotEmpty(t, tool.Function.Description)
		assert.False(t, names[tool.Function.Name], "duplicate tool %s", tool.Function.Name)
		names[tool.Function.Name] = true
	}

	for _, expected := range []string{
		ToolSearchSymbols, ToolGetFileSymbols, ToolGetSymbolCallers,
		ToolRepoOverview, ToolSearchFiles, ToolGetFileTree, ToolReadRepoFile,
		ToolListArtifacts, ToolReadArtifact, ToolGitHubRepoInfo, ToolFetchWebpage,
	} {
		assert.True(t, names[expected], "missing tool %s", expected)
	}
}
