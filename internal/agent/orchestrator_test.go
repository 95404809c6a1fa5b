package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/graph"
	"codebase-genius/internal/tools"
)

// Mock implementations for testing

type mockSessionStore struct {
	history  []graph.Message
	overview *graph.RepoOverview
	logged   []graph.Message
	logErr   error
}

func (m *mockSessionStore) LogMessage(ctx context.Context, sessionID, role, content string) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.logged = append(m.logged, graph.Message{Role: role, Content: content})
	return nil
}

func (m *mockSessionStore) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]graph.Message, error) {
	return m.history, nil
}

func (m *mockSessionStore) GetRepoOverview(ctx context.Context, repoName string) (*graph.RepoOverview, error) {
	if m.overview == nil {
		return nil, errors.New("not ingested")
	}
	return m.overview, nil
}

type mockLLM struct {
	generateFunc func(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool, opts adapter.GenerateOptions) (*adapter.Response, error)
	streamChunks []string
	streamErr    error
	calls        int
}

func (m *mockLLM) Generate(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool, opts adapter.GenerateOptions) (*adapter.Response, error) {
	m.calls++
	return m.generateFunc(ctx, systemPrompt, userMsg, tools, opts)
}

func (m *mockLLM) GenerateStream(ctx context.Context, systemPrompt, userMsg string, opts adapter.GenerateOptions) (<-chan string, <-chan error) {
	chunks := make(chan string, len(m.streamChunks))
	errs := make(chan error, 1)
	for _, c := range m.streamChunks {
		chunks <- c
	}
	close(chunks)
	if m.streamErr != nil {
		errs <- m.streamErr
	}
	close(errs)
	return chunks, errs
}

type mockToolRunner struct {
	results map[string]*tools.ToolResult
	calls   []string
}

func (m *mockToolRunner) Execute(ctx context.Context, execCtx *tools.ExecutionContext, toolCall adapter.ToolCall) *tools.ToolResult {
	m.calls = append(m.calls, toolCall.Name)
	if r, ok := m.results[toolCall.Name]; ok {
		return r
	}
	return &tools.ToolResult{Success: false, Error: "Unknown tool: " + toolCall.Name}
}

func TestRunTurn_DirectAnswer(t *testing.T) {
	store := &mockSessionStore{}
	llm := &mockLLM{
		generateFunc: func(ctx context.Context, systemPrompt, userMsg string, _ []adapter.Tool, _ adapter.GenerateOptions) (*adapter.Response, error) {
			return &adapter.Response{Content: "Go is a programming language."}, nil
		},
	}
	o := NewOrchestrator(store, llm, &mockToolRunner{})

	result, err := o.RunTurn(context.Background(), &tools.ExecutionContext{SessionID: "s1"}, "what is go")
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", result.Content)

	// Both turns persisted
	require.Len(t, store.logged, 2)
	assert.Equal(t, "user", store.logged[0].Role)
	assert.Equal(t, "assistant", store.logged[1].Role)
}

func TestRunTurn_ToolLoop(t *testing.T) {
	store := &mockSessionStore{
		overview: &graph.RepoOverview{FullName: "octocat/hello-world", FileCount: 1},
	}
	runner := &mockToolRunner{
		results: map[string]*tools.ToolResult{
			tools.ToolSearchSymbols: {
				Success: true,
				Message: "Found 1 symbols matching 'main'",
				Data:    []map[string]interface{}{{"name": "main", "file_path": "main.go"}},
			},
		},
	}
	llm := &mockLLM{}
	llm.generateFunc = func(ctx context.Context, systemPrompt, userMsg string, _ []adapter.Tool, _ adapter.GenerateOptions) (*adapter.Response, error) {
		if llm.calls == 1 {
			return &adapter.Response{
				ToolCalls: []adapter.ToolCall{{
					ID:        "call_1",
					Name:      tools.ToolSearchSymbols,
					Arguments: map[string]interface{}{"query": "main"},
				}},
			}, nil
		}
		// Second pass sees the tool output in the message
		assert.Contains(t, userMsg, "[Tool Results]")
		assert.Contains(t, userMsg, "main.go")
		return &adapter.Response{Content: "main is defined in main.go."}, nil
	}

	o := NewOrchestrator(store, llm, runner)
	result, err := o.RunTurn(context.Background(),
		&tools.ExecutionContext{SessionID: "s1", RepoName: "octocat/hello-world"},
		"where is main defined")

	require.NoError(t, err)
	assert.Equal(t, "main is defined in main.go.", result.Content)
	assert.Equal(t, []string{tools.ToolSearchSymbols}, runner.calls)
	assert.Equal(t, 2, llm.calls)
}

func TestRunTurn_MaxRecursion(t *testing.T) {
	runner := &mockToolRunner{
		results: map[string]*tools.ToolResult{
			tools.ToolRepoOverview: {Success: true, Message: "stats"},
		},
	}
	llm := &mockLLM{
		generateFunc: func(ctx context.Context, systemPrompt, userMsg string, _ []adapter.Tool, _ adapter.GenerateOptions) (*adapter.Response, error) {
			// Always asks for another tool call, never answers
			return &adapter.Response{
				ToolCalls: []adapter.ToolCall{{Name: tools.ToolRepoOverview}},
			}, nil
		},
	}

	o := NewOrchestrator(&mockSessionStore{overview: &graph.RepoOverview{}}, llm, runner)
	result, err := o.RunTurn(context.Background(),
		&tools.ExecutionContext{SessionID: "s1", RepoName: "octocat/hello-world"},
		"loop forever")

	// The deepest turn falls back to the raw tool output instead of erroring
	require.NoError(t, err)
	assert.Contains(t, result.Content, "stats")
}

func TestRunTurn_LLMError(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(ctx context.Context, systemPrompt, userMsg string, _ []adapter.Tool, _ adapter.GenerateOptions) (*adapter.Response, error) {
			return nil, errors.New("upstream down")
		},
	}

	o := NewOrchestrator(&mockSessionStore{}, llm, &mockToolRunner{})
	_, err := o.RunTurn(context.Background(), &tools.ExecutionContext{SessionID: "s1"}, "hi")
	assert.Error(t, err)
}

func TestRunTurnStream(t *testing.T) {
	store := &mockSessionStore{}
	llm := &mockLLM{streamChunks: []string{"Hello", ", ", "world."}}

	o := NewOrchestrator(store, llm, &mockToolRunner{})
	chunks, errs := o.RunTurnStream(context.Background(), &tools.ExecutionContext{SessionID: "s1"}, "hi")

	var reply string
	for c := range chunks {
		reply += c
	}
	require.NoError(t, <-errs)
	assert.Equal(t, "Hello, world.", reply)

	require.Len(t, store.logged, 2)
	assert.Equal(t, "Hello, world.", store.logged[1].Content)
}

func TestRunTurnStream_Error(t *testing.T) {
	llm := &mockLLM{streamErr: errors.New("stream broke")}

	o := NewOrchestrator(&mockSessionStore{}, llm, &mockToolRunner{})
	chunks, errs := o.RunTurnStream(context.Background(), &tools.ExecutionContext{SessionID: "s1"}, "hi")

	for range chunks {
	}
	assert.Error(t, <-errs)
}

func TestBuildChatSystemPrompt(t *testing.T) {
	// Without a repo the prompt points at docs generation
	prompt := buildChatSystemPrompt(nil)
	assert.Contains(t, prompt, "No repository has been ingested")

	prompt = buildChatSystemPrompt(&graph.RepoOverview{
		FullName:    "octocat/hello-world",
		FileCount:   3,
		SymbolCount: 10,
	})
	assert.Contains(t, prompt, "octocat/hello-world")
	assert.Contains(t, prompt, "search_symbols")
}

func TestBuildChatUserMessage(t *testing.T) {
	assert.Equal(t, "hi", buildChatUserMessage(nil, "hi"))

	msg := buildChatUserMessage([]graph.Message{
		{Role: "user", Content: "what is this repo"},
		{Role: "assistant", Content: "a demo project"},
	}, "tell me more")

	assert.Contains(t, msg, "user: what is this repo")
	assert.Contains(t, msg, "assistant: a demo project")
	assert.Contains(t, msg, "user: tell me more")
}

func TestFormatToolResult(t *testing.T) {
	formatted := formatToolResult("search_symbols", &tools.ToolResult{
		Success: true,
		Message: "Found 1 symbols",
		Data:    map[string]interface{}{"name": "main"},
	})
	assert.Contains(t, formatted, "[search_symbols]")
	assert.Contains(t, formatted, "Found 1 symbols")
	assert.Contains(t, formatted, `"name": "main"`)

	formatted = formatToolResult("repo_overview", &tools.ToolResult{Success: true})
	assert.Contains(t, formatted, "(no output)")
}
