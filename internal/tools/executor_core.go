package tools

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/docs"
	"codebase-genius/internal/graph"
	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

// ExecutionContext holds context for tool execution
type ExecutionContext struct {
	SessionID string
	RepoName  string // full name of the ingested repo, e.g. "owner/name"
	RepoPath  string // working copy on disk, empty if not cloned this process
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Executor handles tool execution
type Executor struct {
	repo        *graph.Repository
	store       *docs.Store
	httpClient  *http.Client
	maxFileSize int64
	logger      *zap.Logger
}

// NewExecutor creates a new tool executor
func NewExecutor(repo *graph.Repository, store *docs.Store, maxFileSize int64) *Executor {
	return &Executor{
		repo:  repo,
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxFileSize: maxFileSize,
		logger:      logger.Named("tools"),
	}
}

// Execute runs a tool call and returns the result
func (e *Executor) Execute(ctx context.Context, execCtx *ExecutionContext, toolCall adapter.ToolCall) *ToolResult {
	e.logger.Debug("Executing tool",
		zap.String("tool", toolCall.Name),
		zap.String("session_id", execCtx.SessionID),
		zap.String("repo", execCtx.RepoName),
	)

	switch toolCall.Name {
	// Graph Tools
	case ToolSearchSymbols:
		return e.executeSearchSymbols(ctx, execCtx, toolCall.Arguments)
	case ToolGetFileSymbols:
		return e.executeGetFileSymbols(ctx, execCtx, toolCall.Arguments)
	case ToolGetSymbolCallers:
		return e.executeGetSymbolCallers(ctx, execCtx, toolCall.Arguments)
	case ToolRepoOverview:
		return e.executeRepoOverview(ctx, execCtx)
	case ToolSearchFiles:
		return e.executeSearchFiles(ctx, execCtx, toolCall.Arguments)

	// Repository Tools
	case ToolGetFileTree:
		return e.executeGetFileTree(execCtx)
	case ToolReadRepoFile:
		return e.executeReadRepoFile(execCtx, toolCall.Arguments)

	// Artifact Tools
	case ToolListArtifacts:
		return e.executeListArtifacts()
	case ToolReadArtifact:
		return e.executeReadArtifact(toolCall.Arguments)

	// External Tools
	case ToolGitHubRepoInfo:
		return e.executeGitHubRepoInfo(ctx, toolCall.Arguments)
	case ToolFetchWebpage:
		return e.executeFetchWebpage(ctx, toolCall.Arguments)

	default:
		e.logger.Warn("Unknown tool", zap.String("tool", toolCall.Name))
		return &ToolResult{
			Success: false,
			Error:   apperrors.NewToolNotFound(toolCall.Name).Error(),
		}
	}
}

// requireRepo guards tools that only work after ingestion
func requireRepo(execCtx *ExecutionContext) *ToolResult {
	if execCtx.RepoName == "" {
		return &ToolResult{
			Success: false,
			Error:   "No repository has been ingested in this session",
		}
	}
	return nil
}
