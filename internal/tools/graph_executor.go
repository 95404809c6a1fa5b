package tools

import (
	"context"
	"fmt"
)

// ============================================================================
// Graph Tool Implementations
// ============================================================================

func (e *Executor) executeSearchSymbols(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}

	query, _ := args["query"].(string)
	if query == "" {
		return &ToolResult{Success: false, Error: "query is required"}
	}

	limit := 10
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	symbols, err := e.repo.SearchSymbols(ctx, execCtx.RepoName, query, limit)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Symbol search failed: %v", err)}
	}

	if len(symbols) == 0 {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("No symbols matching '%s'", query),
		}
	}

	return &ToolResult{
		Success: true,
		Data:    symbols,
		Message: fmt.Sprintf("Found %d symbols matching '%s'", len(symbols), query),
	}
}

func (e *Executor) executeGetFileSymbols(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}

	path, _ := args["path"].(string)
	if path == "" {
		return &ToolResult{Success: false, Error: "path is required"}
	}

	symbols, err := e.repo.GetFileSymbols(ctx, execCtx.RepoName, path)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to list file symbols: %v", err)}
	}

	if len(symbols) == 0 {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("No symbols indexed for '%s'; check the path with get_file_tree", path),
		}
	}

	return &ToolResult{Success: true, Data: symbols}
}

func (e *Executor) executeGetSymbolCallers(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}

	name, _ := args["name"].(string)
	if name == "" {
		return &ToolResult{Success: false, Error: "name is required"}
	}

	callers, err := e.repo.GetSymbolCallers(ctx, execCtx.RepoName, name)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to find callers: %v", err)}
	}

	if len(callers) == 0 {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("No recorded callers of '%s'", name),
		}
	}

	return &ToolResult{
		Success: true,
		Data:    callers,
		Message: fmt.Sprintf("%d symbols call '%s'", len(callers), name),
	}
}

func (e *Executor) executeRepoOverview(ctx context.Context, execCtx *ExecutionContext) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}

	overview, err := e.repo.GetRepoOverview(ctx, execCtx.RepoName)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to build overview: %v", err)}
	}

	return &ToolResult{Success: true, Data: overview}
}

func (e *Executor) executeSearchFiles(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}

	query, _ := args["query"].(string)
	if query == "" {
		return &ToolResult{Success: false, Error: "query is required"}
	}

	limit := 10
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	files, err := e.repo.SearchFiles(ctx, execCtx.RepoName, query, limit)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("File search failed: %v", err)}
	}

	if len(files) == 0 {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("No files matching '%s'", query),
		}
	}

	return &ToolResult{Success: true, Data: files}
}
