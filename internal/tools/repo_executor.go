package tools

import (
	"fmt"

	"codebase-genius/internal/constants"
	"codebase-genius/internal/ingest"
)

// ============================================================================
// Repository Tool Implementations
// ============================================================================

func (e *Executor) executeGetFileTree(execCtx *ExecutionContext) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}
	if execCtx.RepoPath == "" {
		return &ToolResult{
			Success: false,
			Error:   "The repository working copy is not available; regenerate docs to re-clone it",
		}
	}

	builder := ingest.NewTreeBuilder(e.maxFileSize)
	root, err := builder.Build(execCtx.RepoPath)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to walk repository: %v", err)}
	}

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"repo": execCtx.RepoName,
			"tree": ingest.Render(root),
		},
	}
}

func (e *Executor) executeReadRepoFile(execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	if res := requireRepo(execCtx); res != nil {
		return res
	}
	if execCtx.RepoPath == "" {
		return &ToolResult{
			Success: false,
			Error:   "The repository working copy is not available; regenerate docs to re-clone it",
		}
	}

	path, _ := args["path"].(string)
	if path == "" {
		return &ToolResult{Success: false, Error: "path is required"}
	}

	content, err := ingest.ReadFile(execCtx.RepoPath, path, constants.MaxPromptFileBytes)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to read file: %v", err)}
	}

	text := string(content)
	truncated := false
	if len(content) >= constants.MaxPromptFileBytes {
		text += "\n... (truncated)"
		truncated = true
	}

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"path":      path,
			"content":   text,
			"truncated": truncated,
		},
	}
}
