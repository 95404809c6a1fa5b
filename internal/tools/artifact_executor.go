package tools

import (
	"fmt"
)

// ============================================================================
// Artifact Tool Implementations
// ============================================================================

func (e *Executor) executeListArtifacts() *ToolResult {
	names, err := e.store.List()
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to list artifacts: %v", err)}
	}

	if len(names) == 0 {
		return &ToolResult{
			Success: true,
			Message: "No documentation has been generated yet",
		}
	}

	return &ToolResult{
		Success: true,
		Data:    names,
		Message: fmt.Sprintf("%d artifacts available", len(names)),
	}
}

func (e *Executor) executeReadArtifact(args map[string]interface{}) *ToolResult {
	name, _ := args["name"].(string)

	if name == "" {
		latest, err := e.store.Latest()
		if err != nil {
			return &ToolResult{Success: false, Error: "No documentation has been generated yet"}
		}
		name = latest
	}

	content, err := e.store.Load(name)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to read artifact: %v", err)}
	}

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"name":    name,
			"content": content,
		},
	}
}
