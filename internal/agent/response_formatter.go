package agent

import (
	"encoding/json"
	"fmt"

	"codebase-genius/internal/tools"
)

// maxToolResultChars caps how much tool output is replayed into the prompt
const maxToolResultChars = 8000

// formatToolResult flattens a tool result into prompt text
func formatToolResult(toolName string, result *tools.ToolResult) string {
	body := result.Message

	if result.Data != nil {
		if data, err := json.MarshalIndent(result.Data, "", "  "); err == nil {
			if body != "" {
				body += "\n"
			}
			body += string(data)
		}
	}

	if body == "" {
		body = "(no output)"
	}
	if len(body) > maxToolResultChars {
		body = body[:maxToolResultChars] + "\n... (truncated)"
	}

	return fmt.Sprintf("[%s]: %s", toolName, body)
}
