package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ============================================================================
// GitHub Tool Implementations
// ============================================================================

func (e *Executor) executeGitHubRepoInfo(ctx context.Context, args map[string]interface{}) *ToolResult {
	owner, _ := args["owner"].(string)
	repo, _ := args["repo"].(string)

	if owner == "" || repo == "" {
		return &ToolResult{Success: false, Error: "owner and repo are required"}
	}

	apiURL := fmt.Sprintf("https://api.github.com/repos/%s/%s", owner, repo)

	req, _ := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "CodebaseGenius/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("GitHub API error: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return &ToolResult{Success: false, Error: "Repository not found"}
	}
	if resp.StatusCode != 200 {
		return &ToolResult{Success: false, Error: fmt.Sprintf("GitHub API returned status %d", resp.StatusCode)}
	}

	body, _ := io.ReadAll(resp.Body)
	var repoInfo map[string]interface{}
	if err := json.Unmarshal(body, &repoInfo); err != nil {
		return &ToolResult{Success: false, Error: "Failed to parse response"}
	}

	result := map[string]interface{}{
		"name":           repoInfo["name"],
		"full_name":      repoInfo["full_name"],
		"description":    repoInfo["description"],
		"stars":          repoInfo["stargazers_count"],
		"forks":          repoInfo["forks_count"],
		"language":       repoInfo["language"],
		"open_issues":    repoInfo["open_issues_count"],
		"url":            repoInfo["html_url"],
		"default_branch": repoInfo["default_branch"],
		"created_at":     repoInfo["created_at"],
		"updated_at":     repoInfo["updated_at"],
		"topics":         repoInfo["topics"],
	}

	return &ToolResult{
		Success: true,
		Data:    result,
	}
}
