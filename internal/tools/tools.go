package tools

import (
	"codebase-genius/internal/adapter"
)

// Tool names - Graph Tools
const (
	ToolSearchSymbols    = "search_symbols"
	ToolGetFileSymbols   = "get_file_symbols"
	ToolGetSymbolCallers = "get_symbol_callers"
	ToolRepoOverview     = "repo_overview"
	ToolSearchFiles      = "search_files"
)

// Tool names - Repository Tools
const (
	ToolGetFileTree  = "get_file_tree"
	ToolReadRepoFile = "read_repo_file"
)

// Tool names - Artifact Tools
const (
	ToolListArtifacts = "list_artifacts"
	ToolReadArtifact  = "read_artifact"
)

// Tool names - External Tools
const (
	ToolGitHubRepoInfo = "github_repo_info"
	ToolFetchWebpage   = "fetch_webpage"
)

// GetAllTools returns all available tools for the agent
func GetAllTools() []adapter.Tool {
	tools := []adapter.Tool{}

	tools = append(tools, GetGraphTools()...)
	tools = append(tools, GetRepoTools()...)
	tools = append(tools, GetArtifactTools()...)
	tools = append(tools, GetExternalTools()...)

	return tools
}

// GetGraphTools returns tools that query the code context graph
func GetGraphTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolSearchSymbols,
				Description: "Search the ingested repository for functions, methods, classes, types, and interfaces by name or doc comment. Use this when the user asks where something is defined or what a named thing does.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "A symbol name or keyword to search for, e.g. 'ParseRepoURL' or 'retry'",
						},
						"limit": map[string]interface{}{
							"type":        "integer",
							"description": "Maximum number of results (default 10)",
						},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolGetFileSymbols,
				Description: "List every symbol defined in one source file of the ingested repository, in declaration order with line numbers and doc comments.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"path": map[string]interface{}{
							"type":        "string",
							"description": "Repository-relative file path, e.g. 'internal/server/server.go'",
						},
					},
					"required": []string{"path"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolGetSymbolCallers,
				Description: "Find the symbols that call a named function or method. Use this to explain how a piece of code is reached.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "The exact symbol name to find callers of",
						},
					},
					"required": []string{"name"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolRepoOverview,
				Description: "Get a statistical overview of the ingested repository: file and symbol counts, language breakdown, most imported modules, largest files. Use this to orient yourself before answering broad questions.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolSearchFiles,
				Description: "Search the ingested repository's file paths by substring, e.g. 'handler' or '.yml'.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "Path substring to match",
						},
						"limit": map[string]interface{}{
							"type":        "integer",
							"description": "Maximum number of results (default 10)",
						},
					},
					"required": []string{"query"},
				},
			},
		},
	}
}

// GetRepoTools returns tools that read the cloned working copy
func GetRepoTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolGetFileTree,
				Description: "Render the directory tree of the ingested repository. Use this when the user asks about project layout or where to find things.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolReadRepoFile,
				Description: "Read the contents of one file from the ingested repository's working copy. Large files are truncated.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"path": map[string]interface{}{
							"type":        "string",
							"description": "Repository-relative file path",
						},
					},
					"required": []string{"path"},
				},
			},
		},
	}
}

// GetArtifactTools returns tools over generated documentation artifacts
func GetArtifactTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolListArtifacts,
				Description: "List previously generated documentation artifacts, newest first.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolReadArtifact,
				Description: "Read a generated documentation artifact by file name. Omit the name to read the most recent one.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Artifact file name, e.g. 'docs_20250115_093045.md'. Defaults to the latest.",
						},
					},
				},
			},
		},
	}
}

// GetExternalTools returns tools that reach outside the ingested repository
func GetExternalTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolGitHubRepoInfo,
				Description: "Fetch repository metadata from the GitHub API: description, stars, primary language, default branch, topics. Use this for questions about popularity or project metadata not stored in the code graph.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"owner": map[string]interface{}{
							"type":        "string",
							"description": "Repository owner, e.g. 'golang'",
						},
						"repo": map[string]interface{}{
							"type":        "string",
							"description": "Repository name, e.g. 'go'",
						},
					},
					"required": []string{"owner", "repo"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolFetchWebpage,
				Description: "Fetch a webpage and extract its readable text. Use this when the user links to external documentation or a project homepage.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{
							"type":        "string",
							"description": "The URL to fetch (http:// or https://)",
						},
					},
					"required": []string{"url"},
				},
			},
		},
	}
}
