package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"codebase-genius/internal/graph"
)

// chatPreamble is the base persona for conversational turns
const chatPreamble = "You are Codebase Genius, a helpful AI assistant for software engineering and documentation. " +
	"Be precise, cite assumptions, and prefer stepwise clarity. If unsure, say so briefly."

// buildChatSystemPrompt assembles the system prompt for a chat turn.
// When a repository has been ingested, its overview and the available
// tools are described so the model grounds answers in the graph.
func buildChatSystemPrompt(overview *graph.RepoOverview) string {
	var b strings.Builder

	b.WriteString(chatPreamble)
	b.WriteString("\n")

	if overview != nil {
		overviewJSON, err := json.MarshalIndent(overview, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, `
## Ingested Repository

The repository %s has been analyzed into a code context graph. Current overview:

%s

Use your tools to answer questions about this codebase instead of guessing:
- search_symbols / get_file_symbols / get_symbol_callers for code questions
- get_file_tree / read_repo_file for layout and source content
- repo_overview to re-check the stats above
- read_artifact for previously generated documentation
Quote file paths and line numbers from tool results when you cite code.
`, overview.FullName, string(overviewJSON))
		}
	} else {
		b.WriteString(`
No repository has been ingested in this session. You can still answer general
software questions, read previously generated documentation with the artifact
tools, or look up public repositories with github_repo_info. If the user wants
documentation generated, tell them to use the /docs endpoint with a GitHub URL.
`)
	}

	return b.String()
}

// renderHistory flattens prior turns into a transcript block
func renderHistory(history []graph.Message) string {
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Recent Conversation\n\n")
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	return b.String()
}

// buildChatUserMessage prepends the transcript so the model sees context
func buildChatUserMessage(history []graph.Message, message string) string {
	transcript := renderHistory(history)
	if transcript == "" {
		return message
	}
	return transcript + "\nuser: " + message
}

// docsSectionList mirrors the section layout of generated documents
const docsSectionList = `1. Overview and Purpose
2. Key Features and Functionality
3. Architecture / Data Flow
4. Installation and Setup
5. Usage Examples
6. API Reference (endpoints/params) or CLI Reference
7. Configuration (env vars, secrets)
8. Dependencies and Requirements
9. Troubleshooting
10. Best Practices and Security Notes`

// docsSystemPrompt is the persona for documentation generation
const docsSystemPrompt = "You are a senior technical writer producing developer documentation. " +
	"Write concise, actionable docs. Avoid marketing fluff."

// buildDocsPrompt asks for the main body of the documentation artifact
func buildDocsPrompt(repoName string, overview *graph.RepoOverview, tree string, readme string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the repository %s and write a clean, developer-friendly Markdown document with these sections if applicable:\n\n%s\n\n", repoName, docsSectionList)
	b.WriteString("Start headings at '##' (the document title is added separately). ")
	b.WriteString("Base every claim on the material below; skip sections with nothing to say.\n")

	if overview != nil {
		if overviewJSON, err := json.MarshalIndent(overview, "", "  "); err == nil {
			fmt.Fprintf(&b, "\n--- CODE GRAPH OVERVIEW ---\n%s\n", string(overviewJSON))
		}
	}
	if tree != "" {
		fmt.Fprintf(&b, "\n--- FILE TREE ---\n%s\n", tree)
	}
	if readme != "" {
		fmt.Fprintf(&b, "\n--- BEGIN README (truncated if long) ---\n%s\n--- END README ---\n", readme)
	}

	return b.String()
}

// buildFileSummaryPrompt asks for a short summary of one source file
func buildFileSummaryPrompt(path string, symbols []graph.SymbolRecord, content string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summarize the source file %s in 2-4 sentences for a documentation file guide. ", path)
	b.WriteString("Describe what it is responsible for and how it fits the codebase. No headings, no lists.\n")

	if len(symbols) > 0 {
		b.WriteString("\nDeclared symbols:\n")
		for _, s := range symbols {
			if s.DocComment != "" {
				fmt.Fprintf(&b, "- %s %s (line %d): %s\n", s.Kind, s.Name, s.StartLine, s.DocComment)
			} else {
				fmt.Fprintf(&b, "- %s %s (line %d)\n", s.Kind, s.Name, s.StartLine)
			}
		}
	}

	if content != "" {
		fmt.Fprintf(&b, "\n--- BEGIN SOURCE (truncated if long) ---\n%s\n--- END SOURCE ---\n", content)
	}

	return b.String()
}
