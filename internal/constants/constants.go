package constants

// Service constants
const (
	// ServiceName identifies this service in health responses and logs
	ServiceName = "Codebase Genius API"
)

// Agent execution constants
const (
	// MaxRecursionDepth is the maximum depth for recursive agent turns
	// This prevents infinite loops when tools trigger additional tool calls
	MaxRecursionDepth = 5

	// ChatHistoryLimit is how many prior turns are replayed into the prompt
	ChatHistoryLimit = 10
)

// Generation constants
const (
	// DocsTemperature is used for long-form documentation generation
	DocsTemperature = 0.35

	// ChatTemperature is used for interactive chat
	ChatTemperature = 0.6

	// TopP is the nucleus sampling cutoff for every request
	TopP = 0.9

	// MaxOutputTokens caps a single LLM completion
	MaxOutputTokens = 2048
)

// Ingestion constants
const (
	// MaxPromptFileBytes is the most of a single file fed to the LLM
	MaxPromptFileBytes = 100_000

	// MaxParseWorkers bounds the concurrent tree-sitter parsers
	MaxParseWorkers = 8
)
