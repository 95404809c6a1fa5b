package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeIngest represents repository clone/fetch errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeAgent represents agent/LLM-related errors
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeTool represents tool execution errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeDocs represents documentation generation errors
	ErrorTypeDocs ErrorType = "docs"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Ingest Errors

// ErrInvalidRepoURL is returned when a repository URL cannot be parsed
type ErrInvalidRepoURL struct {
	*BaseError
	URL string
}

func NewInvalidRepoURL(url string) *ErrInvalidRepoURL {
	return &ErrInvalidRepoURL{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("invalid repository URL: %s", url), nil),
		URL:       url,
	}
}

// ErrCloneFailed is returned when git clone fails
type ErrCloneFailed struct {
	*BaseError
	URL string
}

func NewCloneFailed(url string, err error) *ErrCloneFailed {
	return &ErrCloneFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("failed to clone repository: %s", url), err),
		URL:       url,
	}
}

// ErrRepoNotIngested is returned when an operation references a repo that was never ingested
type ErrRepoNotIngested struct {
	*BaseError
	RepoName string
}

func NewRepoNotIngested(repoName string) *ErrRepoNotIngested {
	return &ErrRepoNotIngested{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("repository not ingested: %s", repoName), nil),
		RepoName:  repoName,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Agent Errors

// ErrAgentNoResponse is returned when the LLM returns no response
var ErrAgentNoResponse = NewBaseError(ErrorTypeAgent, "no response from LLM", nil)

// ErrAgentLLMFailed is returned when an LLM request fails
type ErrAgentLLMFailed struct {
	*BaseError
	Model     string
	Attempts  int
	Retryable bool
}

func NewAgentLLMFailed(model string, attempts int, retryable bool, err error) *ErrAgentLLMFailed {
	return &ErrAgentLLMFailed{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// Tool Errors

// ErrToolNotFound is returned when a requested tool is not found
type ErrToolNotFound struct {
	*BaseError
	ToolName string
}

func NewToolNotFound(toolName string) *ErrToolNotFound {
	return &ErrToolNotFound{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool not found: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// Docs Errors

// ErrDocGenerationFailed is returned when documentation generation fails
type ErrDocGenerationFailed struct {
	*BaseError
	RepoName string
}

func NewDocGenerationFailed(repoName string, err error) *ErrDocGenerationFailed {
	return &ErrDocGenerationFailed{
		BaseError: NewBaseError(ErrorTypeDocs, fmt.Sprintf("documentation generation failed: %s", repoName), err),
		RepoName:  repoName,
	}
}

// ErrArtifactNotFound is returned when a stored artifact cannot be located
type ErrArtifactNotFound struct {
	*BaseError
	Name string
}

func NewArtifactNotFound(name string) *ErrArtifactNotFound {
	return &ErrArtifactNotFound{
		BaseError: NewBaseError(ErrorTypeDocs, fmt.Sprintf("artifact not found: %s", name), nil),
		Name:      name,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), nil),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	// Check wrapped errors
	if baseErr, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(baseErr.Unwrap(), errType)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	if llmErr, ok := err.(*ErrAgentLLMFailed); ok {
		return llmErr.Retryable
	}
	// Graph connection errors are retryable
	if IsErrorType(err, ErrorTypeGraph) {
		return true
	}
	return false
}
