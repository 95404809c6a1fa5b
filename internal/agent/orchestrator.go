package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/constants"
	"codebase-genius/internal/graph"
	"codebase-genius/internal/tools"
	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

var (
	ErrMaxRecursion = errors.New("maximum recursion depth reached")
)

// LLM is the slice of the adapter the agent needs
type LLM interface {
	Generate(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool, opts adapter.GenerateOptions) (*adapter.Response, error)
	GenerateStream(ctx context.Context, systemPrompt, userMsg string, opts adapter.GenerateOptions) (<-chan string, <-chan error)
}

// SessionStore persists chat turns and serves history
type SessionStore interface {
	LogMessage(ctx context.Context, sessionID, role, content string) error
	GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]graph.Message, error)
	GetRepoOverview(ctx context.Context, repoName string) (*graph.RepoOverview, error)
}

// ToolRunner executes one tool call
type ToolRunner interface {
	Execute(ctx context.Context, execCtx *tools.ExecutionContext, toolCall adapter.ToolCall) *tools.ToolResult
}

// Orchestrator manages the agent's reasoning and action loop
type Orchestrator struct {
	store        SessionStore
	llm          LLM
	toolExecutor ToolRunner
	logger       *zap.Logger
}

// NewOrchestrator creates a new chat orchestrator
func NewOrchestrator(store SessionStore, llm LLM, executor ToolRunner) *Orchestrator {
	return &Orchestrator{
		store:        store,
		llm:          llm,
		toolExecutor: executor,
		logger:       logger.Named("agent"),
	}
}

// TurnResult represents the result of a single agent turn
type TurnResult struct {
	Content   string
	ToolCalls []adapter.ToolCall
}

// RunTurn executes a single turn of the agent's reasoning loop
func (o *Orchestrator) RunTurn(ctx context.Context, execCtx *tools.ExecutionContext, message string) (*TurnResult, error) {
	result, err := o.runTurnRecursive(ctx, execCtx, message, 0)
	if err != nil {
		return nil, err
	}

	// Persist the exchange; history failures don't fail the turn
	if err := o.store.LogMessage(ctx, execCtx.SessionID, "user", message); err != nil {
		o.logger.Warn("Failed to log user message", zap.Error(err))
	}
	if result.Content != "" {
		if err := o.store.LogMessage(ctx, execCtx.SessionID, "assistant", result.Content); err != nil {
			o.logger.Warn("Failed to log assistant message", zap.Error(err))
		}
	}

	return result, nil
}

// runTurnRecursive executes a turn with recursion tracking
func (o *Orchestrator) runTurnRecursive(ctx context.Context, execCtx *tools.ExecutionContext, message string, depth int) (*TurnResult, error) {
	if depth >= constants.MaxRecursionDepth {
		return nil, ErrMaxRecursion
	}

	o.logger.Debug("Starting agent turn",
		zap.String("session_id", execCtx.SessionID),
		zap.String("repo", execCtx.RepoName),
		zap.Int("depth", depth),
	)

	// 1. Repository overview, when one is ingested
	var overview *graph.RepoOverview
	if execCtx.RepoName != "" {
		ov, err := o.store.GetRepoOverview(ctx, execCtx.RepoName)
		if err != nil {
			o.logger.Debug("Failed to fetch repo overview", zap.Error(err))
		} else {
			overview = ov
		}
	}

	// 2. Recent history
	var history []graph.Message
	if depth == 0 {
		h, err := o.store.GetSessionHistory(ctx, execCtx.SessionID, constants.ChatHistoryLimit)
		if err != nil {
			o.logger.Debug("Failed to fetch session history", zap.Error(err))
		} else {
			history = h
		}
	}

	// 3. Think
	systemPrompt := buildChatSystemPrompt(overview)
	userMessage := buildChatUserMessage(history, message)

	llmResponse, err := o.llm.Generate(ctx, systemPrompt, userMessage, tools.GetAllTools(), adapter.ChatOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to generate LLM response: %w", err)
	}

	// 4. Act
	if len(llmResponse.ToolCalls) > 0 {
		var toolResults []string
		for _, toolCall := range llmResponse.ToolCalls {
			result := o.toolExecutor.Execute(ctx, execCtx, toolCall)

			if result.Success {
				o.logger.Info("Tool executed",
					zap.String("tool", toolCall.Name),
					zap.String("message", result.Message),
				)
				toolResults = append(toolResults, formatToolResult(toolCall.Name, result))
			} else {
				o.logger.Warn("Tool execution failed",
					zap.String("tool", toolCall.Name),
					zap.String("error", result.Error),
				)
				toolResults = append(toolResults, fmt.Sprintf("[%s] ERROR: %s", toolCall.Name, result.Error))
			}
		}

		// Feed tool output back for a grounded answer
		if len(toolResults) > 0 && depth < constants.MaxRecursionDepth-1 {
			contextMessage := fmt.Sprintf("%s\n\n[Tool Results]:\n%s\n\nNow answer the user's question based on these results.",
				message, strings.Join(toolResults, "\n"))
			o.logger.Debug("Recursing with tool context",
				zap.Int("new_depth", depth+1),
				zap.Int("tool_results", len(toolResults)),
			)
			return o.runTurnRecursive(ctx, execCtx, contextMessage, depth+1)
		}

		if llmResponse.Content == "" {
			llmResponse.Content = strings.Join(toolResults, "\n")
		}
	}

	if llmResponse.Content == "" {
		return nil, apperrors.ErrAgentNoResponse
	}

	return &TurnResult{
		Content:   llmResponse.Content,
		ToolCalls: llmResponse.ToolCalls,
	}, nil
}

// RunTurnStream answers without tools, streaming content chunks as they
// arrive. History and overview context still apply; the final transcript
// is persisted once the stream completes.
func (o *Orchestrator) RunTurnStream(ctx context.Context, execCtx *tools.ExecutionContext, message string) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		var overview *graph.RepoOverview
		if execCtx.RepoName != "" {
			if ov, err := o.store.GetRepoOverview(ctx, execCtx.RepoName); err == nil {
				overview = ov
			}
		}

		history, err := o.store.GetSessionHistory(ctx, execCtx.SessionID, constants.ChatHistoryLimit)
		if err != nil {
			o.logger.Debug("Failed to fetch session history", zap.Error(err))
		}

		systemPrompt := buildChatSystemPrompt(overview)
		userMessage := buildChatUserMessage(history, message)

		chunks, streamErrs := o.llm.GenerateStream(ctx, systemPrompt, userMessage, adapter.ChatOptions())

		var reply strings.Builder
		for chunk := range chunks {
			reply.WriteString(chunk)
			select {
			case out <- chunk:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if err := <-streamErrs; err != nil {
			errs <- err
			return
		}

		if err := o.store.LogMessage(ctx, execCtx.SessionID, "user", message); err != nil {
			o.logger.Warn("Failed to log user message", zap.Error(err))
		}
		if reply.Len() > 0 {
			if err := o.store.LogMessage(ctx, execCtx.SessionID, "assistant", reply.String()); err != nil {
				o.logger.Warn("Failed to log assistant message", zap.Error(err))
			}
		}
	}()

	return out, errs
}
