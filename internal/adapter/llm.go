package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codebase-genius/internal/constants"
	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

// LLMAdapter handles communication with Gemini via its OpenAI-compatible
// endpoint. The model is fixed per adapter; chat and docs each get their own.
type LLMAdapter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter. baseURL must point at the
// OpenAI-compatible API root, e.g. the Gemini /v1beta/openai endpoint.
func NewLLMAdapter(baseURL, apiKey, modelID string) *LLMAdapter {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &LLMAdapter{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
		logger: logger.Named("adapter"),
	}
}

// Tool represents a function that can be called by the LLM
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition defines a function that can be called
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Response represents the LLM's response
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolCall represents a function call from the LLM
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// GenerateOptions tunes one request
type GenerateOptions struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// ChatOptions returns the sampling settings used for conversational turns
func ChatOptions() GenerateOptions {
	return GenerateOptions{
		Temperature: constants.ChatTemperature,
		TopP:        constants.TopP,
		MaxTokens:   constants.MaxOutputTokens,
	}
}

// DocsOptions returns the sampling settings used for documentation generation
func DocsOptions() GenerateOptions {
	return GenerateOptions{
		Temperature: constants.DocsTemperature,
		TopP:        constants.TopP,
		MaxTokens:   constants.MaxOutputTokens,
	}
}

// Generate sends a request to the LLM and returns the response
func (a *LLMAdapter) Generate(ctx context.Context, systemPrompt, userMsg string, tools []Tool, opts GenerateOptions) (*Response, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userMsg,
		},
	}
	return a.generate(ctx, messages, tools, opts)
}

func (a *LLMAdapter) generate(ctx context.Context, messages []openai.ChatCompletionMessage, tools []Tool, opts GenerateOptions) (*Response, error) {
	openaiTools := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	currentModel := a.model

	req := openai.ChatCompletionRequest{
		Model:       currentModel,
		Messages:    messages,
		Tools:       openaiTools,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
	}

	// Retry logic with exponential backoff
	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, apperrors.NewContextCancelled("llm generate", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		a.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)

		if ctx.Err() != nil {
			return nil, apperrors.NewContextCancelled("llm generate", ctx.Err())
		}
	}

	if err != nil {
		return nil, apperrors.NewAgentLLMFailed(currentModel, maxRetries, true, err)
	}

	response := &Response{
		Content:   "",
		ToolCalls: []ToolCall{},
	}

	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrAgentNoResponse
	}

	choice := resp.Choices[0]
	if choice.Message.Content != "" {
		response.Content = choice.Message.Content
	}

	for _, tc := range choice.Message.ToolCalls {
		toolCall := ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
		}

		args, err := parseJSONArguments(tc.Function.Arguments)
		if err != nil {
			a.logger.Warn("Failed to parse tool call arguments",
				zap.String("tool_id", tc.ID),
				zap.Error(err),
			)
			args = make(map[string]interface{})
		}
		toolCall.Arguments = args

		response.ToolCalls = append(response.ToolCalls, toolCall)
	}

	a.logger.Debug("LLM response generated",
		zap.String("model", currentModel),
		zap.Int("tool_calls", len(response.ToolCalls)),
		zap.Bool("has_content", response.Content != ""),
	)

	return response, nil
}

// GenerateStream sends a request and writes content chunks to the returned
// channel as they arrive. The channel closes when the stream ends; a stream
// failure surfaces through the returned error channel.
func (a *LLMAdapter) GenerateStream(ctx context.Context, systemPrompt, userMsg string, opts GenerateOptions) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)

	currentModel := a.model

	req := openai.ChatCompletionRequest{
		Model: currentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
		Stream:      true,
	}

	go func() {
		defer close(chunks)
		defer close(errs)

		stream, err := a.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			errs <- apperrors.NewAgentLLMFailed(currentModel, 1, true, err)
			return
		}
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errs <- apperrors.NewAgentLLMFailed(currentModel, 1, true, err)
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case chunks <- delta:
			case <-ctx.Done():
				errs <- apperrors.NewContextCancelled("llm stream", ctx.Err())
				return
			}
		}
	}()

	return chunks, errs
}

// parseJSONArguments parses the JSON string arguments into a map
func parseJSONArguments(jsonStr string) (map[string]interface{}, error) {
	var args map[string]interface{}
	if jsonStr == "" {
		return make(map[string]interface{}), nil
	}

	err := json.Unmarshal([]byte(jsonStr), &args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return args, nil
}
