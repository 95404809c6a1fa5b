package adapter

import (
	"context"
	"os"
	"testing"

	"codebase-genius/internal/constants"
	"codebase-genius/pkg/config"
)

func testAdapter(t *testing.T) *LLMAdapter {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	return NewLLMAdapter(config.DefaultGeminiBaseURL, apiKey, "gemini-2.0-flash")
}

// TestLLMAdapter_Generate requires Gemini API access
func TestLLMAdapter_Generate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	adapter := testAdapter(t)

	ctx := context.Background()
	response, err := adapter.Generate(ctx,
		"You are a helpful assistant.",
		"Say hello in one sentence.",
		[]Tool{}, ChatOptions())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if response.Content == "" {
		t.Error("Expected non-empty content in response")
	}
}

func TestLLMAdapter_GenerateStream(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	adapter := testAdapter(t)

	ctx := context.Background()
	chunks, errs := adapter.GenerateStream(ctx,
		"You are a helpful assistant.",
		"Count from 1 to 5.",
		ChatOptions())

	var got string
	for chunk := range chunks {
		got += chunk
	}
	if err := <-errs; err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	if got == "" {
		t.Error("Expected streamed content")
	}
}

func TestParseJSONArguments(t *testing.T) {
	args, err := parseJSONArguments(`{"query": "parser", "limit": 5}`)
	if err != nil {
		t.Fatalf("parseJSONArguments failed: %v", err)
	}
	if args["query"] != "parser" {
		t.Errorf("Expected query 'parser', got %v", args["query"])
	}

	args, err = parseJSONArguments("")
	if err != nil {
		t.Fatalf("parseJSONArguments on empty string failed: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("Expected empty map, got %v", args)
	}

	if _, err := parseJSONArguments("{broken"); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestGenerateOptions(t *testing.T) {
	chat := ChatOptions()
	if chat.Temperature != constants.ChatTemperature {
		t.Errorf("Expected chat temperature %v, got %v", constants.ChatTemperature, chat.Temperature)
	}

	docs := DocsOptions()
	if docs.Temperature != constants.DocsTemperature {
		t.Errorf("Expected docs temperature %v, got %v", constants.DocsTemperature, docs.Temperature)
	}
	if docs.MaxTokens != constants.MaxOutputTokens {
		t.Errorf("Expected max tokens %d, got %d", constants.MaxOutputTokens, docs.MaxTokens)
	}
}
