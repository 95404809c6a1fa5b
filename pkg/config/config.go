package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	apperrors "codebase-genius/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Gemini
	GeminiAPIKey  string
	GeminiBaseURL string
	ChatModel     string
	DocsModel     string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Ingestion
	WorkspaceDir        string // where repositories are cloned
	OutputDir           string // where generated docs are written
	CloneTimeoutSeconds int
	MaxFileSize         int64 // per-file parse limit in bytes
}

// DefaultGeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8001"),
		Env:                 getEnv("ENV", "development"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:       getEnv("GEMINI_BASE_URL", DefaultGeminiBaseURL),
		ChatModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		DocsModel:           getEnv("GEMINI_DOCS_MODEL", "gemini-2.0-pro"),
		Neo4jURI:            getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:           getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:       getEnv("NEO4J_PASSWORD", "password"),
		WorkspaceDir:        getEnv("WORKSPACE_DIR", "workspace"),
		OutputDir:           getEnv("OUTPUT_DIR", "outputs"),
		CloneTimeoutSeconds: getEnvInt("CLONE_TIMEOUT_SECONDS", 120),
		MaxFileSize:         int64(getEnvInt("MAX_FILE_SIZE", 1024*1024)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.GeminiAPIKey, "GEMINI_API_KEY"},
		{c.GeminiBaseURL, "GEMINI_BASE_URL"},
		{c.ChatModel, "GEMINI_MODEL"},
		{c.Neo4jURI, "NEO4J_URI"},
		{c.Neo4jUser, "NEO4J_USER"},
		{c.Neo4jPassword, "NEO4J_PASSWORD"},
	}
	for _, field := range required {
		if field.value == "" {
			return apperrors.NewConfigMissingRequired(field.name)
		}
	}
	if c.CloneTimeoutSeconds <= 0 {
		return fmt.Errorf("CLONE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
