package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/agent"
	"codebase-genius/internal/docs"
	"codebase-genius/internal/graph"
	"codebase-genius/internal/ingest"
	"codebase-genius/pkg/config"
	"codebase-genius/pkg/logger"
)

// docgen runs the documentation pipeline once for a single repository
// and prints the saved artifact path.
func main() {
	var repoURL, outDir string
	var timeout time.Duration
	flag.StringVar(&repoURL, "url", "", "GitHub repository URL to document")
	flag.StringVar(&outDir, "out", "", "artifact directory (overrides OUTPUT_DIR)")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	if repoURL == "" {
		fmt.Fprintln(os.Stderr, "usage: docgen -url https://github.com/owner/repo")
		os.Exit(2)
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	graphRepo, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer graphRepo.Close()

	store, err := docs.NewStore(cfg.OutputDir)
	if err != nil {
		log.Fatal("Failed to create artifact store", zap.Error(err))
	}

	llm := adapter.NewLLMAdapter(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.DocsModel)
	cloner := ingest.NewCloner(cfg.WorkspaceDir, time.Duration(cfg.CloneTimeoutSeconds)*time.Second)
	gen := agent.NewDocGenerator(cloner, graphRepo, llm, store, cfg.MaxFileSize)

	result, err := gen.Generate(ctx, repoURL)
	if err != nil {
		log.Fatal("Documentation run failed", zap.String("url", repoURL), zap.Error(err))
	}

	log.Info("Documentation generated",
		zap.String("repo", result.RepoName),
		zap.String("artifact", result.ArtifactName),
	)
	fmt.Println(result.ArtifactName)
}
