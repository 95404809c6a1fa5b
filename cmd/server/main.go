package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/agent"
	"codebase-genius/internal/constants"
	"codebase-genius/internal/docs"
	"codebase-genius/internal/graph"
	"codebase-genius/internal/ingest"
	"codebase-genius/internal/tools"
	"codebase-genius/pkg/config"
	"codebase-genius/pkg/logger"
)

// chatAgent is the orchestrator surface the HTTP layer uses
type chatAgent interface {
	RunTurn(ctx context.Context, execCtx *tools.ExecutionContext, message string) (*agent.TurnResult, error)
	RunTurnStream(ctx context.Context, execCtx *tools.ExecutionContext, message string) (<-chan string, <-chan error)
}

// docsPipeline is the documentation generator surface the HTTP layer uses
type docsPipeline interface {
	Generate(ctx context.Context, url string) (*agent.GenerateResult, error)
	GenerateStream(ctx context.Context, url string) (<-chan string, <-chan *agent.GenerateResult)
}

// walkerStore serves the walker listing endpoints from the graph
type walkerStore interface {
	ListSessions(ctx context.Context) ([]graph.SessionInfo, error)
	LatestArtifact(ctx context.Context, repoName string) (*graph.Artifact, error)
}

// ingestedRepo tracks the repository most recently documented by this process
type ingestedRepo struct {
	mu   sync.RWMutex
	name string
	path string
}

func (r *ingestedRepo) set(name, path string) {
	r.mu.Lock()
	r.name, r.path = name, path
	r.mu.Unlock()
}

func (r *ingestedRepo) get() (string, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name, r.path
}

// server bundles the HTTP layer's dependencies
type server struct {
	orch     chatAgent
	docGen   docsPipeline
	sessions walkerStore
	store    *docs.Store
	repo     *ingestedRepo
	logger   *zap.Logger
}

func main() {
	// Initialize logger
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Codebase Genius API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to Neo4j
	ctx := context.Background()
	graphRepo, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer graphRepo.Close()

	// Artifact store
	store, err := docs.NewStore(cfg.OutputDir)
	if err != nil {
		log.Fatal("Failed to create artifact store", zap.Error(err))
	}

	// Wire the agent stack
	chatLLM := adapter.NewLLMAdapter(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.ChatModel)
	docsLLM := adapter.NewLLMAdapter(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.DocsModel)
	executor := tools.NewExecutor(graphRepo, store, cfg.MaxFileSize)
	orch := agent.NewOrchestrator(graphRepo, chatLLM, executor)

	cloner := ingest.NewCloner(cfg.WorkspaceDir, time.Duration(cfg.CloneTimeoutSeconds)*time.Second)
	docGen := agent.NewDocGenerator(cloner, graphRepo, docsLLM, store, cfg.MaxFileSize)

	srv := &server{
		orch:     orch,
		docGen:   docGen,
		sessions: graphRepo,
		store:    store,
		repo:     &ingestedRepo{},
		logger:   log,
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(srv)

	// Start server
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter builds the HTTP surface
func newRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": constants.ServiceName})
	})

	router.GET("/chat", s.handleChat)
	router.GET("/chat/stream", s.handleChatStream)
	router.GET("/docs", s.handleDocs)
	router.GET("/docs/stream", s.handleDocsStream)

	// Walker-style endpoints kept for existing frontends
	router.POST("/walker/get_last_artifact", s.handleLastArtifact)
	router.POST("/walker/get_all_sessions", s.handleAllSessions)

	router.GET("/artifacts", s.handleListArtifacts)
	router.GET("/artifacts/:name", s.handleGetArtifact)

	return router
}

func (s *server) execCtx(c *gin.Context) *tools.ExecutionContext {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	// The repo param scopes the turn to an already-ingested repository;
	// the working copy is only available for the most recent ingest.
	repoName, repoPath := s.repo.get()
	if q := c.Query("repo"); q != "" {
		if q != repoName {
			repoPath = ""
		}
		repoName = q
	}

	return &tools.ExecutionContext{
		SessionID: sessionID,
		RepoName:  repoName,
		RepoPath:  repoPath,
	}
}

func (s *server) handleChat(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	result, err := s.orch.RunTurn(c.Request.Context(), s.execCtx(c), message)
	if err != nil {
		s.logger.Error("Chat turn failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": result.Content})
}

func (s *server) handleChatStream(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	chunks, errs := s.orch.RunTurnStream(c.Request.Context(), s.execCtx(c), message)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-chunks
		if !ok {
			// Stream errors surface as a final text chunk
			if err := <-errs; err != nil {
				fmt.Fprintf(w, "[ERROR] %v", err)
			}
			return false
		}
		_, _ = io.WriteString(w, chunk)
		return true
	})
}

func (s *server) handleDocs(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := s.docGen.Generate(c.Request.Context(), url)
	if err != nil {
		s.logger.Error("Documentation run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.repo.set(result.RepoName, result.RepoPath)

	c.JSON(http.StatusOK, gin.H{
		"file_name": result.ArtifactName,
		"content":   result.Content,
	})
}

func (s *server) handleDocsStream(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	chunks, results := s.docGen.GenerateStream(c.Request.Context(), url)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-chunks
		if !ok {
			return false
		}
		_, _ = io.WriteString(w, chunk)
		return true
	})

	// Streamed runs track the ingested repo the same way blocking runs do
	if result := <-results; result != nil {
		s.repo.set(result.RepoName, result.RepoPath)
	}
}

func (s *server) handleLastArtifact(c *gin.Context) {
	var body struct {
		RepoName string `json:"repo_name"`
	}
	// Body is optional
	_ = c.ShouldBindJSON(&body)

	var name string
	if body.RepoName != "" {
		artifact, err := s.sessions.LatestArtifact(c.Request.Context(), body.RepoName)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"reports": []gin.H{}})
			return
		}
		name = artifact.Path
	} else {
		latest, err := s.store.Latest()
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"reports": []gin.H{}})
			return
		}
		name = latest
	}

	content, err := s.store.Load(name)
	if err != nil {
		s.logger.Error("Failed to load artifact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load artifact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": []gin.H{{"path": name, "content": content}},
	})
}

func (s *server) handleAllSessions(c *gin.Context) {
	sessions, err := s.sessions.ListSessions(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": sessions})
}

func (s *server) handleListArtifacts(c *gin.Context) {
	names, err := s.store.List()
	if err != nil {
		s.logger.Error("Failed to list artifacts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list artifacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"artifacts": names})
}

func (s *server) handleGetArtifact(c *gin.Context) {
	content, err := s.store.Load(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artifact not found"})
		return
	}

	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.String(http.StatusOK, content)
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
