package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codebase-genius/internal/adapter"
	"codebase-genius/internal/constants"
	"codebase-genius/internal/docs"
	"codebase-genius/internal/graph"
	"codebase-genius/internal/ingest"
	"codebase-genius/internal/parser"
	apperrors "codebase-genius/pkg/errors"
	"codebase-genius/pkg/logger"
)

// maxSummaryFiles bounds the per-file LLM summary calls per run
const maxSummaryFiles = 8

// GraphWriter is the slice of the graph repository the pipeline writes to
type GraphWriter interface {
	DeleteRepo(ctx context.Context, fullName string) error
	UpsertRepo(ctx context.Context, repo graph.RepoRecord) error
	UpsertFiles(ctx context.Context, repoName string, files []graph.FileRecord) error
	UpsertSymbols(ctx context.Context, repoName string, symbols []graph.SymbolRecord) error
	LinkImports(ctx context.Context, repoName string, imports []graph.ImportEdge) error
	LinkCalls(ctx context.Context, repoName string, calls []graph.CallEdge) error
	GetRepoOverview(ctx context.Context, repoName string) (*graph.RepoOverview, error)
	GetImportPairs(ctx context.Context, repoName string, limit int) ([]graph.ImportEdge, error)
	GetCallPairs(ctx context.Context, repoName string, limit int) ([]graph.CallEdge, error)
	RecordArtifact(ctx context.Context, repoName, path string) error
}

// DocGenerator runs the ingest-analyze-document pipeline for one repo URL
type DocGenerator struct {
	cloner      *ingest.Cloner
	parsers     *parser.Registry
	graphRepo   GraphWriter
	llm         LLM
	store       *docs.Store
	maxFileSize int64
	logger      *zap.Logger
}

// NewDocGenerator creates a documentation pipeline
func NewDocGenerator(cloner *ingest.Cloner, graphRepo GraphWriter, llm LLM, store *docs.Store, maxFileSize int64) *DocGenerator {
	return &DocGenerator{
		cloner:      cloner,
		parsers:     parser.NewRegistry(),
		graphRepo:   graphRepo,
		llm:         llm,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      logger.Named("docgen"),
	}
}

// GenerateResult describes a completed documentation run
type GenerateResult struct {
	RepoName     string `json:"repo_name"`
	ArtifactName string `json:"artifact_name"`
	RepoPath     string `json:"-"`
	Content      string `json:"content"`
}

// ingestion is the intermediate state shared by Generate and GenerateStream
type ingestion struct {
	ref      ingest.RepoRef
	repoPath string
	commit   string
	tree     *ingest.FileNode
	results  []*parser.ParseResult
	overview *graph.RepoOverview
	readme   string
}

// Generate clones, analyzes, and documents the repository at url
func (g *DocGenerator) Generate(ctx context.Context, url string) (*GenerateResult, error) {
	ing, err := g.ingestRepo(ctx, url)
	if err != nil {
		return nil, err
	}

	body, err := g.generateBody(ctx, ing)
	if err != nil {
		return nil, err
	}

	return g.finish(ctx, ing, body)
}

// GenerateStream runs the same pipeline but streams the document body as
// the model produces it. Failures surface as a final "[ERROR] ..." chunk,
// matching what streaming clients expect from a text/plain response. The
// result channel carries the completed run so callers can track the
// ingested repository; it stays empty on failure.
func (g *DocGenerator) GenerateStream(ctx context.Context, url string) (<-chan string, <-chan *GenerateResult) {
	out := make(chan string)
	done := make(chan *GenerateResult, 1)

	go func() {
		defer close(out)
		defer close(done)

		emit := func(s string) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}

		ing, err := g.ingestRepo(ctx, url)
		if err != nil {
			emit(fmt.Sprintf("[ERROR] %v", err))
			return
		}

		prompt := buildDocsPrompt(ing.ref.FullName(), ing.overview, ingest.Render(ing.tree), ing.readme)
		chunks, errs := g.llm.GenerateStream(ctx, docsSystemPrompt, prompt, adapter.DocsOptions())

		var body strings.Builder
		for chunk := range chunks {
			body.WriteString(chunk)
			if !emit(chunk) {
				return
			}
		}
		if err := <-errs; err != nil {
			emit(fmt.Sprintf("[ERROR] Streaming failed: %v", err))
			return
		}

		// The appendix is not streamed; persist the full document
		result, err := g.finish(ctx, ing, body.String())
		if err != nil {
			emit(fmt.Sprintf("[ERROR] %v", err))
			return
		}
		done <- result
	}()

	return out, done
}

// ingestRepo clones the repository and builds its code context graph
func (g *DocGenerator) ingestRepo(ctx context.Context, url string) (*ingestion, error) {
	ref, err := ingest.ParseRepoURL(url)
	if err != nil {
		return nil, err
	}
	repoName := ref.FullName()

	g.logger.Info("Starting documentation run", zap.String("repo", repoName))
	start := time.Now()

	repoPath, err := g.cloner.Clone(ctx, ref)
	if err != nil {
		return nil, err
	}

	commit, err := g.cloner.HeadCommit(ctx, repoPath)
	if err != nil {
		g.logger.Warn("Failed to resolve head commit", zap.Error(err))
	}

	builder := ingest.NewTreeBuilder(g.maxFileSize)
	tree, err := builder.Build(repoPath)
	if err != nil {
		return nil, err
	}
	sources := builder.SourceFiles(tree)

	results, err := g.parseSources(ctx, repoPath, sources)
	if err != nil {
		return nil, err
	}

	if err := g.writeGraph(ctx, ref, url, commit, sources, results); err != nil {
		return nil, err
	}

	overview, err := g.graphRepo.GetRepoOverview(ctx, repoName)
	if err != nil {
		g.logger.Warn("Failed to build repo overview", zap.Error(err))
	}

	g.logger.Info("Repository ingested",
		zap.String("repo", repoName),
		zap.Int("source_files", len(sources)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &ingestion{
		ref:      ref,
		repoPath: repoPath,
		commit:   commit,
		tree:     tree,
		results:  results,
		overview: overview,
		readme:   g.readReadme(repoPath),
	}, nil
}

// parseSources runs tree-sitter over the source files with bounded fan-out
func (g *DocGenerator) parseSources(ctx context.Context, repoPath string, sources []*ingest.FileNode) ([]*parser.ParseResult, error) {
	var mu sync.Mutex
	var results []*parser.ParseResult

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(constants.MaxParseWorkers)

	for _, src := range sources {
		src := src
		p := g.parsers.ForFile(src.Path)
		if p == nil {
			continue
		}

		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := ingest.ReadFile(repoPath, src.Path, g.maxFileSize)
			if err != nil {
				g.logger.Warn("Skipping unreadable file",
					zap.String("path", src.Path),
					zap.Error(err),
				)
				return nil
			}

			result, err := p.Parse(gctx, content, src.Path)
			if err != nil {
				// Parse failures degrade coverage, not the run
				g.logger.Warn("Skipping unparseable file",
					zap.String("path", src.Path),
					zap.Error(err),
				)
				return nil
			}
			if len(result.Errors) > 0 {
				g.logger.Debug("Partial parse",
					zap.String("path", src.Path),
					zap.Strings("errors", result.Errors),
				)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, apperrors.NewContextCancelled("parse sources", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].FilePath < results[j].FilePath
	})
	return results, nil
}

// writeGraph persists the parsed repository into Neo4j
func (g *DocGenerator) writeGraph(ctx context.Context, ref ingest.RepoRef, url, commit string, sources []*ingest.FileNode, results []*parser.ParseResult) error {
	repoName := ref.FullName()

	// Drop any prior ingest so deleted files and symbols do not linger
	if err := g.graphRepo.DeleteRepo(ctx, repoName); err != nil {
		return err
	}

	err := g.graphRepo.UpsertRepo(ctx, graph.RepoRecord{
		FullName:   repoName,
		URL:        url,
		Commit:     commit,
		IngestedAt: time.Now(),
		FileCount:  len(sources),
	})
	if err != nil {
		return err
	}

	files := make([]graph.FileRecord, 0, len(sources))
	for _, src := range sources {
		files = append(files, graph.FileRecord{
			Path:     src.Path,
			Language: src.Language,
			Size:     src.Size,
		})
	}
	if err := g.graphRepo.UpsertFiles(ctx, repoName, files); err != nil {
		return err
	}

	var symbols []graph.SymbolRecord
	var imports []graph.ImportEdge
	var calls []graph.CallEdge
	for _, result := range results {
		for _, s := range result.Symbols {
			symbols = append(symbols, graph.SymbolRecord{
				ID:         s.ID,
				Name:       s.Name,
				Kind:       string(s.Kind),
				FilePath:   s.FilePath,
				Language:   s.Language,
				Receiver:   s.Receiver,
				StartLine:  s.StartLine,
				EndLine:    s.EndLine,
				DocComment: s.DocComment,
			})
		}
		for _, imp := range result.Imports {
			imports = append(imports, graph.ImportEdge{
				FilePath: result.FilePath,
				Path:     imp.Path,
				Line:     imp.Line,
			})
		}
		for _, call := range result.Calls {
			calls = append(calls, graph.CallEdge{
				FilePath: result.FilePath,
				Caller:   call.Caller,
				Callee:   call.Callee,
				Line:     call.Line,
			})
		}
	}

	if err := g.graphRepo.UpsertSymbols(ctx, repoName, symbols); err != nil {
		return err
	}
	if err := g.graphRepo.LinkImports(ctx, repoName, imports); err != nil {
		return err
	}
	return g.graphRepo.LinkCalls(ctx, repoName, calls)
}

// generateBody asks the model for the main document text
func (g *DocGenerator) generateBody(ctx context.Context, ing *ingestion) (string, error) {
	prompt := buildDocsPrompt(ing.ref.FullName(), ing.overview, ingest.Render(ing.tree), ing.readme)

	resp, err := g.llm.Generate(ctx, docsSystemPrompt, prompt, nil, adapter.DocsOptions())
	if err != nil {
		return "", apperrors.NewDocGenerationFailed(ing.ref.FullName(), err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", apperrors.NewDocGenerationFailed(ing.ref.FullName(), apperrors.ErrAgentNoResponse)
	}
	return resp.Content, nil
}

// finish assembles the full document, saves it, and records the artifact
func (g *DocGenerator) finish(ctx context.Context, ing *ingestion, body string) (*GenerateResult, error) {
	repoName := ing.ref.FullName()

	doc := docs.NewDocument(repoName, ing.ref.CloneURL(), ing.commit)
	doc.SetBody(body)
	if ing.overview != nil {
		doc.AddOverviewSection(ing.overview)
	}
	doc.AddFileTreeSection(ingest.Render(ing.tree))

	if pairs, err := g.graphRepo.GetImportPairs(ctx, repoName, 50); err == nil {
		doc.AddMermaidSection("Import Graph", docs.ImportDiagram(pairs))
	}
	if calls, err := g.graphRepo.GetCallPairs(ctx, repoName, 50); err == nil {
		doc.AddMermaidSection("Call Graph", docs.CallDiagram(calls))
	}

	doc.AddFileSummaries(g.summarizeFiles(ctx, ing))

	content := doc.Render()
	name, err := g.store.Save(repoName, content)
	if err != nil {
		return nil, err
	}

	if err := g.graphRepo.RecordArtifact(ctx, repoName, name); err != nil {
		g.logger.Warn("Failed to record artifact in graph", zap.Error(err))
	}

	return &GenerateResult{
		RepoName:     repoName,
		ArtifactName: name,
		RepoPath:     ing.repoPath,
		Content:      content,
	}, nil
}

// summarizeFiles writes short LLM summaries for the most symbol-dense files
func (g *DocGenerator) summarizeFiles(ctx context.Context, ing *ingestion) []docs.FileSummary {
	picked := make([]*parser.ParseResult, len(ing.results))
	copy(picked, ing.results)
	sort.SliceStable(picked, func(i, j int) bool {
		return len(picked[i].Symbols) > len(picked[j].Symbols)
	})
	if len(picked) > maxSummaryFiles {
		picked = picked[:maxSummaryFiles]
	}
	sort.Slice(picked, func(i, j int) bool {
		return picked[i].FilePath < picked[j].FilePath
	})

	var summaries []docs.FileSummary
	for _, result := range picked {
		if len(result.Symbols) == 0 {
			continue
		}

		symbols := make([]graph.SymbolRecord, 0, len(result.Symbols))
		for _, s := range result.Symbols {
			symbols = append(symbols, graph.SymbolRecord{
				Name:       s.Name,
				Kind:       string(s.Kind),
				StartLine:  s.StartLine,
				DocComment: s.DocComment,
			})
		}

		content := ""
		if raw, err := ingest.ReadFile(ing.repoPath, result.FilePath, constants.MaxPromptFileBytes); err == nil {
			content = string(raw)
		}

		resp, err := g.llm.Generate(ctx, docsSystemPrompt,
			buildFileSummaryPrompt(result.FilePath, symbols, content), nil, adapter.DocsOptions())
		if err != nil {
			g.logger.Warn("File summary failed",
				zap.String("path", result.FilePath),
				zap.Error(err),
			)
			// Cancellation and other terminal failures doom the remaining
			// summaries too; transient LLM errors only cost this file
			if !apperrors.IsRetryable(err) {
				break
			}
			continue
		}

		summaries = append(summaries, docs.FileSummary{
			Path:    result.FilePath,
			Summary: resp.Content,
		})
	}
	return summaries
}

// readReadme returns the repository README text, if present
func (g *DocGenerator) readReadme(repoPath string) string {
	for _, name := range []string{"README.md", "README", "readme.md", "Readme.md"} {
		if content, err := ingest.ReadFile(repoPath, name, constants.MaxPromptFileBytes); err == nil {
			return string(content)
		}
	}
	return ""
}
