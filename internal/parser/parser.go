package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"codebase-genius/internal/ingest"
)

// Parser extracts symbols, imports, and calls from one language
type Parser interface {
	Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error)
	Language() string
}

// Registry maps languages to parsers
type Registry struct {
	parsers map[string]Parser
	tsx     Parser
}

// NewRegistry creates a registry with all supported language parsers
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	for _, p := range []Parser{
		NewGoParser(),
		NewPythonParser(),
		NewJavaScriptParser(),
		NewTypeScriptParser(),
	} {
		r.parsers[p.Language()] = p
	}
	// .tsx classifies as TypeScript but needs its own grammar for JSX
	r.tsx = NewTSXParser()
	return r
}

// ForFile returns the parser for a file path, or nil if unsupported
func (r *Registry) ForFile(path string) Parser {
	if strings.HasSuffix(path, ".tsx") {
		return r.tsx
	}
	return r.parsers[ingest.DetectLanguage(path)]
}

// ForLanguage returns the parser for a language code, or nil
func (r *Registry) ForLanguage(lang string) Parser {
	return r.parsers[lang]
}

// languageSpec drives the shared tree walker for one grammar
type languageSpec struct {
	name       string
	sitterLang *sitter.Language
	// defKinds maps AST node types to the symbol kind they define
	defKinds map[string]SymbolKind
	// nameOf extracts the symbol name and optional receiver from a definition node
	nameOf func(n *sitter.Node, src []byte) (name, receiver string)
	// kindOf optionally refines the kind for a definition node
	kindOf func(n *sitter.Node, def SymbolKind) SymbolKind
	// importsOf extracts import paths from an import node, or nil
	importsOf func(n *sitter.Node, src []byte) []string
	// importTypes lists AST node types that declare imports
	importTypes map[string]bool
	// callType is the AST node type of an invocation
	callType string
	// calleeOf extracts the called name from a call node
	calleeOf func(n *sitter.Node, src []byte) string
}

// treeParser is the shared implementation behind every language parser
type treeParser struct {
	spec languageSpec
}

func (p *treeParser) Language() string {
	return p.spec.name
}

func (p *treeParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled before start: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("content of %s is not valid UTF-8", filePath)
	}

	// New tree-sitter parser per call for thread safety
	sp := sitter.NewParser()
	sp.SetLanguage(p.spec.sitterLang)

	tree, err := sp.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed for %s: %w", filePath, err)
	}
	defer tree.Close()

	result := &ParseResult{
		FilePath: filePath,
		Language: p.spec.name,
		Symbols:  []Symbol{},
		Imports:  []Import{},
		Calls:    []Call{},
	}

	root := tree.RootNode()
	if root == nil {
		result.Errors = append(result.Errors, "tree-sitter returned nil root node")
		return result, nil
	}
	if root.HasError() {
		// Error-tolerant: record and keep the partial tree
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	p.walk(root, content, filePath, "", result)
	return result, nil
}

// walk visits the tree once, tracking the enclosing symbol for call edges
func (p *treeParser) walk(n *sitter.Node, src []byte, filePath, enclosing string, result *ParseResult) {
	nodeType := n.Type()

	if kind, ok := p.spec.defKinds[nodeType]; ok {
		if p.spec.kindOf != nil {
			kind = p.spec.kindOf(n, kind)
		}
		name, receiver := p.spec.nameOf(n, src)
		if name != "" {
			line := int(n.StartPoint().Row) + 1
			sym := Symbol{
				ID:         GenerateID(filePath, line, name),
				Name:       name,
				Kind:       kind,
				FilePath:   filePath,
				Language:   p.spec.name,
				Receiver:   receiver,
				StartLine:  line,
				EndLine:    int(n.EndPoint().Row) + 1,
				DocComment: precedingComment(n, src),
			}
			result.Symbols = append(result.Symbols, sym)
			enclosing = name
		}
	}

	if p.spec.importTypes[nodeType] && p.spec.importsOf != nil {
		line := int(n.StartPoint().Row) + 1
		for _, path := range p.spec.importsOf(n, src) {
			result.Imports = append(result.Imports, Import{Path: path, Line: line})
		}
	}

	if nodeType == p.spec.callType && enclosing != "" && p.spec.calleeOf != nil {
		if callee := p.spec.calleeOf(n, src); callee != "" {
			result.Calls = append(result.Calls, Call{
				Caller: enclosing,
				Callee: callee,
				Line:   int(n.StartPoint().Row) + 1,
			})
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		p.walk(n.NamedChild(i), src, filePath, enclosing, result)
	}
}

// precedingComment returns the comment block immediately above a node
func precedingComment(n *sitter.Node, src []byte) string {
	var lines []string
	cur := n
	prev := cur.PrevNamedSibling()
	// Only comments directly adjacent to the definition count
	for prev != nil && strings.Contains(prev.Type(), "comment") &&
		int(cur.StartPoint().Row)-int(prev.EndPoint().Row) <= 1 {
		lines = append([]string{cleanComment(prev.Content(src))}, lines...)
		cur = prev
		prev = cur.PrevNamedSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func cleanComment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// trimStringLiteral strips the quotes off a string literal node's text
func trimStringLiteral(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, `'`, "`"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2 {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// rightmostName returns the final identifier of a possibly dotted expression,
// e.g. fmt.Println -> Println, self.helper -> helper
func rightmostName(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	if idx := strings.LastIndexAny(text, "."); idx != -1 && idx+1 < len(text) {
		text = text[idx+1:]
	}
	// Generic instantiations and chained calls leave residue worth dropping
	if idx := strings.IndexAny(text, "([<"); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
