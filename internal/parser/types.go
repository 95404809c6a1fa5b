package parser

import "fmt"

// SymbolKind classifies an extracted symbol
type SymbolKind string

const (
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindMethod    SymbolKind = "method"
	SymbolKindClass     SymbolKind = "class"
	SymbolKindType      SymbolKind = "type"
	SymbolKindInterface SymbolKind = "interface"
)

// Symbol is a named definition extracted from a source file
type Symbol struct {
	ID         string     `json:"id"` // file_path:start_line:name
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	FilePath   string     `json:"file_path"`
	Language   string     `json:"language"`
	Receiver   string     `json:"receiver,omitempty"` // Go methods, class methods
	StartLine  int        `json:"start_line"`
	EndLine    int        `json:"end_line"`
	DocComment string     `json:"doc_comment,omitempty"`
}

// Import records a dependency declared by a file
type Import struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Call records an invocation inside a symbol body. Callee is a bare name;
// resolution to a Symbol node happens at graph-build time and is best-effort.
type Call struct {
	Caller string `json:"caller"`
	Callee string `json:"callee"`
	Line   int    `json:"line"`
}

// ParseResult holds everything extracted from one file
type ParseResult struct {
	FilePath string   `json:"file_path"`
	Language string   `json:"language"`
	Symbols  []Symbol `json:"symbols"`
	Imports  []Import `json:"imports"`
	Calls    []Call   `json:"calls"`
	Errors   []string `json:"errors,omitempty"`
}

// GenerateID creates the stable symbol identifier used as the graph key
func GenerateID(filePath string, line int, name string) string {
	return fmt.Sprintf("%s:%d:%s", filePath, line, name)
}
