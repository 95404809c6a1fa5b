package graph

import "time"

// ============================================================================
// Code Context Graph Types
// ============================================================================

// RepoRecord is a repository node
type RepoRecord struct {
	FullName   string    `json:"full_name"`
	URL        string    `json:"url"`
	Commit     string    `json:"commit"`
	IngestedAt time.Time `json:"ingested_at"`
	FileCount  int       `json:"file_count"`
}

// FileRecord is a source file node belonging to a repository
type FileRecord struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
}

// SymbolRecord is a declaration node belonging to a file
type SymbolRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	FilePath   string `json:"file_path"`
	Language   string `json:"language"`
	Receiver   string `json:"receiver,omitempty"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	DocComment string `json:"doc_comment,omitempty"`
}

// ImportEdge links a file to a module it imports
type ImportEdge struct {
	FilePath string `json:"file_path"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
}

// CallEdge links a calling symbol to a callee name within a file
type CallEdge struct {
	FilePath string `json:"file_path"`
	Caller   string `json:"caller"`
	Callee   string `json:"callee"`
	Line     int    `json:"line"`
}

// RepoOverview summarizes a repository's graph for prompts and tools
type RepoOverview struct {
	FullName      string         `json:"full_name"`
	URL           string         `json:"url"`
	Commit        string         `json:"commit"`
	FileCount     int            `json:"file_count"`
	SymbolCount   int            `json:"symbol_count"`
	Languages     map[string]int `json:"languages"`
	TopImports    []ImportCount  `json:"top_imports"`
	LargestFiles  []FileRecord   `json:"largest_files"`
}

// ImportCount is an import path and how many files pull it in
type ImportCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Message is one turn of a chat session
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionInfo summarizes a chat session
type SessionInfo struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	MessageCount int       `json:"message_count"`
	LastMessage  string    `json:"last_message,omitempty"`
}

// Artifact is a generated documentation file recorded in the graph
type Artifact struct {
	Path      string    `json:"path"`
	RepoName  string    `json:"repo_name"`
	CreatedAt time.Time `json:"created_at"`
}
