package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileNode is one entry in the repository file tree
type FileNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"` // relative to repo root, forward slashes
	IsDir    bool        `json:"is_dir"`
	Language string      `json:"language,omitempty"`
	Size     int64       `json:"size,omitempty"`
	Children []*FileNode `json:"children,omitempty"`
}

// Directories that never contribute to documentation
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
}

// TreeBuilder walks a cloned repository into a FileNode tree, honoring the
// repository's .gitignore when present
type TreeBuilder struct {
	maxFileSize int64
}

// NewTreeBuilder creates a tree builder with a per-file size cap
func NewTreeBuilder(maxFileSize int64) *TreeBuilder {
	if maxFileSize <= 0 {
		maxFileSize = 1024 * 1024
	}
	return &TreeBuilder{maxFileSize: maxFileSize}
}

// Build walks root and returns the file tree
func (b *TreeBuilder) Build(root string) (*FileNode, error) {
	var matcher *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		matcher = gi
	}

	rootNode := &FileNode{Name: filepath.Base(root), Path: ".", IsDir: true}
	nodes := map[string]*FileNode{".": rootNode}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skippedDirs[d.Name()] || (matcher != nil && matcher.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			node := &FileNode{Name: d.Name(), Path: rel, IsDir: true}
			nodes[rel] = node
			attachChild(nodes, rel, node)
			return nil
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		node := &FileNode{
			Name:     d.Name(),
			Path:     rel,
			Language: DetectLanguage(rel),
			Size:     info.Size(),
		}
		nodes[rel] = node
		attachChild(nodes, rel, node)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortTree(rootNode)
	return rootNode, nil
}

func attachChild(nodes map[string]*FileNode, rel string, node *FileNode) {
	parent := "."
	if idx := strings.LastIndex(rel, "/"); idx != -1 {
		parent = rel[:idx]
	}
	if p, ok := nodes[parent]; ok {
		p.Children = append(p.Children, node)
	}
}

// sortTree orders directories before files, both alphabetically
func sortTree(n *FileNode) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}

// SourceFiles returns the parseable files in the tree, excluding anything
// over the size cap
func (b *TreeBuilder) SourceFiles(root *FileNode) []*FileNode {
	var out []*FileNode
	var walk func(*FileNode)
	walk = func(n *FileNode) {
		for _, c := range n.Children {
			if c.IsDir {
				walk(c)
				continue
			}
			if IsParseable(c.Language) && c.Size <= b.maxFileSize {
				out = append(out, c)
			}
		}
	}
	walk(root)
	return out
}

// Render produces the indented text tree embedded in prompts and docs
func Render(root *FileNode) string {
	var sb strings.Builder
	sb.WriteString(root.Name)
	sb.WriteString("/\n")
	renderChildren(&sb, root, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *FileNode, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		branch := "├── "
		next := prefix + "│   "
		if last {
			branch = "└── "
			next = prefix + "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(c.Name)
		if c.IsDir {
			sb.WriteString("/")
		}
		sb.WriteString("\n")
		if c.IsDir {
			renderChildren(sb, c, next)
		}
	}
}

// ReadFile reads a file from a clone, guarding against path traversal
func ReadFile(root, rel string, maxBytes int64) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, os.ErrNotExist
	}
	full := filepath.Join(root, clean)
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, os.ErrInvalid
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		data = data[:maxBytes]
	}
	return data, nil
}
