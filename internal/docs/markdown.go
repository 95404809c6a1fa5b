package docs

import (
	"fmt"
	"sort"
	"strings"

	"codebase-genius/internal/graph"
)

// Section is one titled block of the generated document
type Section struct {
	Title string
	Body  string
}

// Document is an assembled documentation artifact before rendering
type Document struct {
	RepoName string
	RepoURL  string
	Commit   string
	Body     string // pre-rendered Markdown placed ahead of the sections
	Sections []Section
}

// FileSummary pairs a file path with its LLM-written summary
type FileSummary struct {
	Path    string
	Summary string
}

// NewDocument creates a document shell with the standard header sections
func NewDocument(repoName, repoURL, commit string) *Document {
	return &Document{
		RepoName: repoName,
		RepoURL:  repoURL,
		Commit:   commit,
	}
}

// SetBody installs the main document body, typically LLM-generated
// Markdown carrying its own headings
func (d *Document) SetBody(body string) {
	d.Body = strings.TrimSpace(body)
}

// AddSection appends a titled section; empty bodies are dropped
func (d *Document) AddSection(title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	d.Sections = append(d.Sections, Section{Title: title, Body: body})
}

// AddOverviewSection renders the graph overview as a stats block
func (d *Document) AddOverviewSection(overview *graph.RepoOverview) {
	var b strings.Builder

	fmt.Fprintf(&b, "- **Repository:** [%s](%s)\n", overview.FullName, d.RepoURL)
	if d.Commit != "" {
		fmt.Fprintf(&b, "- **Commit:** `%s`\n", d.Commit)
	}
	fmt.Fprintf(&b, "- **Source files:** %d\n", overview.FileCount)
	fmt.Fprintf(&b, "- **Symbols indexed:** %d\n", overview.SymbolCount)

	if len(overview.Languages) > 0 {
		langs := make([]string, 0, len(overview.Languages))
		for lang := range overview.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		parts := make([]string, 0, len(langs))
		for _, lang := range langs {
			parts = append(parts, fmt.Sprintf("%s (%d)", lang, overview.Languages[lang]))
		}
		fmt.Fprintf(&b, "- **Languages:** %s\n", strings.Join(parts, ", "))
	}

	if len(overview.TopImports) > 0 {
		var imports []string
		for _, imp := range overview.TopImports {
			imports = append(imports, fmt.Sprintf("`%s`", imp.Path))
		}
		fmt.Fprintf(&b, "- **Most imported:** %s\n", strings.Join(imports, ", "))
	}

	d.AddSection("Repository Stats", b.String())
}

// AddFileTreeSection embeds the rendered file tree in a code fence
func (d *Document) AddFileTreeSection(rendered string) {
	rendered = strings.TrimRight(rendered, "\n")
	if rendered == "" {
		return
	}
	d.AddSection("File Tree", "```text\n"+rendered+"\n```")
}

// AddMermaidSection embeds a mermaid diagram
func (d *Document) AddMermaidSection(title, diagram string) {
	diagram = strings.TrimSpace(diagram)
	if diagram == "" {
		return
	}
	d.AddSection(title, "```mermaid\n"+diagram+"\n```")
}

// AddFileSummaries renders per-file summaries as subsections
func (d *Document) AddFileSummaries(summaries []FileSummary) {
	if len(summaries) == 0 {
		return
	}

	var b strings.Builder
	for _, fs := range summaries {
		summary := strings.TrimSpace(fs.Summary)
		if summary == "" {
			continue
		}
		fmt.Fprintf(&b, "### `%s`\n\n%s\n\n", fs.Path, summary)
	}
	d.AddSection("File Guide", b.String())
}

// Render produces the final Markdown text
func (d *Document) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.RepoName)

	if d.Body != "" {
		b.WriteString(d.Body)
		b.WriteString("\n\n")
	}

	// A table of contents only helps when the sections are the whole document
	if d.Body == "" && len(d.Sections) > 1 {
		b.WriteString("## Contents\n\n")
		for _, s := range d.Sections {
			fmt.Fprintf(&b, "- [%s](#%s)\n", s.Title, anchor(s.Title))
		}
		b.WriteString("\n")
	}

	for _, s := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Title, strings.TrimSpace(s.Body))
	}

	return b.String()
}

// anchor converts a section title to a GitHub-style heading anchor
func anchor(title string) string {
	s := strings.ToLower(title)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune('-')
		}
	}
	return b.String()
}
