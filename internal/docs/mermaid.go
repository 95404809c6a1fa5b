package docs

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"codebase-genius/internal/graph"
)

// maxDiagramEdges keeps generated diagrams readable
const maxDiagramEdges = 40

// ImportDiagram renders file-to-module import edges as a mermaid graph.
// Edges collapse to the directory level so large repos stay legible.
func ImportDiagram(edges []graph.ImportEdge) string {
	if len(edges) == 0 {
		return ""
	}

	type link struct{ from, to string }
	seen := make(map[link]bool)
	var links []link

	for _, e := range edges {
		from := path.Dir(e.FilePath)
		if from == "." {
			from = "root"
		}
		l := link{from: from, to: e.Path}
		if seen[l] {
			continue
		}
		seen[l] = true
		links = append(links, l)
		if len(links) >= maxDiagramEdges {
			break
		}
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].from != links[j].from {
			return links[i].from < links[j].from
		}
		return links[i].to < links[j].to
	})

	ids := make(map[string]string)
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, l := range links {
		fmt.Fprintf(&b, "    %s --> %s\n", nodeRef(ids, l.from), nodeRef(ids, l.to))
	}
	return b.String()
}

// CallDiagram renders symbol call edges within one repository
func CallDiagram(calls []graph.CallEdge) string {
	if len(calls) == 0 {
		return ""
	}

	type link struct{ from, to string }
	seen := make(map[link]bool)
	var links []link

	for _, c := range calls {
		l := link{from: c.Caller, to: c.Callee}
		if l.from == l.to || seen[l] {
			continue
		}
		seen[l] = true
		links = append(links, l)
		if len(links) >= maxDiagramEdges {
			break
		}
	}

	ids := make(map[string]string)
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, l := range links {
		fmt.Fprintf(&b, "    %s --> %s\n", nodeRef(ids, l.from), nodeRef(ids, l.to))
	}
	return b.String()
}

// nodeRef returns a stable mermaid node id with a label, minting on first use
func nodeRef(ids map[string]string, label string) string {
	if id, ok := ids[label]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", len(ids))
	ids[label] = id
	return fmt.Sprintf("%s[\"%s\"]", id, escapeLabel(label))
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
