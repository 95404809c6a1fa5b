package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"codebase-genius/internal/ingest"
)

// NewPythonParser creates the Python source parser
func NewPythonParser() Parser {
	return &treeParser{spec: languageSpec{
		name:       ingest.LanguagePython,
		sitterLang: python.GetLanguage(),
		defKinds: map[string]SymbolKind{
			"function_definition": SymbolKindFunction,
			"class_definition":    SymbolKindClass,
		},
		kindOf: func(n *sitter.Node, def SymbolKind) SymbolKind {
			if def == SymbolKindFunction && enclosingClass(n) != "" {
				return SymbolKindMethod
			}
			return def
		},
		nameOf: func(n *sitter.Node, src []byte) (string, string) {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return "", ""
			}
			receiver := ""
			if n.Type() == "function_definition" {
				if cls := enclosingClass(n); cls != "" {
					receiver = nodeName(cls, n, src)
				}
			}
			return nameNode.Content(src), receiver
		},
		importTypes: map[string]bool{
			"import_statement":      true,
			"import_from_statement": true,
		},
		importsOf: pythonImports,
		callType:  "call",
		calleeOf: func(n *sitter.Node, src []byte) string {
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return ""
			}
			return rightmostName(fn, src)
		},
	}}
}

// enclosingClass walks up to the nearest class_definition, returning its node
// type ("" when the function is module-level)
func enclosingClass(n *sitter.Node) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_definition":
			return "class_definition"
		case "function_definition":
			// Nested function, not a method
			return ""
		}
	}
	return ""
}

// nodeName resolves the enclosing class name for a method's receiver field
func nodeName(_ string, n *sitter.Node, src []byte) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "class_definition" {
			if nm := p.ChildByFieldName("name"); nm != nil {
				return nm.Content(src)
			}
			return ""
		}
	}
	return ""
}

func pythonImports(n *sitter.Node, src []byte) []string {
	var paths []string
	if n.Type() == "import_from_statement" {
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			paths = append(paths, mod.Content(src))
		}
		return paths
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			paths = append(paths, child.Content(src))
		case "aliased_import":
			if nm := child.ChildByFieldName("name"); nm != nil {
				paths = append(paths, nm.Content(src))
			}
		}
	}
	return paths
}
