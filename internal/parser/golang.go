package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"codebase-genius/internal/ingest"
)

// NewGoParser creates the Go source parser
func NewGoParser() Parser {
	return &treeParser{spec: languageSpec{
		name:       ingest.LanguageGo,
		sitterLang: golang.GetLanguage(),
		defKinds: map[string]SymbolKind{
			"function_declaration": SymbolKindFunction,
			"method_declaration":   SymbolKindMethod,
			"type_spec":            SymbolKindType,
		},
		kindOf: func(n *sitter.Node, def SymbolKind) SymbolKind {
			if def == SymbolKindType {
				if t := n.ChildByFieldName("type"); t != nil && t.Type() == "interface_type" {
					return SymbolKindInterface
				}
			}
			return def
		},
		nameOf: func(n *sitter.Node, src []byte) (string, string) {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return "", ""
			}
			receiver := ""
			if n.Type() == "method_declaration" {
				receiver = goReceiverType(n, src)
			}
			return nameNode.Content(src), receiver
		},
		importTypes: map[string]bool{"import_declaration": true},
		importsOf:   goImports,
		callType:    "call_expression",
		calleeOf: func(n *sitter.Node, src []byte) string {
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return ""
			}
			return rightmostName(fn, src)
		},
	}}
}

// goReceiverType returns the receiver's base type name, without the pointer star
func goReceiverType(n *sitter.Node, src []byte) string {
	recv := n.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		decl := recv.NamedChild(i)
		if decl.Type() != "parameter_declaration" {
			continue
		}
		t := decl.ChildByFieldName("type")
		if t == nil {
			continue
		}
		for t.Type() == "pointer_type" || t.Type() == "generic_type" {
			inner := t.NamedChild(0)
			if inner == nil {
				break
			}
			t = inner
		}
		return t.Content(src)
	}
	return ""
}

func goImports(n *sitter.Node, src []byte) []string {
	var paths []string
	var collect func(*sitter.Node)
	collect = func(node *sitter.Node) {
		if node.Type() == "import_spec" {
			if p := node.ChildByFieldName("path"); p != nil {
				paths = append(paths, trimStringLiteral(p.Content(src)))
			}
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			collect(node.NamedChild(i))
		}
	}
	collect(n)
	return paths
}
