package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"codebase-genius/internal/ingest"
)

// NewJavaScriptParser creates the JavaScript source parser
func NewJavaScriptParser() Parser {
	return &treeParser{spec: javascriptSpec(ingest.LanguageJavaScript, javascript.GetLanguage())}
}

// javascriptSpec is shared with the TypeScript parser, which extends it
func javascriptSpec(name string, lang *sitter.Language) languageSpec {
	return languageSpec{
		name:       name,
		sitterLang: lang,
		defKinds: map[string]SymbolKind{
			"function_declaration":           SymbolKindFunction,
			"generator_function_declaration": SymbolKindFunction,
			"class_declaration":              SymbolKindClass,
			"method_definition":              SymbolKindMethod,
		},
		nameOf: func(n *sitter.Node, src []byte) (string, string) {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return "", ""
			}
			receiver := ""
			if n.Type() == "method_definition" {
				receiver = enclosingClassName(n, src)
			}
			return nameNode.Content(src), receiver
		},
		importTypes: map[string]bool{"import_statement": true},
		importsOf: func(n *sitter.Node, src []byte) []string {
			if source := n.ChildByFieldName("source"); source != nil {
				return []string{trimStringLiteral(source.Content(src))}
			}
			return nil
		},
		callType: "call_expression",
		calleeOf: func(n *sitter.Node, src []byte) string {
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return ""
			}
			return rightmostName(fn, src)
		},
	}
}

func enclosingClassName(n *sitter.Node, src []byte) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		t := p.Type()
		if t == "class_declaration" || t == "class" || t == "abstract_class_declaration" {
			if nm := p.ChildByFieldName("name"); nm != nil {
				return nm.Content(src)
			}
			return ""
		}
	}
	return ""
}
