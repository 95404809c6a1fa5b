package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codebase-genius/internal/ingest"
)

// NewTypeScriptParser creates the parser for plain .ts sources
func NewTypeScriptParser() Parser {
	return &treeParser{spec: typescriptSpec(typescript.GetLanguage())}
}

// NewTSXParser creates the parser for .tsx sources. The plain TypeScript
// grammar rejects JSX, so those files need the tsx grammar.
func NewTSXParser() Parser {
	return &treeParser{spec: typescriptSpec(tsx.GetLanguage())}
}

// typescriptSpec reuses the JavaScript spec and adds the TypeScript-only
// declaration forms
func typescriptSpec(lang *sitter.Language) languageSpec {
	spec := javascriptSpec(ingest.LanguageTypeScript, lang)
	spec.defKinds["interface_declaration"] = SymbolKindInterface
	spec.defKinds["type_alias_declaration"] = SymbolKindType
	spec.defKinds["enum_declaration"] = SymbolKindType
	spec.defKinds["abstract_class_declaration"] = SymbolKindClass
	return spec
}
