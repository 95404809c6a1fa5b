package ingest

import "path/filepath"

// Language codes for source classification
const (
	LanguageGo         = "go"
	LanguagePython     = "python"
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
	LanguageMarkdown   = "markdown"
	LanguageUnknown    = ""
)

var extensionLanguages = map[string]string{
	".go":  LanguageGo,
	".py":  LanguagePython,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".tsx": LanguageTypeScript,
	".md":  LanguageMarkdown,
}

var languageNames = map[string]string{
	LanguageGo:         "Go",
	LanguagePython:     "Python",
	LanguageJavaScript: "JavaScript",
	LanguageTypeScript: "TypeScript",
	LanguageMarkdown:   "Markdown",
}

// DetectLanguage classifies a file path by extension.
// Returns LanguageUnknown for anything outside the supported set.
func DetectLanguage(path string) string {
	return extensionLanguages[filepath.Ext(path)]
}

// GetLanguageName returns the display name for a language code
func GetLanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// IsParseable reports whether files of this language feed the context graph
func IsParseable(code string) bool {
	switch code {
	case LanguageGo, LanguagePython, LanguageJavaScript, LanguageTypeScript:
		return true
	}
	return false
}
