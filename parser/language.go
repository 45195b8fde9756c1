package parser

import "path/filepath"

// Language tags carried on every normalized node and artifact.
const (
	LangPython = "python"
	LangJava   = "java"
	LangC      = "c"
	LangCPP    = "cpp"
)

// extensionLanguages maps file extensions to language tags. Unlisted
// extensions are unsupported and silently dropped by the driver.
var extensionLanguages = map[string]string{
	".py":   LangPython,
	".java": LangJava,
	".c":    LangC,
	".h":    LangC,
	".cpp":  LangCPP,
	".hpp":  LangCPP,
}

// DetectLanguage maps a file path to its language tag by extension.
func DetectLanguage(filePath string) (string, bool) {
	language, ok := extensionLanguages[filepath.Ext(filePath)]
	return language, ok
}
