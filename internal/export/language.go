package export

import (
	"path/filepath"
	"strings"
)

var fileNameLanguages = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
	"go.mod":     "go",
	"go.sum":     "text",
}

var extensionLanguages = map[string]string{
	".bash": "bash", ".c": "c", ".cc": "cpp", ".cpp": "cpp", ".cs": "csharp", ".css": "css",
	".dart": "dart", ".diff": "diff", ".ex": "elixir", ".exs": "elixir", ".go": "go",
	".graphql": "graphql", ".h": "c", ".hpp": "cpp", ".hs": "haskell", ".htm": "html",
	".html": "html", ".ini": "ini", ".java": "java", ".js": "javascript", ".json": "json",
	".jsx": "jsx", ".kt": "kotlin", ".lua": "lua", ".md": "markdown", ".mjs": "javascript",
	".patch": "diff", ".php": "php", ".pl": "perl", ".proto": "protobuf", ".ps1": "powershell",
	".py": "python", ".r": "r", ".rb": "ruby", ".rs": "rust", ".scala": "scala",
	".scss": "scss", ".sh": "bash", ".sql": "sql", ".swift": "swift", ".tex": "latex",
	".tf": "hcl", ".toml": "toml", ".ts": "typescript", ".tsx": "tsx", ".vue": "vue",
	".xml": "xml", ".yaml": "yaml", ".yml": "yaml", ".zig": "zig", ".zsh": "bash",
}

// LanguageHint returns the fence language for a file name, or "" when unknown.
func LanguageHint(fileName string) string {
	lowerName := strings.ToLower(filepath.Base(fileName))
	if hint, known := fileNameLanguages[lowerName]; known {
		return hint
	}
	return extensionLanguages[filepath.Ext(lowerName)]
}
