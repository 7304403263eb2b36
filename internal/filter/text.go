package filter

import (
	"path/filepath"
	"strings"

	"github.com/temirov/ctxdrop/internal/utils"
)

var textExtensions = map[string]struct{}{
	".bash": {}, ".bat": {}, ".c": {}, ".cc": {}, ".cfg": {}, ".clj": {}, ".cmake": {},
	".conf": {}, ".cpp": {}, ".cs": {}, ".css": {}, ".csv": {}, ".dart": {}, ".diff": {},
	".dockerfile": {}, ".el": {}, ".env": {}, ".erl": {}, ".ex": {}, ".exs": {}, ".fish": {},
	".gitignore": {}, ".go": {}, ".gradle": {}, ".graphql": {}, ".h": {}, ".hpp": {}, ".hs": {},
	".htm": {}, ".html": {}, ".ini": {}, ".java": {}, ".js": {}, ".json": {}, ".jsx": {},
	".kt": {}, ".kts": {}, ".less": {}, ".lua": {}, ".m": {}, ".make": {}, ".md": {},
	".mdx": {}, ".mjs": {}, ".ml": {}, ".mod": {}, ".patch": {}, ".php": {}, ".pl": {},
	".properties": {}, ".proto": {}, ".ps1": {}, ".py": {}, ".r": {}, ".rb": {}, ".rs": {},
	".rst": {}, ".sass": {}, ".scala": {}, ".scss": {}, ".sh": {}, ".sql": {}, ".sum": {},
	".svelte": {}, ".swift": {}, ".tex": {}, ".tf": {}, ".toml": {}, ".ts": {}, ".tsx": {},
	".txt": {}, ".vue": {}, ".xml": {}, ".yaml": {}, ".yml": {}, ".zig": {}, ".zsh": {},
}

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".a": {}, ".avi": {}, ".bin": {}, ".bmp": {}, ".class": {}, ".dll": {},
	".dmg": {}, ".doc": {}, ".docx": {}, ".dylib": {}, ".eot": {}, ".exe": {}, ".flac": {},
	".gif": {}, ".gz": {}, ".ico": {}, ".iso": {}, ".jar": {}, ".jpeg": {}, ".jpg": {},
	".mkv": {}, ".mov": {}, ".mp3": {}, ".mp4": {}, ".o": {}, ".ogg": {}, ".otf": {},
	".pdf": {}, ".png": {}, ".ppt": {}, ".pptx": {}, ".psd": {}, ".pyc": {}, ".rar": {},
	".so": {}, ".sqlite": {}, ".tar": {}, ".tgz": {}, ".tif": {}, ".tiff": {}, ".ttf": {},
	".wasm": {}, ".wav": {}, ".webm": {}, ".webp": {}, ".woff": {}, ".woff2": {}, ".xls": {},
	".xlsx": {}, ".xz": {}, ".zip": {},
}

// IsTextFile classifies the file at path as text or binary.
// Known extensions decide without reading; otherwise the leading bytes are sniffed.
// An unreadable file is reported as non-text together with the read error.
func IsTextFile(path string) (bool, error) {
	extension := strings.ToLower(filepath.Ext(path))
	if _, known := textExtensions[extension]; known {
		return true, nil
	}
	if _, known := binaryExtensions[extension]; known {
		return false, nil
	}
	binary, sniffError := utils.SniffFile(path)
	if sniffError != nil {
		return false, sniffError
	}
	return !binary, nil
}
