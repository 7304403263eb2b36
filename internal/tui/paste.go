package tui

import (
	"net/url"
	"strings"
	"unicode"
)

const fileURLPrefix = "file://"

// ParseDroppedPaths splits the text a terminal pastes when files are dropped
// on it. Terminals separate paths with spaces or newlines and protect spaces
// inside a path with a backslash or quotes; some send file:// URLs instead.
func ParseDroppedPaths(text string) []string {
	var paths []string
	var current strings.Builder
	var quote rune
	escaped := false
	pending := false

	flush := func() {
		if !pending {
			return
		}
		paths = append(paths, decodeFileURL(current.String()))
		current.Reset()
		pending = false
	}

	for _, character := range text {
		switch {
		case escaped:
			current.WriteRune(character)
			escaped = false
		case character == '\\' && quote != '\'':
			escaped = true
			pending = true
		case quote != 0:
			if character == quote {
				quote = 0
				continue
			}
			current.WriteRune(character)
		case character == '\'' || character == '"':
			quote = character
			pending = true
		case unicode.IsSpace(character):
			flush()
		default:
			current.WriteRune(character)
			pending = true
		}
	}
	flush()

	nonEmpty := paths[:0]
	for _, path := range paths {
		if path != "" {
			nonEmpty = append(nonEmpty, path)
		}
	}
	return nonEmpty
}

func decodeFileURL(path string) string {
	if !strings.HasPrefix(path, fileURLPrefix) {
		return path
	}
	parsed, err := url.Parse(path)
	if err != nil || parsed.Path == "" {
		return strings.TrimPrefix(path, fileURLPrefix)
	}
	return parsed.Path
}
