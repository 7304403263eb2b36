// Package utils contains general helper functions shared by the ctxdrop packages.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Names used across the project.
const (
	// ApplicationName is the name used for configuration and cache directories.
	ApplicationName = "ctxdrop"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// GlobalConfigDirectoryName is the directory under the home directory holding global configuration.
	GlobalConfigDirectoryName = ".ctxdrop"
	// GlobalConfigFileName is the configuration file name inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".ctxdrop.yaml"
	// EmptyString represents a reusable empty string constant.
	EmptyString = ""
)

const (
	settingsFileName = "settings.json"
	logFileName      = "ctxdrop.log"
	slashSeparator   = "/"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	relativePath, relativeError := filepath.Rel(filepath.Clean(root), cleanPath)
	if relativeError != nil || strings.HasPrefix(relativePath, "..") {
		return cleanPath
	}
	return relativePath
}

// SlashRelativePath returns the path of fullPath relative to base using forward
// slashes regardless of the host separator.
func SlashRelativePath(fullPath, base string) string {
	return filepath.ToSlash(RelativePathOrSelf(fullPath, base))
}

// IsWithin reports whether candidatePath equals parentPath or lies below it.
func IsWithin(candidatePath, parentPath string) bool {
	cleanCandidate := filepath.Clean(candidatePath)
	cleanParent := filepath.Clean(parentPath)
	if cleanCandidate == cleanParent {
		return true
	}
	prefix := cleanParent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanCandidate, prefix)
}

// ExpandHomePath replaces a leading "~" with the current user's home directory.
func ExpandHomePath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+slashSeparator) {
		return path
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return path
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(path, "~"))
}

// DefaultSettingsPath returns the settings file location under the user configuration directory.
func DefaultSettingsPath() string {
	configurationDirectory, directoryError := os.UserConfigDir()
	if directoryError != nil {
		return filepath.Join(os.TempDir(), ApplicationName, settingsFileName)
	}
	return filepath.Join(configurationDirectory, ApplicationName, settingsFileName)
}

// DefaultLogPath returns the log file location used while the terminal UI owns the screen.
func DefaultLogPath() string {
	cacheDirectory, directoryError := os.UserCacheDir()
	if directoryError != nil {
		return filepath.Join(os.TempDir(), ApplicationName, logFileName)
	}
	return filepath.Join(cacheDirectory, ApplicationName, logFileName)
}
