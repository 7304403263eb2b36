// Package config loads ignore files, user settings and the application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	// GitDirectoryPattern represents the pattern that matches the Git directory at any depth.
	GitDirectoryPattern = utils.GitDirectoryName + "/"

	commentPrefix           = "#"
	negationPrefix          = "!"
	escapePrefix            = `\`
	patternSeparator        = "/"
	anyDirectoriesSegment   = "**/"
	loadIgnoreFileErrorFmt  = "loading %s from %s: %w"
	closeIgnoreFileWarnFmt  = "Warning: failed to close %s: %v\n"
	repositoryMarkerMissing = ""
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// Blank lines and comments are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, closeIgnoreFileWarnFmt, ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadDirectoryIgnorePatterns reads the .gitignore inside directory and rebases
// its patterns so they can be matched against paths relative to baseDirectory.
func LoadDirectoryIgnorePatterns(baseDirectory string, directory string) ([]string, error) {
	gitIgnoreFilePath := filepath.Join(directory, utils.GitIgnoreFileName)
	patterns, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf(loadIgnoreFileErrorFmt, utils.GitIgnoreFileName, directory, loadError)
	}
	relativeDirectory := utils.SlashRelativePath(directory, baseDirectory)
	return RebasePatterns(patterns, relativeDirectory), nil
}

// LoadAncestorIgnorePatterns collects the .gitignore patterns of every directory
// from baseDirectory down to, but excluding, rootPath, shallowest first.
// When rootPath is a file its own directory is included.
func LoadAncestorIgnorePatterns(baseDirectory string, rootPath string, rootIsDirectory bool) ([]string, error) {
	lowestDirectory := rootPath
	if !rootIsDirectory {
		lowestDirectory = filepath.Dir(rootPath)
	}
	var directories []string
	currentDirectory := filepath.Clean(lowestDirectory)
	if !rootIsDirectory {
		directories = append(directories, currentDirectory)
	}
	for currentDirectory != filepath.Clean(baseDirectory) {
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory || !utils.IsWithin(parentDirectory, baseDirectory) {
			break
		}
		directories = append(directories, parentDirectory)
		currentDirectory = parentDirectory
	}

	var aggregatedPatterns []string
	for index := len(directories) - 1; index >= 0; index-- {
		patterns, loadError := LoadDirectoryIgnorePatterns(baseDirectory, directories[index])
		if loadError != nil {
			return nil, loadError
		}
		aggregatedPatterns = append(aggregatedPatterns, patterns...)
	}
	return aggregatedPatterns, nil
}

// FindIgnoreBase returns the directory gitignore patterns for rootPath are matched against:
// the closest enclosing repository top level or, outside a repository, the
// highest ancestor holding a .gitignore, falling back to the directory of rootPath.
func FindIgnoreBase(rootPath string, rootIsDirectory bool) string {
	startDirectory := filepath.Clean(rootPath)
	if !rootIsDirectory {
		startDirectory = filepath.Dir(startDirectory)
	}
	repositoryTop := findRepositoryTop(startDirectory)
	if repositoryTop != repositoryMarkerMissing {
		return repositoryTop
	}
	if highest := findHighestIgnoreDirectory(startDirectory); highest != repositoryMarkerMissing {
		return highest
	}
	return startDirectory
}

func findHighestIgnoreDirectory(startDirectory string) string {
	highest := repositoryMarkerMissing
	currentDirectory := startDirectory
	for {
		if _, statError := os.Stat(filepath.Join(currentDirectory, utils.GitIgnoreFileName)); statError == nil {
			highest = currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return highest
		}
		currentDirectory = parentDirectory
	}
}

func findRepositoryTop(startDirectory string) string {
	currentDirectory := startDirectory
	for {
		gitPath := filepath.Join(currentDirectory, utils.GitDirectoryName)
		if _, statError := os.Stat(gitPath); statError == nil {
			return currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return repositoryMarkerMissing
		}
		currentDirectory = parentDirectory
	}
}

// RebasePatterns rewrites gitignore patterns declared in relativeDirectory so
// they match paths relative to the base directory. Anchored patterns are joined
// to the directory; unanchored ones may match at any depth below it.
func RebasePatterns(patterns []string, relativeDirectory string) []string {
	rebased := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		rebased = append(rebased, RebasePattern(pattern, relativeDirectory))
	}
	return rebased
}

// RebasePattern rewrites one pattern. See RebasePatterns.
func RebasePattern(pattern string, relativeDirectory string) string {
	if relativeDirectory == "" || relativeDirectory == "." {
		return pattern
	}
	negated := strings.HasPrefix(pattern, negationPrefix)
	body := strings.TrimPrefix(pattern, negationPrefix)
	if strings.HasPrefix(body, escapePrefix+negationPrefix) || strings.HasPrefix(body, escapePrefix+commentPrefix) {
		body = body[len(escapePrefix):]
	}

	anchored := strings.Contains(strings.TrimSuffix(body, patternSeparator), patternSeparator)
	body = strings.TrimPrefix(body, patternSeparator)
	if strings.HasPrefix(body, anyDirectoriesSegment) {
		anchored = true
	}

	var result string
	if anchored {
		result = patternSeparator + relativeDirectory + patternSeparator + body
	} else {
		result = patternSeparator + relativeDirectory + patternSeparator + anyDirectoriesSegment + body
	}
	if negated {
		return negationPrefix + result
	}
	return result
}
