// Package filter decides which scanned entries are visible: gitignore matching,
// text classification and the folder visibility fixed point.
package filter

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/ctxdrop/internal/config"
	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	currentDirectory   = "."
	directorySeparator = "/"
)

// MatcherOptions controls which ignore sources a Matcher honors.
type MatcherOptions struct {
	UseGitignore bool
	IncludeGit   bool
	Exclude      []string
}

// Matcher evaluates gitignore rules for one added root. Patterns from every
// contributing .gitignore are rebased onto a single base directory and compiled
// together so later lines override earlier ones across files.
type Matcher struct {
	baseDirectory string
	useGitignore  bool
	ignoreLines   []string
	trailingLines []string
	compiled      *ignore.GitIgnore
}

// NewMatcher builds the matcher for rootPath, loading the .gitignore files of
// its ancestors up to the enclosing repository top level.
func NewMatcher(rootPath string, rootIsDirectory bool, options MatcherOptions) (*Matcher, error) {
	baseDirectory := config.FindIgnoreBase(rootPath, rootIsDirectory)
	matcher := &Matcher{baseDirectory: baseDirectory, useGitignore: options.UseGitignore}

	if options.UseGitignore {
		ancestorPatterns, loadError := config.LoadAncestorIgnorePatterns(baseDirectory, rootPath, rootIsDirectory)
		if loadError != nil {
			return nil, loadError
		}
		matcher.ignoreLines = append(matcher.ignoreLines, ancestorPatterns...)
	}
	if !options.IncludeGit {
		matcher.trailingLines = append(matcher.trailingLines, config.GitDirectoryPattern)
	}
	rootDirectory := rootPath
	if !rootIsDirectory {
		rootDirectory = filepath.Dir(rootPath)
	}
	relativeRoot := utils.SlashRelativePath(rootDirectory, baseDirectory)
	matcher.trailingLines = append(matcher.trailingLines, config.RebasePatterns(utils.DeduplicatePatterns(options.Exclude), relativeRoot)...)
	matcher.compile()
	return matcher, nil
}

// AddDirectory reads the .gitignore inside directory, if any, and adds its rules.
// Directories must be added parent first so deeper rules take precedence.
func (matcher *Matcher) AddDirectory(directory string) error {
	if !matcher.useGitignore {
		return nil
	}
	patterns, loadError := config.LoadDirectoryIgnorePatterns(matcher.baseDirectory, directory)
	if loadError != nil {
		return loadError
	}
	if len(patterns) == 0 {
		return nil
	}
	matcher.ignoreLines = append(matcher.ignoreLines, patterns...)
	matcher.compile()
	return nil
}

// Ignored reports whether path is excluded by the collected rules.
// The base directory and paths outside it are never ignored.
func (matcher *Matcher) Ignored(path string, isDirectory bool) bool {
	if matcher == nil || matcher.compiled == nil {
		return false
	}
	relativePath := utils.SlashRelativePath(path, matcher.baseDirectory)
	if relativePath == currentDirectory || filepath.IsAbs(relativePath) {
		return false
	}
	if isDirectory {
		relativePath += directorySeparator
	}
	return matcher.compiled.MatchesPath(relativePath)
}

// Lines returns the compiled pattern lines in precedence order.
func (matcher *Matcher) Lines() []string {
	lines := make([]string, 0, len(matcher.ignoreLines)+len(matcher.trailingLines))
	lines = append(lines, matcher.ignoreLines...)
	return append(lines, matcher.trailingLines...)
}

func (matcher *Matcher) compile() {
	matcher.compiled = ignore.CompileIgnoreLines(matcher.Lines()...)
}
