// Package export renders selected files into one markdown document with a
// fenced code block per file.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	headerPrefix     = "## "
	minimumFenceSize = 3
	backtick         = '`'
	newline          = "\n"
)

// File is one file to export. Root is the added path the file belongs to.
type File struct {
	Root string
	Path string
}

// Document is the rendered bundle.
type Document struct {
	Text  string
	Files []string
}

// Reader loads file content. os.ReadFile is used when nil.
type Reader func(path string) ([]byte, error)

// Formatter renders documents.
type Formatter struct {
	read Reader
}

// NewFormatter returns a formatter reading through reader, or the filesystem when nil.
func NewFormatter(reader Reader) *Formatter {
	if reader == nil {
		reader = os.ReadFile
	}
	return &Formatter{read: reader}
}

// Build renders files in order. Files that cannot be read are skipped and
// listed in a *types.PartialReadError returned alongside the document built
// from the rest.
func (formatter *Formatter) Build(files []File) (Document, error) {
	var builder strings.Builder
	var document Document
	var failures []types.IOError
	for _, file := range files {
		content, readError := formatter.read(file.Path)
		if readError != nil {
			failures = append(failures, types.IOError{Path: file.Path, Err: readError})
			continue
		}
		relativePath := RelativePath(file.Root, file.Path)
		writeSection(&builder, relativePath, string(content))
		document.Files = append(document.Files, file.Path)
	}
	document.Text = builder.String()
	if len(failures) > 0 {
		return document, &types.PartialReadError{Failures: failures}
	}
	return document, nil
}

// RelativePath renders path relative to the parent of root with forward slashes,
// so a file under the added folder /work/proj shows as proj/... and an added
// file shows as its base name.
func RelativePath(root string, path string) string {
	return utils.SlashRelativePath(path, filepath.Dir(filepath.Clean(root)))
}

func writeSection(builder *strings.Builder, relativePath string, content string) {
	fence := Fence(content)
	builder.WriteString(headerPrefix)
	builder.WriteString(relativePath)
	builder.WriteString(newline)
	builder.WriteString(newline)
	builder.WriteString(fence)
	builder.WriteString(LanguageHint(relativePath))
	builder.WriteString(newline)
	builder.WriteString(content)
	if !strings.HasSuffix(content, newline) {
		builder.WriteString(newline)
	}
	builder.WriteString(fence)
	builder.WriteString(newline)
	builder.WriteString(newline)
}

// Fence returns a backtick fence longer than any backtick run in content,
// and never shorter than three.
func Fence(content string) string {
	longestRun, currentRun := 0, 0
	for index := 0; index < len(content); index++ {
		if content[index] == backtick {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	size := minimumFenceSize
	if longestRun >= size {
		size = longestRun + 1
	}
	return strings.Repeat(string(backtick), size)
}
