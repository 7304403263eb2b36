package filetree

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/temirov/ctxdrop/internal/filter"
	"github.com/temirov/ctxdrop/internal/types"
)

// ScanOptions configures enumeration.
type ScanOptions struct {
	Matcher filter.MatcherOptions
	// Warn receives every recoverable failure. It may be nil.
	Warn func(err error)
}

// RootScan is the enumeration of one requested path.
type RootScan struct {
	Node    *Node
	Matcher *filter.Matcher
}

// ScanResult carries detached trees back to the owner of the Tree.
// Generation identifies the request the result answers.
type ScanResult struct {
	Generation uint64
	Requested  []string
	Roots      []RootScan
	Failures   []error
}

// Scan enumerates each path into a detached Node tree. It reads only the
// filesystem and touches no shared state, so it can run on any goroutine.
// Gitignored directories are pruned; unreadable paths are reported and skipped.
func Scan(ctx context.Context, paths []string, options ScanOptions) ScanResult {
	scanner := &treeScanner{ctx: ctx, options: options}
	result := ScanResult{Requested: append([]string(nil), paths...)}
	for _, path := range paths {
		if ctx.Err() != nil {
			scanner.fail(&types.IOError{Path: path, Err: ctx.Err()})
			break
		}
		rootScan, scanned := scanner.scanRoot(path)
		if scanned {
			result.Roots = append(result.Roots, rootScan)
		}
	}
	result.Failures = scanner.failures
	return result
}

type treeScanner struct {
	ctx      context.Context
	options  ScanOptions
	failures []error
}

func (scanner *treeScanner) fail(err error) {
	scanner.failures = append(scanner.failures, err)
	if scanner.options.Warn != nil {
		scanner.options.Warn(err)
	}
}

func (scanner *treeScanner) scanRoot(path string) (RootScan, bool) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		scanner.fail(&types.IOError{Path: path, Err: absoluteError})
		return RootScan{}, false
	}
	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		scanner.fail(&types.IOError{Path: absolutePath, Err: statError})
		return RootScan{}, false
	}

	matcher, matcherError := filter.NewMatcher(absolutePath, fileInfo.IsDir(), scanner.options.Matcher)
	if matcherError != nil {
		scanner.fail(&types.IOError{Path: absolutePath, Err: matcherError})
		matcher = nil
	}
	if !fileInfo.IsDir() {
		return RootScan{Node: scanner.fileNode(absolutePath, fileInfo), Matcher: matcher}, true
	}
	return RootScan{Node: scanner.folderNode(absolutePath, fileInfo, matcher), Matcher: matcher}, true
}

func (scanner *treeScanner) fileNode(path string, fileInfo os.FileInfo) *Node {
	node := &Node{
		Path:    path,
		Name:    filepath.Base(path),
		Kind:    types.KindFile,
		Size:    fileInfo.Size(),
		ModTime: fileInfo.ModTime(),
	}
	isText, classifyError := filter.IsTextFile(path)
	node.Text = isText
	if classifyError != nil {
		readError := &types.IOError{Path: path, Err: classifyError}
		node.Warning = readError.Error()
		scanner.fail(readError)
	}
	return node
}

func (scanner *treeScanner) folderNode(path string, fileInfo os.FileInfo, matcher *filter.Matcher) *Node {
	node := &Node{
		Path:    path,
		Name:    filepath.Base(path),
		Kind:    types.KindFolder,
		ModTime: fileInfo.ModTime(),
	}
	if matcher != nil {
		if ignoreError := matcher.AddDirectory(path); ignoreError != nil {
			scanner.fail(&types.IOError{Path: path, Err: ignoreError})
		}
	}
	directoryEntries, readError := os.ReadDir(path)
	if readError != nil {
		listError := &types.IOError{Path: path, Err: readError}
		node.Warning = listError.Error()
		scanner.fail(listError)
	}
	for _, directoryEntry := range directoryEntries {
		if scanner.ctx.Err() != nil {
			break
		}
		childPath := filepath.Join(path, directoryEntry.Name())
		childInfo, statError := os.Stat(childPath)
		if statError != nil {
			scanner.fail(&types.IOError{Path: childPath, Err: statError})
			continue
		}
		if childInfo.IsDir() {
			if directoryEntry.Type()&os.ModeSymlink != 0 {
				continue
			}
			if matcher.Ignored(childPath, true) {
				continue
			}
			node.Children = append(node.Children, scanner.folderNode(childPath, childInfo, matcher))
			continue
		}
		if !childInfo.Mode().IsRegular() {
			continue
		}
		node.Children = append(node.Children, scanner.fileNode(childPath, childInfo))
	}
	SortNodes(node.Children)
	return node
}

// SortNodes orders siblings folders first, then by path. The sort is stable.
func SortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(left, right int) bool {
		leftFolder := nodes[left].Kind == types.KindFolder
		rightFolder := nodes[right].Kind == types.KindFolder
		if leftFolder != rightFolder {
			return leftFolder
		}
		return nodes[left].Path < nodes[right].Path
	})
}
