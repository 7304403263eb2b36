// Package filetree holds the added files and folders as an arena of entries
// and projects them into the flattened rows the list displays.
package filetree

import (
	"time"

	"github.com/temirov/ctxdrop/internal/types"
)

// NoParent is the parent ID of root entries.
const NoParent = -1

// TokenState is the last known token count of a file entry.
type TokenState struct {
	Count int
	Known bool
	Err   error
}

// Entry is one tracked filesystem path. Parent is an arena index, never a pointer.
type Entry struct {
	ID       int
	Path     string
	Name     string
	Kind     types.EntryKind
	Parent   int
	Root     int
	Children []int
	Size     int64
	ModTime  time.Time
	Text     bool
	Warning  string
	Expanded bool
	Tokens   TokenState
}

// IsFolder reports whether the entry is a directory.
func (entry *Entry) IsFolder() bool {
	return entry.Kind == types.KindFolder
}

// Row is one line of the flattened list. Index is its position in the sequence.
type Row struct {
	EntryID int
	Depth   int
	Index   int
}

// Node is a detached scan result not yet attached to a Tree.
type Node struct {
	Path     string
	Name     string
	Kind     types.EntryKind
	Size     int64
	ModTime  time.Time
	Text     bool
	Warning  string
	Children []*Node
}
