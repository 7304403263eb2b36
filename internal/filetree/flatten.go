package filetree

import (
	"github.com/temirov/ctxdrop/internal/filter"
)

// Flatten projects the visible entries into display rows: depth-first pre-order,
// roots in insertion order, siblings folders first then by path. Hidden entries
// and the children of collapsed folders are left out.
func (tree *Tree) Flatten(visibility filter.Visibility) []Row {
	rows := make([]Row, 0, len(tree.byPath))
	for _, rootID := range tree.roots {
		rows = tree.appendRows(rows, rootID, 0, visibility)
	}
	return rows
}

func (tree *Tree) appendRows(rows []Row, id int, depth int, visibility filter.Visibility) []Row {
	if !visibility.Visible(id) {
		return rows
	}
	entry := tree.entries[id]
	rows = append(rows, Row{EntryID: id, Depth: depth, Index: len(rows)})
	if !entry.IsFolder() || !entry.Expanded {
		return rows
	}
	for _, childID := range entry.Children {
		rows = tree.appendRows(rows, childID, depth+1, visibility)
	}
	return rows
}

// RowIndex returns the position of the row showing id.
func RowIndex(rows []Row, id int) (int, bool) {
	for _, row := range rows {
		if row.EntryID == id {
			return row.Index, true
		}
	}
	return 0, false
}

// Ancestors returns the parent chain of id, nearest first.
func (tree *Tree) Ancestors(id int) []int {
	var ancestors []int
	entry, found := tree.Entry(id)
	for found && entry.Parent != NoParent {
		ancestors = append(ancestors, entry.Parent)
		entry, found = tree.Entry(entry.Parent)
	}
	return ancestors
}
