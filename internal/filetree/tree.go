package filetree

import (
	"context"

	"github.com/temirov/ctxdrop/internal/filter"
	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

// Tree owns every entry. IDs index into the arena and are never reused; removed
// slots stay nil. Paths are unique across the whole tree.
type Tree struct {
	entries    []*Entry
	roots      []int
	byPath     map[string]int
	removed    map[string]struct{}
	generation uint64
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{
		byPath:  make(map[string]int),
		removed: make(map[string]struct{}),
	}
}

// Generation increases on every structural change.
func (tree *Tree) Generation() uint64 {
	return tree.generation
}

// Len returns the number of live entries.
func (tree *Tree) Len() int {
	return len(tree.byPath)
}

// Entry returns the live entry with id.
func (tree *Tree) Entry(id int) (*Entry, bool) {
	if id < 0 || id >= len(tree.entries) || tree.entries[id] == nil {
		return nil, false
	}
	return tree.entries[id], true
}

// Lookup returns the ID of the entry at path.
func (tree *Tree) Lookup(path string) (int, bool) {
	id, found := tree.byPath[path]
	return id, found
}

// Roots returns the root IDs in insertion order.
func (tree *Tree) Roots() []int {
	return append([]int(nil), tree.roots...)
}

// RootPaths returns the paths of the roots in insertion order.
func (tree *Tree) RootPaths() []string {
	paths := make([]string, 0, len(tree.roots))
	for _, rootID := range tree.roots {
		paths = append(paths, tree.entries[rootID].Path)
	}
	return paths
}

// Children returns the child IDs of id in display order.
func (tree *Tree) Children(id int) []int {
	entry, found := tree.Entry(id)
	if !found {
		return nil
	}
	return entry.Children
}

// Kind returns the kind of id.
func (tree *Tree) Kind(id int) types.EntryKind {
	entry, found := tree.Entry(id)
	if !found {
		return types.KindFile
	}
	return entry.Kind
}

// Path returns the path of id.
func (tree *Tree) Path(id int) string {
	entry, found := tree.Entry(id)
	if !found {
		return ""
	}
	return entry.Path
}

// IsText returns the text classification of id.
func (tree *Tree) IsText(id int) bool {
	entry, found := tree.Entry(id)
	return found && entry.Text
}

// Add scans path synchronously and inserts it as a root.
func (tree *Tree) Add(ctx context.Context, path string, options ScanOptions) (int, bool) {
	result := Scan(ctx, []string{path}, options)
	if len(result.Roots) == 0 {
		return NoParent, false
	}
	return tree.Insert(result.Roots[0].Node)
}

// Insert attaches a detached node as a new root. Re-adding a path already in
// the tree is a no-op. Existing roots that lie inside the new root are absorbed
// into it, keeping their expand state. A previously removed path may be added again.
func (tree *Tree) Insert(node *Node) (int, bool) {
	if node == nil {
		return NoParent, false
	}
	if _, exists := tree.byPath[node.Path]; exists {
		return NoParent, false
	}
	delete(tree.removed, node.Path)

	expandedPaths := make(map[string]bool)
	absorbedRoots := make([]int, 0)
	for _, rootID := range tree.roots {
		rootPath := tree.entries[rootID].Path
		if utils.IsWithin(rootPath, node.Path) {
			tree.collectExpanded(rootID, expandedPaths)
			absorbedRoots = append(absorbedRoots, rootID)
		}
	}
	for _, rootID := range absorbedRoots {
		tree.detach(rootID)
	}

	rootID := tree.attach(node, NoParent, NoParent, expandedPaths)
	tree.entries[rootID].Expanded = node.Kind == types.KindFolder
	tree.roots = append(tree.roots, rootID)
	tree.generation++
	return rootID, true
}

// Refresh replaces the subtree of the root at node.Path with a fresh scan,
// keeping expand state by path and the removed-path memory. It reports whether
// a matching root existed.
func (tree *Tree) Refresh(node *Node) bool {
	if node == nil {
		return false
	}
	rootID, found := tree.byPath[node.Path]
	if !found || tree.entries[rootID].Parent != NoParent {
		return false
	}
	expandedPaths := make(map[string]bool)
	tree.collectExpanded(rootID, expandedPaths)
	tokenStates := make(map[string]*Entry)
	tree.collectTokens(rootID, tokenStates)

	position := tree.rootPosition(rootID)
	tree.detach(rootID)
	newRootID := tree.attach(node, NoParent, NoParent, expandedPaths)
	tree.restoreTokens(newRootID, tokenStates)

	tree.roots = append(tree.roots, 0)
	copy(tree.roots[position+1:], tree.roots[position:])
	tree.roots[position] = newRootID
	tree.generation++
	return true
}

// Remove deletes the given entries and their descendants. Unknown or already
// removed IDs are ignored. Removed nested paths are remembered so a refresh of
// their root does not bring them back. It returns the paths of removed roots.
func (tree *Tree) Remove(ids []int) []string {
	var removedRoots []string
	changed := false
	for _, id := range ids {
		entry, found := tree.Entry(id)
		if !found {
			continue
		}
		if entry.Parent == NoParent {
			removedRoots = append(removedRoots, entry.Path)
			tree.forgetRemovedWithin(entry.Path)
			if tree.insideOtherRoot(id, entry.Path) {
				tree.removed[entry.Path] = struct{}{}
			}
		} else {
			tree.removed[entry.Path] = struct{}{}
		}
		tree.detach(id)
		changed = true
	}
	if changed {
		tree.generation++
	}
	return removedRoots
}

// insideOtherRoot reports whether path lies inside a live root other than rootID.
func (tree *Tree) insideOtherRoot(rootID int, path string) bool {
	for _, otherID := range tree.roots {
		if otherID == rootID {
			continue
		}
		if other, live := tree.Entry(otherID); live && other.Path != path && utils.IsWithin(path, other.Path) {
			return true
		}
	}
	return false
}

// Clear removes every entry and forgets removed paths.
func (tree *Tree) Clear() {
	tree.entries = nil
	tree.roots = nil
	tree.byPath = make(map[string]int)
	tree.removed = make(map[string]struct{})
	tree.generation++
}

// IsRemoved reports whether path was removed as a nested entry.
func (tree *Tree) IsRemoved(path string) bool {
	_, removed := tree.removed[path]
	return removed
}

// Expand opens a folder. It reports whether the state changed.
func (tree *Tree) Expand(id int) bool {
	entry, found := tree.Entry(id)
	if !found || !entry.IsFolder() || entry.Expanded {
		return false
	}
	entry.Expanded = true
	return true
}

// Collapse closes a folder. It reports whether the state changed.
func (tree *Tree) Collapse(id int) bool {
	entry, found := tree.Entry(id)
	if !found || !entry.IsFolder() || !entry.Expanded {
		return false
	}
	entry.Expanded = false
	return true
}

// Toggle flips the expand state of a folder. It reports whether id is a folder.
func (tree *Tree) Toggle(id int) bool {
	entry, found := tree.Entry(id)
	if !found || !entry.IsFolder() {
		return false
	}
	entry.Expanded = !entry.Expanded
	return true
}

// SetTokens records the token state of the file at path.
func (tree *Tree) SetTokens(path string, state TokenState) bool {
	id, found := tree.byPath[path]
	if !found || tree.entries[id].IsFolder() {
		return false
	}
	tree.entries[id].Tokens = state
	return true
}

// FolderTokens sums the known token counts of the visible files below id.
// The boolean is false when no visible file below id has a known count yet.
func (tree *Tree) FolderTokens(id int, visibility filter.Visibility) (int, bool) {
	entry, found := tree.Entry(id)
	if !found {
		return 0, false
	}
	if !entry.IsFolder() {
		return entry.Tokens.Count, entry.Tokens.Known
	}
	total := 0
	anyKnown := false
	for _, childID := range entry.Children {
		if !visibility.Visible(childID) {
			continue
		}
		childTotal, childKnown := tree.FolderTokens(childID, visibility)
		if childKnown {
			total += childTotal
			anyKnown = true
		}
	}
	return total, anyKnown
}

// Files returns every live file ID in flatten order regardless of expand state.
func (tree *Tree) Files() []int {
	var files []int
	for _, rootID := range tree.roots {
		tree.walk(rootID, func(entry *Entry) bool {
			if !entry.IsFolder() {
				files = append(files, entry.ID)
			}
			return true
		})
	}
	return files
}

// All returns every live entry ID in flatten order regardless of expand state.
func (tree *Tree) All() []int {
	var ids []int
	for _, rootID := range tree.roots {
		tree.walk(rootID, func(entry *Entry) bool {
			ids = append(ids, entry.ID)
			return true
		})
	}
	return ids
}

// Reveal expands every ancestor of id so its row can be shown.
func (tree *Tree) Reveal(id int) {
	for _, ancestorID := range tree.Ancestors(id) {
		tree.Expand(ancestorID)
	}
}

// CollectFiles expands ids into the visible files they contain, in flatten
// order, without duplicates. Folder IDs contribute every visible file below
// them regardless of expand state.
func (tree *Tree) CollectFiles(ids []int, visibility filter.Visibility) []int {
	requested := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	var files []int
	for _, rootID := range tree.roots {
		tree.collectRequested(rootID, false, requested, visibility, &files)
	}
	return files
}

func (tree *Tree) collectRequested(id int, included bool, requested map[int]struct{}, visibility filter.Visibility, files *[]int) {
	entry := tree.entries[id]
	if !visibility.Visible(id) {
		return
	}
	if _, isRequested := requested[id]; isRequested {
		included = true
	}
	if !entry.IsFolder() {
		if included {
			*files = append(*files, id)
		}
		return
	}
	for _, childID := range entry.Children {
		tree.collectRequested(childID, included, requested, visibility, files)
	}
}

func (tree *Tree) attach(node *Node, parentID int, rootID int, expandedPaths map[string]bool) int {
	id := len(tree.entries)
	if rootID == NoParent {
		rootID = id
	}
	entry := &Entry{
		ID:       id,
		Path:     node.Path,
		Name:     node.Name,
		Kind:     node.Kind,
		Parent:   parentID,
		Root:     rootID,
		Size:     node.Size,
		ModTime:  node.ModTime,
		Text:     node.Text,
		Warning:  node.Warning,
		Expanded: expandedPaths[node.Path],
	}
	tree.entries = append(tree.entries, entry)
	tree.byPath[node.Path] = id
	SortNodes(node.Children)
	for _, child := range node.Children {
		if tree.IsRemoved(child.Path) {
			continue
		}
		if _, exists := tree.byPath[child.Path]; exists {
			continue
		}
		childID := tree.attach(child, id, rootID, expandedPaths)
		entry.Children = append(entry.Children, childID)
	}
	return id
}

// detach frees id and its descendants and unlinks id from its parent or the root list.
func (tree *Tree) detach(id int) {
	entry := tree.entries[id]
	if entry.Parent == NoParent {
		position := tree.rootPosition(id)
		if position >= 0 {
			tree.roots = append(tree.roots[:position], tree.roots[position+1:]...)
		}
	} else if parent, found := tree.Entry(entry.Parent); found {
		parent.Children = removeID(parent.Children, id)
	}
	tree.free(id)
}

func (tree *Tree) free(id int) {
	entry := tree.entries[id]
	for _, childID := range entry.Children {
		tree.free(childID)
	}
	delete(tree.byPath, entry.Path)
	tree.entries[id] = nil
}

func (tree *Tree) forgetRemovedWithin(rootPath string) {
	for removedPath := range tree.removed {
		if utils.IsWithin(removedPath, rootPath) {
			delete(tree.removed, removedPath)
		}
	}
}

func (tree *Tree) rootPosition(id int) int {
	for position, rootID := range tree.roots {
		if rootID == id {
			return position
		}
	}
	return -1
}

func (tree *Tree) walk(id int, visit func(entry *Entry) bool) {
	entry := tree.entries[id]
	if !visit(entry) {
		return
	}
	for _, childID := range entry.Children {
		tree.walk(childID, visit)
	}
}

func (tree *Tree) collectExpanded(id int, expandedPaths map[string]bool) {
	tree.walk(id, func(entry *Entry) bool {
		if entry.Expanded {
			expandedPaths[entry.Path] = true
		}
		return true
	})
}

// collectTokens keeps the token states of files so a refresh can carry them
// over to entries whose content did not change.
func (tree *Tree) collectTokens(id int, tokenStates map[string]*Entry) {
	tree.walk(id, func(entry *Entry) bool {
		if !entry.IsFolder() && (entry.Tokens.Known || entry.Tokens.Err != nil) {
			tokenStates[entry.Path] = entry
		}
		return true
	})
}

func (tree *Tree) restoreTokens(id int, tokenStates map[string]*Entry) {
	tree.walk(id, func(entry *Entry) bool {
		previous, found := tokenStates[entry.Path]
		if found && previous.Size == entry.Size && previous.ModTime.Equal(entry.ModTime) {
			entry.Tokens = previous.Tokens
		}
		return true
	})
}

func removeID(ids []int, target int) []int {
	for index, id := range ids {
		if id == target {
			return append(ids[:index], ids[index+1:]...)
		}
	}
	return ids
}
