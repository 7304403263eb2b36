package workspace

import (
	"path/filepath"

	"github.com/temirov/ctxdrop/internal/filetree"
)

// focus remembers which entries the cursor and anchor were on so they can be
// found again after the rows change.
type focus struct {
	cursorPath string
	cursorRow  int
	anchorPath string
	anchorRow  int
	hasAnchor  bool
}

func (session *Session) capture() focus {
	var current focus
	cursor := session.machine.Cursor()
	current.cursorRow = cursor
	if cursor < len(session.rows) {
		current.cursorPath = session.tree.Path(session.rows[cursor].EntryID)
	}
	if anchor, hasAnchor := session.machine.Anchor(); hasAnchor && anchor < len(session.rows) {
		current.anchorRow = anchor
		current.anchorPath = session.tree.Path(session.rows[anchor].EntryID)
		current.hasAnchor = true
	}
	return current
}

// rebuild re-evaluates visibility, re-flattens and puts cursor and anchor back
// on their entries, or on the nearest visible ancestor, or clamps them.
func (session *Session) rebuild(previous focus) {
	session.visibility = session.engine.Evaluate(session.tree, session.settings)
	session.rows = session.tree.Flatten(session.visibility)
	cursor := session.resolve(previous.cursorPath, previous.cursorRow)
	anchor := session.resolve(previous.anchorPath, previous.anchorRow)
	session.machine.Resync(len(session.rows), cursor, anchor, previous.hasAnchor)
}

func (session *Session) resolve(path string, fallback int) int {
	if path == "" {
		return fallback
	}
	for candidate := path; ; candidate = filepath.Dir(candidate) {
		if id, found := session.tree.Lookup(candidate); found {
			if index, visible := filetree.RowIndex(session.rows, id); visible {
				return index
			}
		}
		if filepath.Dir(candidate) == candidate {
			return fallback
		}
	}
}

func (session *Session) cursorEntry() (*filetree.Entry, bool) {
	cursor := session.machine.Cursor()
	if cursor >= len(session.rows) {
		return nil, false
	}
	return session.tree.Entry(session.rows[cursor].EntryID)
}

// MoveDown moves the cursor one row down.
func (session *Session) MoveDown() { session.machine.MoveDown() }

// MoveUp moves the cursor one row up.
func (session *Session) MoveUp() { session.machine.MoveUp() }

// JumpFirst moves the cursor to the first row.
func (session *Session) JumpFirst() { session.machine.JumpFirst() }

// JumpLast moves the cursor to the last row.
func (session *Session) JumpLast() { session.machine.JumpLast() }

// MoveTo places the cursor on row index.
func (session *Session) MoveTo(index int) { session.machine.MoveTo(index) }

// EnterVisual starts a range selection.
func (session *Session) EnterVisual() { session.machine.EnterVisual() }

// EnterVisualLine selects from the cursor to the end of the list.
func (session *Session) EnterVisualLine() { session.machine.EnterVisualLine() }

// Escape leaves the visual modes.
func (session *Session) Escape() { session.machine.Escape() }

// EnterFolder expands the folder under the cursor if needed and moves the
// cursor to its first visible child. Files are left alone.
func (session *Session) EnterFolder() {
	entry, found := session.cursorEntry()
	if !found || !entry.IsFolder() {
		return
	}
	if !entry.Expanded {
		current := session.capture()
		session.tree.Expand(entry.ID)
		session.rebuild(current)
	}
	cursor := session.machine.Cursor()
	next := cursor + 1
	if next < len(session.rows) && session.rows[next].Depth > session.rows[cursor].Depth {
		session.machine.MoveTo(next)
	}
}

// LeaveFolder collapses the expanded folder under the cursor, or moves the
// cursor to the parent row of a nested entry.
func (session *Session) LeaveFolder() {
	entry, found := session.cursorEntry()
	if !found {
		return
	}
	if entry.IsFolder() && entry.Expanded {
		current := session.capture()
		session.tree.Collapse(entry.ID)
		session.rebuild(current)
		return
	}
	if entry.Parent == filetree.NoParent {
		return
	}
	if index, visible := filetree.RowIndex(session.rows, entry.Parent); visible {
		session.machine.MoveTo(index)
	}
}

// ToggleFolder flips the expand state of the folder under the cursor.
func (session *Session) ToggleFolder() {
	entry, found := session.cursorEntry()
	if !found || !entry.IsFolder() {
		return
	}
	current := session.capture()
	session.tree.Toggle(entry.ID)
	session.rebuild(current)
}

// targetIDs returns the entries under the cursor or the selection.
func (session *Session) targetIDs() ([]int, int) {
	targets := session.machine.Targets()
	ids := make([]int, 0, len(targets))
	lowest := len(session.rows)
	for _, index := range targets {
		if index >= len(session.rows) {
			continue
		}
		ids = append(ids, session.rows[index].EntryID)
		if index < lowest {
			lowest = index
		}
	}
	return ids, lowest
}

// Delete removes the entries under the cursor or the selection and returns
// to Normal mode with the cursor on the lowest removed row.
func (session *Session) Delete() int {
	ids, lowest := session.targetIDs()
	if len(ids) == 0 {
		return 0
	}
	for _, rootPath := range session.tree.Remove(ids) {
		session.engine.RemoveMatcher(rootPath)
	}
	session.machine.Finish()
	session.rebuild(focus{cursorRow: lowest})
	session.inform(formatRemoved(len(ids)))
	return len(ids)
}
