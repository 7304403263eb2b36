package workspace

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/temirov/ctxdrop/internal/export"
	"github.com/temirov/ctxdrop/internal/filetree"
	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

// RowView is everything the list needs to draw one row.
type RowView struct {
	Name       string
	Path       string
	Depth      int
	Kind       types.EntryKind
	Expanded   bool
	Text       bool
	TokenLabel string
	Warning    string
	Selected   bool
	Cursor     bool
}

// RowView describes row index. The boolean is false when index is out of range.
func (session *Session) RowView(index int) (RowView, bool) {
	if index < 0 || index >= len(session.rows) {
		return RowView{}, false
	}
	row := session.rows[index]
	entry, found := session.tree.Entry(row.EntryID)
	if !found {
		return RowView{}, false
	}
	view := RowView{
		Name:     entry.Name,
		Path:     entry.Path,
		Depth:    row.Depth,
		Kind:     entry.Kind,
		Expanded: entry.Expanded,
		Text:     entry.Text,
		Warning:  entry.Warning,
		Selected: session.machine.IsSelected(index),
		Cursor:   session.machine.Cursor() == index,
	}
	if entry.Warning == "" && entry.Tokens.Err != nil {
		view.Warning = entry.Tokens.Err.Error()
	}
	if session.settings.ShowTokenCount {
		view.TokenLabel = session.tokenLabel(entry)
	}
	return view, true
}

func (session *Session) tokenLabel(entry *filetree.Entry) string {
	count, known := session.tree.FolderTokens(entry.ID, session.visibility)
	if !known {
		return utils.UnknownTokenLabel
	}
	return utils.FormatTokenCount(count)
}

// TotalTokens sums the known counts of every visible file.
func (session *Session) TotalTokens() (int, bool) {
	total, anyKnown := 0, false
	for _, rootID := range session.tree.Roots() {
		if !session.visibility.Visible(rootID) {
			continue
		}
		count, known := session.tree.FolderTokens(rootID, session.visibility)
		if known {
			total += count
			anyKnown = true
		}
	}
	return total, anyKnown
}

// Search moves the cursor to the visible entry whose path best matches query,
// expanding its folders as needed. It reports whether anything matched.
func (session *Session) Search(query string) bool {
	if query == "" {
		return false
	}
	var candidates []int
	var displayPaths []string
	for _, id := range session.tree.All() {
		if !session.visibility.Visible(id) {
			continue
		}
		entry, _ := session.tree.Entry(id)
		candidates = append(candidates, id)
		displayPaths = append(displayPaths, export.RelativePath(session.tree.Path(entry.Root), entry.Path))
	}
	matches := fuzzy.Find(query, displayPaths)
	if len(matches) == 0 {
		session.warn(fmt.Sprintf(statusSearchMissFormat, query))
		return false
	}
	target := candidates[matches[0].Index]
	current := session.capture()
	session.tree.Reveal(target)
	session.rebuild(current)
	if index, visible := filetree.RowIndex(session.rows, target); visible {
		session.machine.MoveTo(index)
	}
	session.inform(displayPaths[matches[0].Index])
	return true
}
