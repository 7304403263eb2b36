package filter

import (
	"github.com/temirov/ctxdrop/internal/types"
)

// Snapshot is the read-only view of an entry forest the engine evaluates.
type Snapshot interface {
	Roots() []int
	Children(id int) []int
	Kind(id int) types.EntryKind
	Path(id int) string
	IsText(id int) bool
}

// Visibility maps entry IDs to their visibility decision.
type Visibility map[int]bool

// Visible reports the decision for id. Unknown IDs are not visible.
func (visibility Visibility) Visible(id int) bool {
	return visibility[id]
}

// Engine computes visibility from settings and the per-root matchers.
// Evaluate is deterministic: the same snapshot, settings and matchers always
// yield the same assignment.
type Engine struct {
	matchers map[string]*Matcher
}

// NewEngine returns an engine with no matchers.
func NewEngine() *Engine {
	return &Engine{matchers: make(map[string]*Matcher)}
}

// SetMatcher registers the matcher used for entries under rootPath.
func (engine *Engine) SetMatcher(rootPath string, matcher *Matcher) {
	engine.matchers[rootPath] = matcher
}

// RemoveMatcher forgets the matcher registered for rootPath.
func (engine *Engine) RemoveMatcher(rootPath string) {
	delete(engine.matchers, rootPath)
}

// Retain forgets the matchers of roots not in live.
func (engine *Engine) Retain(live map[string]struct{}) {
	for rootPath := range engine.matchers {
		if _, kept := live[rootPath]; !kept {
			delete(engine.matchers, rootPath)
		}
	}
}

// Reset forgets every matcher.
func (engine *Engine) Reset() {
	engine.matchers = make(map[string]*Matcher)
}

// Evaluate assigns a visibility to every entry reachable from the snapshot roots.
// A file is visible when it is not ignored and is text or text_only is off.
// A folder is visible when it is not ignored and either holds a visible
// descendant or hide_empty_folders is off. Roots were added explicitly and are
// never ignored themselves.
func (engine *Engine) Evaluate(snapshot Snapshot, settings types.Settings) Visibility {
	visibility := make(Visibility)
	for _, rootID := range snapshot.Roots() {
		matcher := engine.matchers[snapshot.Path(rootID)]
		engine.evaluateEntry(snapshot, settings, matcher, rootID, true, visibility)
	}
	return visibility
}

func (engine *Engine) evaluateEntry(snapshot Snapshot, settings types.Settings, matcher *Matcher, id int, isRoot bool, visibility Visibility) bool {
	isFolder := snapshot.Kind(id) == types.KindFolder
	ignored := !isRoot && matcher.Ignored(snapshot.Path(id), isFolder)

	if !isFolder {
		visible := !ignored && (snapshot.IsText(id) || !settings.TextOnly)
		visibility[id] = visible
		return visible
	}

	hasVisibleDescendant := false
	for _, childID := range snapshot.Children(id) {
		if engine.evaluateEntry(snapshot, settings, matcher, childID, false, visibility) {
			hasVisibleDescendant = true
		}
	}
	visible := !ignored && (hasVisibleDescendant || !settings.HideEmptyFolders)
	if !visible {
		markHidden(snapshot, id, visibility)
	}
	visibility[id] = visible
	return visible
}

// markHidden hides the descendants of a hidden folder so no row is reachable below it.
func markHidden(snapshot Snapshot, id int, visibility Visibility) {
	for _, childID := range snapshot.Children(id) {
		visibility[childID] = false
		markHidden(snapshot, childID, visibility)
	}
}
