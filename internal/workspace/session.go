// Package workspace is the session controller behind the terminal UI. It
// composes the file tree, the filter engine, the selection machine, the token
// cache and the exporter, and it is the only place display state changes.
// A Session is not safe for concurrent use: call it from the UI update loop
// and run the ScanRequest and TokenRequest values it hands out elsewhere.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/export"
	"github.com/temirov/ctxdrop/internal/filetree"
	"github.com/temirov/ctxdrop/internal/filter"
	"github.com/temirov/ctxdrop/internal/selection"
	"github.com/temirov/ctxdrop/internal/services/clipboard"
	"github.com/temirov/ctxdrop/internal/tokenizer"
	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	statusAddedFormat          = "added %d path(s)"
	statusScanFailuresFormat   = "%d path(s) could not be read: %v"
	statusCountFailuresFormat  = "%d file(s) could not be counted"
	statusCopiedFormat         = "copied %d file(s), %s tokens"
	statusCopiedPartialFormat  = "copied %d file(s), %s tokens; %v"
	statusNothingToCopy        = "nothing to copy"
	statusRemovedFormat        = "removed %d item(s)"
	statusCleared              = "cleared"
	statusSettingFormat        = "%s: %t"
	statusSaveSettingsFormat   = "settings not saved: %v"
	statusSearchMissFormat     = "no match for %q"
	statusClipboardErrorFormat = "clipboard: %v"

	logMessageScanFailure   = "scan failure"
	logMessageStaleScan     = "discarding stale scan result"
	logMessageStaleTokens   = "discarding stale token result"
	logMessageCountFailure  = "token count failure"
	logMessageExportFailure = "export failure"
	logMessageSaveSettings  = "failed to save settings"
	logFieldGeneration      = "generation"
	logFieldCurrent         = "current"
	logFieldPath            = "path"
)

// SettingsSaver persists settings after every change.
type SettingsSaver interface {
	Save(settings types.Settings) error
}

// Options wires the collaborators of a Session. Nil collaborators disable
// the matching feature: no Cache means no token counts, no Clipboard means
// yank only builds the document.
type Options struct {
	Settings  types.Settings
	Store     SettingsSaver
	Matcher   filter.MatcherOptions
	Cache     *tokenizer.Cache
	Workers   int
	Formatter *export.Formatter
	Clipboard clipboard.Copier
	Logger    *zap.Logger
}

// Status is the one-line message shown under the list.
type Status struct {
	Text    string
	Warning bool
}

// Session is the mutable state of one ctxdrop run.
type Session struct {
	tree       *filetree.Tree
	engine     *filter.Engine
	machine    *selection.Machine
	settings   types.Settings
	store      SettingsSaver
	matcher    filter.MatcherOptions
	cache      *tokenizer.Cache
	workers    int
	formatter  *export.Formatter
	copier     clipboard.Copier
	logger     *zap.Logger
	visibility filter.Visibility
	rows       []filetree.Row
	status     Status

	pendingPaths    []string
	refreshPending  bool
	scanGeneration  uint64
	scanInFlight    bool
	tokenGeneration uint64
	tokenInFlight   bool
}

// New returns an empty session.
func New(options Options) *Session {
	formatter := options.Formatter
	if formatter == nil {
		formatter = export.NewFormatter(nil)
	}
	session := &Session{
		tree:      filetree.New(),
		engine:    filter.NewEngine(),
		machine:   selection.New(),
		settings:  options.Settings,
		store:     options.Store,
		matcher:   options.Matcher,
		cache:     options.Cache,
		workers:   options.Workers,
		formatter: formatter,
		copier:    options.Clipboard,
		logger:    utils.LoggerOrNop(options.Logger),
	}
	session.rebuild(focus{})
	return session
}

// Settings returns the active settings.
func (session *Session) Settings() types.Settings { return session.settings }

// Status returns the current status line.
func (session *Session) Status() Status { return session.status }

// Mode returns the selection mode.
func (session *Session) Mode() selection.Mode { return session.machine.Mode() }

// Cursor returns the cursor row.
func (session *Session) Cursor() int { return session.machine.Cursor() }

// Selection returns the selected rows in ascending order.
func (session *Session) Selection() []int { return session.machine.Selection() }

// Rows returns the flattened visible rows.
func (session *Session) Rows() []filetree.Row { return session.rows }

// Tree exposes the underlying tree for read-only inspection.
func (session *Session) Tree() *filetree.Tree { return session.tree }

// Visibility returns the current filter decision per entry.
func (session *Session) Visibility() filter.Visibility { return session.visibility }

// Busy reports whether a scan or a token pass is outstanding.
func (session *Session) Busy() bool { return session.scanInFlight || session.tokenInFlight }

// AddPaths queues paths for enumeration. Paths are made absolute; duplicates
// and paths already in the tree are dropped. Every call supersedes the
// outstanding request, and the returned request covers all queued paths.
// The boolean is false when nothing new was queued.
func (session *Session) AddPaths(paths []string) (ScanRequest, bool) {
	queued := make(map[string]struct{}, len(session.pendingPaths))
	for _, pendingPath := range session.pendingPaths {
		queued[pendingPath] = struct{}{}
	}
	added := false
	for _, path := range paths {
		absolutePath, absoluteError := filepath.Abs(utils.ExpandHomePath(path))
		if absoluteError != nil {
			session.warn(fmt.Sprintf(statusScanFailuresFormat, 1, absoluteError))
			continue
		}
		if _, exists := session.tree.Lookup(absolutePath); exists {
			continue
		}
		if _, exists := queued[absolutePath]; exists {
			continue
		}
		queued[absolutePath] = struct{}{}
		session.pendingPaths = append(session.pendingPaths, absolutePath)
		added = true
	}
	if !added {
		return ScanRequest{}, false
	}
	return session.issueScan(), true
}

// Refresh queues a rescan of every root, keeping any queued additions.
func (session *Session) Refresh() (ScanRequest, bool) {
	if len(session.tree.Roots()) == 0 && len(session.pendingPaths) == 0 {
		return ScanRequest{}, false
	}
	session.refreshPending = true
	return session.issueScan(), true
}

func (session *Session) issueScan() ScanRequest {
	session.scanGeneration++
	session.scanInFlight = true
	var paths []string
	seen := make(map[string]struct{})
	if session.refreshPending {
		for _, rootPath := range session.tree.RootPaths() {
			seen[rootPath] = struct{}{}
			paths = append(paths, rootPath)
		}
	}
	for _, pendingPath := range session.pendingPaths {
		if _, exists := seen[pendingPath]; !exists {
			paths = append(paths, pendingPath)
		}
	}
	logger := session.logger
	return ScanRequest{
		Generation: session.scanGeneration,
		Paths:      paths,
		options: filetree.ScanOptions{
			Matcher: session.matcher,
			Warn: func(err error) {
				logger.Warn(logMessageScanFailure, zap.Error(err))
			},
		},
	}
}

// ApplyScan merges a scan result into the tree. Results of superseded
// requests are discarded and reported as not applied. Roots already in the
// tree are refreshed in place; queued paths are inserted; refreshed roots
// removed in the meantime stay removed.
func (session *Session) ApplyScan(result filetree.ScanResult) bool {
	if result.Generation != session.scanGeneration {
		session.logger.Debug(logMessageStaleScan,
			zap.Uint64(logFieldGeneration, result.Generation),
			zap.Uint64(logFieldCurrent, session.scanGeneration))
		return false
	}
	pending := make(map[string]struct{}, len(session.pendingPaths))
	for _, pendingPath := range session.pendingPaths {
		pending[pendingPath] = struct{}{}
	}

	current := session.capture()
	insertedCount := 0
	for _, rootScan := range result.Roots {
		node := rootScan.Node
		if id, exists := session.tree.Lookup(node.Path); exists {
			if entry, _ := session.tree.Entry(id); entry.Parent == filetree.NoParent && session.tree.Refresh(node) {
				session.engine.SetMatcher(node.Path, rootScan.Matcher)
			}
			continue
		}
		if _, queued := pending[node.Path]; !queued {
			continue
		}
		if _, inserted := session.tree.Insert(node); inserted {
			session.engine.SetMatcher(node.Path, rootScan.Matcher)
			insertedCount++
		}
	}
	session.pruneMatchers()
	session.pendingPaths = nil
	session.refreshPending = false
	session.scanInFlight = false
	session.rebuild(current)

	switch {
	case len(result.Failures) > 0:
		session.warn(fmt.Sprintf(statusScanFailuresFormat, len(result.Failures), result.Failures[0]))
	case insertedCount > 0:
		session.inform(fmt.Sprintf(statusAddedFormat, insertedCount))
	}
	return true
}

// TokenPass requests counts for text files whose count is not known yet.
// The boolean is false when counting is disabled or nothing needs counting.
func (session *Session) TokenPass() (TokenRequest, bool) {
	if session.cache == nil || !session.settings.ShowTokenCount {
		return TokenRequest{}, false
	}
	var paths []string
	for _, id := range session.tree.Files() {
		entry, _ := session.tree.Entry(id)
		if !entry.Text || entry.Tokens.Known || entry.Tokens.Err != nil {
			continue
		}
		paths = append(paths, entry.Path)
	}
	if len(paths) == 0 {
		return TokenRequest{}, false
	}
	session.tokenGeneration++
	session.tokenInFlight = true
	return TokenRequest{
		Generation: session.tokenGeneration,
		Paths:      paths,
		cache:      session.cache,
		workers:    session.workers,
	}, true
}

// ApplyTokens records the counts of a token pass. Results of superseded
// passes are discarded. Files that failed to count keep an unknown count.
func (session *Session) ApplyTokens(result TokenResult) bool {
	if result.Generation != session.tokenGeneration {
		session.logger.Debug(logMessageStaleTokens,
			zap.Uint64(logFieldGeneration, result.Generation),
			zap.Uint64(logFieldCurrent, session.tokenGeneration))
		return false
	}
	session.tokenInFlight = false
	failureCount := 0
	for _, countResult := range result.Results {
		if countResult.Err != nil {
			if result.Err != nil && errors.Is(countResult.Err, result.Err) {
				continue
			}
			failureCount++
			session.logger.Warn(logMessageCountFailure, zap.String(logFieldPath, countResult.Path), zap.Error(countResult.Err))
			session.tree.SetTokens(countResult.Path, filetree.TokenState{Err: countResult.Err})
			continue
		}
		session.tree.SetTokens(countResult.Path, filetree.TokenState{Count: countResult.Tokens, Known: true})
	}
	if failureCount > 0 {
		session.warn(fmt.Sprintf(statusCountFailuresFormat, failureCount))
	}
	return true
}

// Clear drops every entry, discards outstanding results and resets the selection.
func (session *Session) Clear() {
	session.tree.Clear()
	session.engine.Reset()
	session.pendingPaths = nil
	session.refreshPending = false
	session.scanGeneration++
	session.scanInFlight = false
	session.tokenGeneration++
	session.tokenInFlight = false
	session.machine.Reset()
	session.rebuild(focus{})
	session.inform(statusCleared)
}

// SetSetting changes one setting, persists the result and re-filters the list.
func (session *Session) SetSetting(key string, value bool) error {
	updated, err := session.settings.With(key, value)
	if err != nil {
		return err
	}
	current := session.capture()
	session.settings = updated
	session.rebuild(current)
	session.inform(fmt.Sprintf(statusSettingFormat, key, value))
	if session.store == nil {
		return nil
	}
	if saveError := session.store.Save(updated); saveError != nil {
		session.logger.Warn(logMessageSaveSettings, zap.Error(saveError))
		session.warn(fmt.Sprintf(statusSaveSettingsFormat, saveError))
		return saveError
	}
	return nil
}

// ToggleSetting flips a setting.
func (session *Session) ToggleSetting(key string) error {
	value, err := session.settings.Value(key)
	if err != nil {
		return err
	}
	return session.SetSetting(key, !value)
}

func (session *Session) pruneMatchers() {
	live := make(map[string]struct{})
	for _, rootPath := range session.tree.RootPaths() {
		live[rootPath] = struct{}{}
	}
	session.engine.Retain(live)
}

func (session *Session) inform(text string) {
	session.status = Status{Text: text}
}

func (session *Session) warn(text string) {
	session.status = Status{Text: text, Warning: true}
}
