package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/ctxdrop/internal/export"
	"github.com/temirov/ctxdrop/internal/filter"
	"github.com/temirov/ctxdrop/internal/selection"
	"github.com/temirov/ctxdrop/internal/tokenizer"
	"github.com/temirov/ctxdrop/internal/types"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

type testClipboard struct {
	copied []string
	err    error
}

func (clipboard *testClipboard) Copy(text string) error {
	if clipboard.err != nil {
		return clipboard.err
	}
	clipboard.copied = append(clipboard.copied, text)
	return nil
}

type testStore struct {
	saved []types.Settings
	err   error
}

func (store *testStore) Save(settings types.Settings) error {
	store.saved = append(store.saved, settings)
	return store.err
}

type testSession struct {
	*Session
	clipboard *testClipboard
	store     *testStore
}

func newTestSession(t *testing.T, reader export.Reader) testSession {
	t.Helper()
	clipboard := &testClipboard{}
	store := &testStore{}
	session := New(Options{
		Settings:  types.DefaultSettings(),
		Store:     store,
		Matcher:   filter.MatcherOptions{UseGitignore: true},
		Cache:     tokenizer.NewCache(testCounter{}),
		Workers:   2,
		Formatter: export.NewFormatter(reader),
		Clipboard: clipboard,
	})
	return testSession{Session: session, clipboard: clipboard, store: store}
}

func (session testSession) add(t *testing.T, paths ...string) {
	t.Helper()
	request, issued := session.AddPaths(paths)
	if !issued {
		t.Fatalf("expected a scan request for %v", paths)
	}
	if !session.ApplyScan(request.Run(context.Background())) {
		t.Fatalf("expected scan result to apply")
	}
}

func (session testSession) countTokens(t *testing.T) {
	t.Helper()
	request, issued := session.TokenPass()
	if !issued {
		t.Fatalf("expected a token request")
	}
	if !session.ApplyTokens(request.Run(context.Background())) {
		t.Fatalf("expected token result to apply")
	}
}

func (session testSession) rowPaths() []string {
	var paths []string
	for index := range session.Rows() {
		view, _ := session.RowView(index)
		paths = append(paths, view.Path)
	}
	return paths
}

func writeFixture(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newFlatProject creates proj/{f1.txt .. f4.txt}, five rows once added.
func newFlatProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "proj")
	for _, name := range []string{"f1.txt", "f2.txt", "f3.txt", "f4.txt"} {
		writeFixture(t, filepath.Join(root, name), name+" content\n")
	}
	return root
}

// newNestedProject creates proj/{a.py, sub/c.go, sub/deep/d.md, z.txt}.
func newNestedProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "proj")
	writeFixture(t, filepath.Join(root, "a.py"), "print('hello world')\n")
	writeFixture(t, filepath.Join(root, "sub", "c.go"), "package sub\n")
	writeFixture(t, filepath.Join(root, "sub", "deep", "d.md"), "# notes\n")
	writeFixture(t, filepath.Join(root, "z.txt"), "last\n")
	return root
}

func TestTextOnlyScenarioYanksSingleBlock(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	writeFixture(t, filepath.Join(root, "a.py"), "one two three four five six seven eight nine ten\n")
	if err := os.WriteFile(filepath.Join(root, "b.png"), []byte{0x89, 0x50, 0x4e, 0x47, 0x00}, 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
	session := newTestSession(t, nil)
	session.add(t, root)

	expectedRows := []string{root, filepath.Join(root, "a.py")}
	if actual := session.rowPaths(); !reflect.DeepEqual(actual, expectedRows) {
		t.Fatalf("expected rows %v, got %v", expectedRows, actual)
	}

	session.countTokens(t)
	fileView, _ := session.RowView(1)
	if fileView.TokenLabel != "10" {
		t.Fatalf("expected 10 tokens for a.py, got %q", fileView.TokenLabel)
	}
	rootView, _ := session.RowView(0)
	if rootView.TokenLabel != "10" {
		t.Fatalf("expected folder total of 10, got %q", rootView.TokenLabel)
	}

	session.MoveDown()
	report := session.Yank()
	if report.Err != nil {
		t.Fatalf("unexpected yank error: %v", report.Err)
	}
	if len(session.clipboard.copied) != 1 {
		t.Fatalf("expected one clipboard write, got %d", len(session.clipboard.copied))
	}
	document := session.clipboard.copied[0]
	if strings.Count(document, "## ") != 1 || !strings.Contains(document, "## proj/a.py\n") {
		t.Fatalf("expected exactly one header for proj/a.py, got %q", document)
	}
	if strings.Count(document, "```") != 2 || !strings.Contains(document, "```python\n") {
		t.Fatalf("expected exactly one fenced python block, got %q", document)
	}
	if !report.TokensKnown || report.Tokens == 0 {
		t.Fatalf("expected the bundle token count to be reported")
	}
	if session.Mode() != selection.Normal {
		t.Fatalf("expected Normal mode after yank")
	}
}

func TestVisualLineScenario(t *testing.T) {
	session := newTestSession(t, nil)
	session.add(t, newFlatProject(t))
	if len(session.Rows()) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(session.Rows()))
	}
	session.MoveTo(2)
	session.EnterVisualLine()
	if selected := session.Selection(); !reflect.DeepEqual(selected, []int{2, 3, 4}) {
		t.Fatalf("expected {2,3,4}, got %v", selected)
	}
	session.MoveUp()
	if selected := session.Selection(); !reflect.DeepEqual(selected, []int{1, 2}) {
		t.Fatalf("expected {1,2} with the anchor fixed at 2, got %v", selected)
	}
	session.Escape()
	if session.Mode() != selection.Normal || len(session.Selection()) != 0 {
		t.Fatalf("expected escape to clear the selection")
	}
}

func TestDeleteRemovesSelectionPermanently(t *testing.T) {
	root := newFlatProject(t)
	session := newTestSession(t, nil)
	session.add(t, root)

	session.MoveTo(1)
	session.EnterVisual()
	session.MoveDown()
	if removed := session.Delete(); removed != 2 {
		t.Fatalf("expected 2 removed entries, got %d", removed)
	}
	expected := []string{root, filepath.Join(root, "f3.txt"), filepath.Join(root, "f4.txt")}
	if actual := session.rowPaths(); !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected rows %v, got %v", expected, actual)
	}
	if session.Cursor() != 1 || session.Mode() != selection.Normal {
		t.Fatalf("expected cursor on the lowest removed row in Normal mode, got %d %v", session.Cursor(), session.Mode())
	}

	request, issued := session.Refresh()
	if !issued || !session.ApplyScan(request.Run(context.Background())) {
		t.Fatalf("expected refresh to apply")
	}
	if actual := session.rowPaths(); !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected refresh to keep removed entries out, got %v", actual)
	}

	session.JumpLast()
	session.Delete()
	if session.Cursor() != 1 {
		t.Fatalf("expected cursor clamped to the new last row, got %d", session.Cursor())
	}
}

func TestStaleScanResultsAreDiscarded(t *testing.T) {
	first := newFlatProject(t)
	second := newNestedProject(t)
	session := newTestSession(t, nil)

	firstRequest, _ := session.AddPaths([]string{first})
	secondRequest, _ := session.AddPaths([]string{second, first})
	if !reflect.DeepEqual(secondRequest.Paths, []string{first, second}) {
		t.Fatalf("expected the newer request to cover every queued path, got %v", secondRequest.Paths)
	}
	if session.ApplyScan(firstRequest.Run(context.Background())) {
		t.Fatalf("expected superseded scan to be discarded")
	}
	if len(session.Rows()) != 0 {
		t.Fatalf("expected no rows from a discarded scan")
	}
	if !session.ApplyScan(secondRequest.Run(context.Background())) {
		t.Fatalf("expected current scan to apply")
	}
	if roots := session.Tree().RootPaths(); !reflect.DeepEqual(roots, []string{first, second}) {
		t.Fatalf("expected both roots, got %v", roots)
	}

	if _, issued := session.AddPaths([]string{first}); issued {
		t.Fatalf("expected re-adding an existing root to be a no-op")
	}

	refresh, _ := session.Refresh()
	session.Clear()
	if session.ApplyScan(refresh.Run(context.Background())) {
		t.Fatalf("expected scan issued before clear to be discarded")
	}
	if len(session.Rows()) != 0 || session.Tree().Len() != 0 {
		t.Fatalf("expected an empty tree after clear")
	}
}

func TestStaleTokenResultsAreDiscarded(t *testing.T) {
	session := newTestSession(t, nil)
	session.add(t, newFlatProject(t))
	firstPass, _ := session.TokenPass()
	secondPass, _ := session.TokenPass()
	if session.ApplyTokens(firstPass.Run(context.Background())) {
		t.Fatalf("expected superseded token pass to be discarded")
	}
	if !session.ApplyTokens(secondPass.Run(context.Background())) {
		t.Fatalf("expected current token pass to apply")
	}
	if total, known := session.TotalTokens(); !known || total != 8 {
		t.Fatalf("expected 8 tokens in total, got %d %t", total, known)
	}
	if _, issued := session.TokenPass(); issued {
		t.Fatalf("expected nothing left to count")
	}
}

func TestFolderNavigationKeepsCursorOnEntry(t *testing.T) {
	root := newNestedProject(t)
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	session := newTestSession(t, nil)
	session.add(t, root)
	// proj, sub, a.py, z.txt; empty is hidden
	session.MoveTo(1)
	session.EnterFolder()
	expanded := []string{
		root,
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "deep"),
		filepath.Join(root, "sub", "c.go"),
		filepath.Join(root, "a.py"),
		filepath.Join(root, "z.txt"),
	}
	if actual := session.rowPaths(); !reflect.DeepEqual(actual, expanded) {
		t.Fatalf("expected rows %v, got %v", expanded, actual)
	}
	if session.Cursor() != 2 {
		t.Fatalf("expected cursor on the first child, got %d", session.Cursor())
	}

	session.MoveTo(3)
	session.EnterFolder()
	if session.Cursor() != 3 {
		t.Fatalf("expected enter on a file to be a no-op")
	}
	session.LeaveFolder()
	if session.Cursor() != 1 {
		t.Fatalf("expected leave on a nested file to move to the parent, got %d", session.Cursor())
	}
	session.LeaveFolder()
	if session.Cursor() != 1 || len(session.Rows()) != 4 {
		t.Fatalf("expected leave on an expanded folder to collapse it in place")
	}

	session.MoveTo(3)
	if err := session.SetSetting(types.SettingHideEmptyFolders, false); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	view, _ := session.RowView(session.Cursor())
	if view.Path != filepath.Join(root, "z.txt") || session.Cursor() != 4 {
		t.Fatalf("expected cursor to follow z.txt to row 4, got %s at %d", view.Path, session.Cursor())
	}
}

func TestCollapseHidingCursorFallsBackToAncestor(t *testing.T) {
	root := newNestedProject(t)
	session := newTestSession(t, nil)
	session.add(t, root)
	session.MoveTo(1)
	session.EnterFolder()
	session.MoveTo(3)
	session.EnterVisual()
	session.MoveTo(4)

	session.MoveTo(0)
	session.ToggleFolder()
	if len(session.Rows()) != 1 || session.Cursor() != 0 {
		t.Fatalf("expected collapsed root with cursor on it")
	}
	if selected := session.Selection(); !reflect.DeepEqual(selected, []int{0}) {
		t.Fatalf("expected anchor to fall back to the root row, got %v", selected)
	}
}

func TestSetSettingPersistsAndRefilters(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	writeFixture(t, filepath.Join(root, "a.py"), "x\n")
	if err := os.WriteFile(filepath.Join(root, "b.png"), []byte{0x00}, 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
	session := newTestSession(t, nil)
	session.add(t, root)
	if len(session.Rows()) != 2 {
		t.Fatalf("expected binary file hidden, got %v", session.rowPaths())
	}
	if err := session.ToggleSetting(types.SettingTextOnly); err != nil {
		t.Fatalf("ToggleSetting: %v", err)
	}
	if len(session.Rows()) != 3 {
		t.Fatalf("expected binary file shown, got %v", session.rowPaths())
	}
	if len(session.store.saved) != 1 || session.store.saved[0].TextOnly {
		t.Fatalf("expected settings to be saved once with text_only off, got %v", session.store.saved)
	}
	if err := session.SetSetting("unknown", true); err == nil {
		t.Fatalf("expected an error for an unknown setting")
	}

	session.store.err = errors.New("disk full")
	if err := session.SetSetting(types.SettingShowTokenCount, false); err == nil {
		t.Fatalf("expected the save failure to be returned")
	}
	if session.Settings().ShowTokenCount || !session.Status().Warning {
		t.Fatalf("expected the setting applied and a warning shown")
	}
	view, _ := session.RowView(0)
	if view.TokenLabel != "" {
		t.Fatalf("expected no token label when counts are hidden, got %q", view.TokenLabel)
	}
}

func TestYankReportsPartialReads(t *testing.T) {
	root := newFlatProject(t)
	unreadable := filepath.Join(root, "f2.txt")
	reader := func(path string) ([]byte, error) {
		if path == unreadable {
			return nil, os.ErrPermission
		}
		return os.ReadFile(path)
	}
	session := newTestSession(t, reader)
	session.add(t, root)

	report := session.Yank()
	var partialError *types.PartialReadError
	if !errors.As(report.Err, &partialError) || len(partialError.Failures) != 1 {
		t.Fatalf("expected a partial read error, got %v", report.Err)
	}
	if len(report.Document.Files) != 3 || len(session.clipboard.copied) != 1 {
		t.Fatalf("expected the readable files to be copied")
	}
	if !session.Status().Warning {
		t.Fatalf("expected the partial failure to be surfaced")
	}
}

func TestYankAllAndClipboardFailure(t *testing.T) {
	session := newTestSession(t, nil)
	if report := session.Yank(); len(report.Document.Files) != 0 {
		t.Fatalf("expected nothing to copy from an empty list")
	}
	session.add(t, newNestedProject(t))
	report := session.YankAll()
	if len(report.Document.Files) != 4 {
		t.Fatalf("expected every visible file, got %v", report.Document.Files)
	}

	session.clipboard.err = errors.New("no display")
	report = session.YankAll()
	if report.Err == nil || !session.Status().Warning {
		t.Fatalf("expected the clipboard failure to be reported")
	}
}

func TestSearchRevealsNestedMatch(t *testing.T) {
	root := newNestedProject(t)
	session := newTestSession(t, nil)
	session.add(t, root)
	if !session.Search("deepd.md") {
		t.Fatalf("expected a match")
	}
	view, _ := session.RowView(session.Cursor())
	if view.Path != filepath.Join(root, "sub", "deep", "d.md") {
		t.Fatalf("expected cursor on d.md, got %s", view.Path)
	}
	if session.Search("qqq") {
		t.Fatalf("expected no match")
	}
}

func TestClearResetsSelection(t *testing.T) {
	session := newTestSession(t, nil)
	session.add(t, newFlatProject(t))
	session.MoveTo(3)
	session.EnterVisual()
	session.Clear()
	if session.Mode() != selection.Normal || session.Cursor() != 0 || len(session.Rows()) != 0 {
		t.Fatalf("expected initial state after clear")
	}
	session.MoveDown()
	session.EnterVisual()
	if session.Cursor() != 0 || session.Mode() != selection.Normal {
		t.Fatalf("expected an empty list to be inert")
	}
}
