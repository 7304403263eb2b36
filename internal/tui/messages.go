package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxdrop/internal/filetree"
	"github.com/temirov/ctxdrop/internal/services/watch"
	"github.com/temirov/ctxdrop/internal/workspace"
)

type scanFinishedMsg struct {
	result filetree.ScanResult
}

type tokensFinishedMsg struct {
	result workspace.TokenResult
}

type watchChangeMsg struct {
	change watch.Change
}

func scanCommand(ctx context.Context, request workspace.ScanRequest) tea.Cmd {
	return func() tea.Msg {
		return scanFinishedMsg{result: request.Run(ctx)}
	}
}

func tokenCommand(ctx context.Context, request workspace.TokenRequest) tea.Cmd {
	return func() tea.Msg {
		return tokensFinishedMsg{result: request.Run(ctx)}
	}
}

// waitForChange blocks until the watcher reports a change. It is re-issued
// after each change so at most one wait is outstanding.
func waitForChange(watcher *watch.Watcher) tea.Cmd {
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-watcher.Changes()
		if !ok {
			return nil
		}
		return watchChangeMsg{change: change}
	}
}
