package workspace

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/export"
	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

// YankReport describes one export.
type YankReport struct {
	Document    export.Document
	Tokens      int
	TokensKnown bool
	// Copied reports that the clipboard accepted the document.
	Copied bool
	// Err is a *types.PartialReadError when some files were skipped, or the clipboard failure.
	Err error
}

// Yank exports the files under the cursor or the selection, copies the
// document to the clipboard and returns to Normal mode.
func (session *Session) Yank() YankReport {
	ids, _ := session.targetIDs()
	session.machine.Finish()
	return session.export(ids)
}

// YankAll exports every visible file.
func (session *Session) YankAll() YankReport {
	session.machine.Finish()
	return session.export(session.tree.Roots())
}

func (session *Session) export(ids []int) YankReport {
	fileIDs := session.tree.CollectFiles(ids, session.visibility)
	if len(fileIDs) == 0 {
		session.inform(statusNothingToCopy)
		return YankReport{}
	}
	files := make([]export.File, 0, len(fileIDs))
	for _, id := range fileIDs {
		entry, _ := session.tree.Entry(id)
		files = append(files, export.File{Root: session.tree.Path(entry.Root), Path: entry.Path})
	}

	document, buildError := session.formatter.Build(files)
	report := YankReport{Document: document, Err: buildError}
	if buildError != nil {
		session.logger.Warn(logMessageExportFailure, zap.Error(buildError))
	}
	if len(document.Files) == 0 {
		session.warn(buildError.Error())
		return report
	}
	if session.cache != nil {
		if tokens, countError := session.cache.Counter().CountString(document.Text); countError == nil {
			report.Tokens = tokens
			report.TokensKnown = true
		}
	}
	if session.copier != nil {
		if copyError := session.copier.Copy(document.Text); copyError != nil {
			report.Err = errors.Join(buildError, copyError)
			session.warn(fmt.Sprintf(statusClipboardErrorFormat, copyError))
			return report
		}
		report.Copied = true
	}

	tokenLabel := utils.UnknownTokenLabel
	if report.TokensKnown {
		tokenLabel = utils.FormatTokenCount(report.Tokens)
	}
	var partialError *types.PartialReadError
	if errors.As(buildError, &partialError) {
		session.warn(fmt.Sprintf(statusCopiedPartialFormat, len(document.Files), tokenLabel, partialError))
		return report
	}
	session.inform(fmt.Sprintf(statusCopiedFormat, len(document.Files), tokenLabel))
	return report
}

func formatRemoved(count int) string {
	return fmt.Sprintf(statusRemovedFormat, count)
}
