package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
	"github.com/temirov/ctxdrop/internal/workspace"
)

const (
	headerLines = 2
	footerLines = 2

	indentUnit        = "  "
	expandedMarker    = "▾ "
	collapsedMarker   = "▸ "
	fileMarker        = "  "
	cursorMarker      = "> "
	noCursorMarker    = "  "
	folderSuffix      = "/"
	warningMarker     = " !"
	checkedBox        = "[x] "
	uncheckedBox      = "[ ] "
	emptyListMessage  = "Drop files or folders here, or press a to add a path."
	settingsTitle     = "Settings"
	summaryFormat     = "%d root(s) · %d row(s) · %s tokens"
	selectedFormat    = " · %d selected"
	titleSeparator    = "  "
	defaultLineWidth  = 80
	minimumGapBetween = 1
)

var settingLabels = map[string]string{
	types.SettingTextOnly:         "Text files only",
	types.SettingHideEmptyFolders: "Hide empty folders",
	types.SettingDarkMode:         "Dark mode",
	types.SettingShowTokenCount:   "Show token counts",
}

// View renders the whole screen.
func (model *Model) View() string {
	if model.quitting {
		return ""
	}
	sections := []string{model.headerView(), ""}
	if model.settingsOpen {
		sections = append(sections, model.settingsView())
	} else {
		sections = append(sections, model.listView())
	}
	sections = append(sections, "", model.statusView(), model.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model *Model) headerView() string {
	session := model.session
	total, known := session.TotalTokens()
	tokenLabel := utils.UnknownTokenLabel
	if known {
		tokenLabel = utils.FormatTokenCount(total)
	}
	summary := fmt.Sprintf(summaryFormat, len(session.Tree().Roots()), len(session.Rows()), tokenLabel)
	if selected := len(session.Selection()); selected > 0 {
		summary += fmt.Sprintf(selectedFormat, selected)
	}
	return model.theme.Title.Render(utils.ApplicationName) + titleSeparator +
		model.theme.Mode.Render(session.Mode().String()) + titleSeparator +
		model.theme.Summary.Render(summary)
}

func (model *Model) listView() string {
	rows := model.session.Rows()
	if len(rows) == 0 {
		return model.theme.Empty.Render(emptyListMessage)
	}
	height := model.listHeight()
	last := model.offset + height
	if last > len(rows) {
		last = len(rows)
	}
	lines := make([]string, 0, last-model.offset)
	for index := model.offset; index < last; index++ {
		view, found := model.session.RowView(index)
		if !found {
			continue
		}
		lines = append(lines, model.renderRow(view))
	}
	return strings.Join(lines, "\n")
}

func (model *Model) lineWidth() int {
	if model.width > 0 {
		return model.width
	}
	return defaultLineWidth
}

func (model *Model) renderRow(view workspace.RowView) string {
	var builder strings.Builder
	if view.Cursor {
		builder.WriteString(cursorMarker)
	} else {
		builder.WriteString(noCursorMarker)
	}
	builder.WriteString(strings.Repeat(indentUnit, view.Depth))

	nameStyle := model.theme.File
	switch {
	case view.Kind == types.KindFolder && view.Expanded:
		builder.WriteString(expandedMarker)
		nameStyle = model.theme.Folder
	case view.Kind == types.KindFolder:
		builder.WriteString(collapsedMarker)
		nameStyle = model.theme.Folder
	default:
		builder.WriteString(fileMarker)
		if !view.Text {
			nameStyle = model.theme.Binary
		}
	}
	name := view.Name
	if view.Kind == types.KindFolder {
		name += folderSuffix
	}
	builder.WriteString(nameStyle.Render(name))
	if view.Warning != "" {
		builder.WriteString(model.theme.Warning.Render(warningMarker))
	}

	line := builder.String()
	if view.TokenLabel != "" {
		gap := model.lineWidth() - lipgloss.Width(line) - lipgloss.Width(view.TokenLabel)
		if gap < minimumGapBetween {
			gap = minimumGapBetween
		}
		line += strings.Repeat(" ", gap) + model.theme.Tokens.Render(view.TokenLabel)
	}

	switch {
	case view.Selected:
		return model.theme.Selected.Width(model.lineWidth()).Render(line)
	case view.Cursor:
		return model.theme.Cursor.Width(model.lineWidth()).Render(line)
	default:
		return line
	}
}

func (model *Model) settingsView() string {
	settings := model.session.Settings()
	lines := []string{model.theme.Title.Render(settingsTitle)}
	for index, settingKey := range types.SettingKeys {
		value, _ := settings.Value(settingKey)
		marker := noCursorMarker
		if index == model.settingsCursor {
			marker = cursorMarker
		}
		box := uncheckedBox
		if value {
			box = checkedBox
		}
		lines = append(lines, marker+box+settingLabels[settingKey])
	}
	return model.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (model *Model) statusView() string {
	status := model.session.Status()
	text := status.Text
	if model.session.Busy() {
		text = strings.TrimSpace(model.spinner.View() + " " + text)
	}
	if status.Warning {
		return model.theme.Warning.Render(text)
	}
	return model.theme.Status.Render(text)
}

func (model *Model) footerView() string {
	if model.prompt != promptNone {
		return model.theme.Prompt.Render(model.input.View())
	}
	if model.settingsOpen {
		return model.help.View(model.settingsKeys)
	}
	return model.help.View(model.keys)
}
