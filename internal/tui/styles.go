package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	foreground lipgloss.Color
	muted      lipgloss.Color
	accent     lipgloss.Color
	folder     lipgloss.Color
	selection  lipgloss.Color
	cursor     lipgloss.Color
	warning    lipgloss.Color
	success    lipgloss.Color
}

var (
	lightPalette = palette{
		foreground: lipgloss.Color("#1F2328"),
		muted:      lipgloss.Color("#6E7781"),
		accent:     lipgloss.Color("#5A3FD9"),
		folder:     lipgloss.Color("#0550AE"),
		selection:  lipgloss.Color("#DDF4FF"),
		cursor:     lipgloss.Color("#EAEEF2"),
		warning:    lipgloss.Color("#BC4C00"),
		success:    lipgloss.Color("#1A7F37"),
	}
	darkPalette = palette{
		foreground: lipgloss.Color("#E6EDF3"),
		muted:      lipgloss.Color("#7D8590"),
		accent:     lipgloss.Color("#7B61FF"),
		folder:     lipgloss.Color("#79C0FF"),
		selection:  lipgloss.Color("#1F3A5F"),
		cursor:     lipgloss.Color("#30363D"),
		warning:    lipgloss.Color("#F0883E"),
		success:    lipgloss.Color("#73F59F"),
	}
)

// theme holds the rendered styles for one palette.
type theme struct {
	Title    lipgloss.Style
	Mode     lipgloss.Style
	Summary  lipgloss.Style
	File     lipgloss.Style
	Binary   lipgloss.Style
	Folder   lipgloss.Style
	Tokens   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Warning  lipgloss.Style
	Status   lipgloss.Style
	Empty    lipgloss.Style
	Panel    lipgloss.Style
	Prompt   lipgloss.Style
}

func newTheme(dark bool) theme {
	colors := lightPalette
	if dark {
		colors = darkPalette
	}
	return theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colors.accent),
		Mode:     lipgloss.NewStyle().Bold(true).Foreground(colors.success),
		Summary:  lipgloss.NewStyle().Foreground(colors.muted),
		File:     lipgloss.NewStyle().Foreground(colors.foreground),
		Binary:   lipgloss.NewStyle().Foreground(colors.muted),
		Folder:   lipgloss.NewStyle().Bold(true).Foreground(colors.folder),
		Tokens:   lipgloss.NewStyle().Foreground(colors.muted),
		Cursor:   lipgloss.NewStyle().Background(colors.cursor),
		Selected: lipgloss.NewStyle().Background(colors.selection),
		Warning:  lipgloss.NewStyle().Foreground(colors.warning),
		Status:   lipgloss.NewStyle().Foreground(colors.success),
		Empty:    lipgloss.NewStyle().Italic(true).Foreground(colors.muted).Padding(1, 2),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colors.accent).Padding(0, 1),
		Prompt:   lipgloss.NewStyle().Foreground(colors.accent),
	}
}
