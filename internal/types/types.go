// Package types defines the cross-package data structures used by ctxdrop.
package types

import "fmt"

// EntryKind distinguishes files from folders in the file tree.
type EntryKind int

const (
	// KindFile marks a regular file entry.
	KindFile EntryKind = iota
	// KindFolder marks a directory entry.
	KindFolder
)

const (
	kindFileLabel   = "file"
	kindFolderLabel = "folder"
)

// String returns the display label of the kind.
func (kind EntryKind) String() string {
	if kind == KindFolder {
		return kindFolderLabel
	}
	return kindFileLabel
}

// Setting keys as persisted in the settings file.
const (
	SettingTextOnly         = "text_only"
	SettingHideEmptyFolders = "hide_empty_folders"
	SettingDarkMode         = "dark_mode"
	SettingShowTokenCount   = "show_token_count"
)

// SettingKeys lists every setting in panel display order.
var SettingKeys = []string{
	SettingTextOnly,
	SettingHideEmptyFolders,
	SettingDarkMode,
	SettingShowTokenCount,
}

const unknownSettingErrorFormat = "unknown setting %q"

// Settings holds the user preferences that shape visibility and display.
type Settings struct {
	TextOnly         bool `json:"text_only" mapstructure:"text_only"`
	HideEmptyFolders bool `json:"hide_empty_folders" mapstructure:"hide_empty_folders"`
	DarkMode         bool `json:"dark_mode" mapstructure:"dark_mode"`
	ShowTokenCount   bool `json:"show_token_count" mapstructure:"show_token_count"`
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		TextOnly:         true,
		HideEmptyFolders: true,
		DarkMode:         false,
		ShowTokenCount:   true,
	}
}

// Value returns the value stored under key.
func (settings Settings) Value(key string) (bool, error) {
	switch key {
	case SettingTextOnly:
		return settings.TextOnly, nil
	case SettingHideEmptyFolders:
		return settings.HideEmptyFolders, nil
	case SettingDarkMode:
		return settings.DarkMode, nil
	case SettingShowTokenCount:
		return settings.ShowTokenCount, nil
	default:
		return false, fmt.Errorf(unknownSettingErrorFormat, key)
	}
}

// With returns a copy of settings with key set to value.
func (settings Settings) With(key string, value bool) (Settings, error) {
	switch key {
	case SettingTextOnly:
		settings.TextOnly = value
	case SettingHideEmptyFolders:
		settings.HideEmptyFolders = value
	case SettingDarkMode:
		settings.DarkMode = value
	case SettingShowTokenCount:
		settings.ShowTokenCount = value
	default:
		return settings, fmt.Errorf(unknownSettingErrorFormat, key)
	}
	return settings, nil
}
