package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/types"
	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	settingsConfigType          = "json"
	settingsTemporaryPattern    = "settings-*.json"
	settingsDirectoryPermission = 0o755

	settingsReadWarning        = "settings file unreadable, using defaults"
	settingsDecodeWarning      = "settings file malformed, using defaults"
	createSettingsDirectoryFmt = "create settings directory %s: %w"
	createSettingsTemporaryFmt = "create temporary settings file in %s: %w"
	writeSettingsFmt           = "write settings to %s: %w"
	replaceSettingsFmt         = "replace settings file %s: %w"
)

// SettingsStore persists user settings as a JSON document.
type SettingsStore struct {
	path   string
	logger *zap.Logger
}

// NewSettingsStore returns a store bound to path. A nil logger discards diagnostics.
func NewSettingsStore(path string, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{path: path, logger: utils.LoggerOrNop(logger)}
}

// Path returns the settings file location.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads the settings file. A missing file yields the defaults; an
// unreadable or malformed one yields the defaults and logs a warning.
// Keys absent from the file keep their default values.
func (store *SettingsStore) Load() types.Settings {
	defaults := types.DefaultSettings()
	if _, statError := os.Stat(store.path); os.IsNotExist(statError) {
		return defaults
	}

	reader := newSettingsReader(defaults)
	reader.SetConfigFile(store.path)
	if readError := reader.ReadInConfig(); readError != nil {
		store.logger.Warn(settingsReadWarning, zap.String("path", store.path), zap.Error(readError))
		return defaults
	}
	var loaded types.Settings
	if decodeError := reader.Unmarshal(&loaded); decodeError != nil {
		store.logger.Warn(settingsDecodeWarning, zap.String("path", store.path), zap.Error(decodeError))
		return defaults
	}
	return loaded
}

// Save writes settings atomically: the document is written to a temporary
// file in the same directory and renamed over the previous file.
func (store *SettingsStore) Save(settings types.Settings) error {
	directory := filepath.Dir(store.path)
	if mkdirError := os.MkdirAll(directory, settingsDirectoryPermission); mkdirError != nil {
		return fmt.Errorf(createSettingsDirectoryFmt, directory, mkdirError)
	}
	temporaryFile, createError := os.CreateTemp(directory, settingsTemporaryPattern)
	if createError != nil {
		return fmt.Errorf(createSettingsTemporaryFmt, directory, createError)
	}
	temporaryPath := temporaryFile.Name()
	_ = temporaryFile.Close()
	defer func() {
		_ = os.Remove(temporaryPath)
	}()

	writer := newSettingsReader(settings)
	if writeError := writer.WriteConfigAs(temporaryPath); writeError != nil {
		return fmt.Errorf(writeSettingsFmt, temporaryPath, writeError)
	}
	if renameError := os.Rename(temporaryPath, store.path); renameError != nil {
		return fmt.Errorf(replaceSettingsFmt, store.path, renameError)
	}
	return nil
}

func newSettingsReader(values types.Settings) *viper.Viper {
	reader := viper.New()
	reader.SetConfigType(settingsConfigType)
	reader.SetDefault(types.SettingTextOnly, values.TextOnly)
	reader.SetDefault(types.SettingHideEmptyFolders, values.HideEmptyFolders)
	reader.SetDefault(types.SettingDarkMode, values.DarkMode)
	reader.SetDefault(types.SettingShowTokenCount, values.ShowTokenCount)
	return reader
}
