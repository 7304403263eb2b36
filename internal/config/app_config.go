package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/ctxdrop/internal/utils"
)

const (
	// DefaultModel is the tokenizer model used when none is configured.
	DefaultModel = "gpt-4o"
	// DefaultWorkers is the token counting parallelism used when none is configured.
	DefaultWorkers = 4

	determineWorkingDirectoryFmt = "determine working directory: %w"
	resolveConfigurationPathFmt  = "resolve configuration path %s: %w"
	statConfigurationFmt         = "stat configuration %s: %w"
	configurationIsDirectoryFmt  = "configuration path %s is a directory"
	readConfigurationFmt         = "read configuration from %s: %w"
	decodeConfigurationFmt       = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the values read from the configuration files.
// Unset optional values are nil so a local file can override a global one field by field.
type ApplicationConfiguration struct {
	Tokens   TokenConfiguration    `mapstructure:"tokens"`
	Paths    PathConfiguration     `mapstructure:"paths"`
	Settings SettingsConfiguration `mapstructure:"settings"`
	Workers  *int                  `mapstructure:"workers"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// PathConfiguration configures exclusion rules for scanning.
type PathConfiguration struct {
	Exclude      []string `mapstructure:"exclude"`
	UseGitignore *bool    `mapstructure:"use_gitignore"`
	IncludeGit   *bool    `mapstructure:"include_git"`
}

// SettingsConfiguration locates the user settings file.
type SettingsConfiguration struct {
	Path string `mapstructure:"path"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(determineWorkingDirectoryFmt, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged.Paths.Exclude = utils.DeduplicatePatterns(merged.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	expandedPath := utils.ExpandHomePath(explicitPath)
	if filepath.IsAbs(expandedPath) {
		return expandedPath, nil
	}
	absolute, err := filepath.Abs(filepath.Join(workingDirectory, expandedPath))
	if err != nil {
		return "", fmt.Errorf(resolveConfigurationPathFmt, explicitPath, err)
	}
	return absolute, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(statConfigurationFmt, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(configurationIsDirectoryFmt, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(readConfigurationFmt, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(decodeConfigurationFmt, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	result.Paths = result.Paths.merge(override.Paths)
	if override.Settings.Path != "" {
		result.Settings.Path = override.Settings.Path
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

// Model returns the configured tokenizer model or DefaultModel.
func (config ApplicationConfiguration) Model() string {
	if config.Tokens.Model == "" {
		return DefaultModel
	}
	return config.Tokens.Model
}

// WorkerCount returns the configured counting parallelism, at least one.
func (config ApplicationConfiguration) WorkerCount() int {
	if config.Workers == nil {
		return DefaultWorkers
	}
	if *config.Workers < 1 {
		return 1
	}
	return *config.Workers
}

// UseGitignore reports whether .gitignore files are honored. Defaults to true.
func (config ApplicationConfiguration) UseGitignore() bool {
	return boolOrDefault(config.Paths.UseGitignore, true)
}

// IncludeGit reports whether the .git directory is listed. Defaults to false.
func (config ApplicationConfiguration) IncludeGit() bool {
	return boolOrDefault(config.Paths.IncludeGit, false)
}

// SettingsPath returns the settings file location, expanding a leading "~".
func (config ApplicationConfiguration) SettingsPath() string {
	if config.Settings.Path == "" {
		return utils.DefaultSettingsPath()
	}
	return utils.ExpandHomePath(config.Settings.Path)
}

func boolOrDefault(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
