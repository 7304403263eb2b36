package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/ctxdrop/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationHeader = "# ctxdrop configuration. Local files override global ones field by field.\n"

	initWorkingDirectoryFmt  = "determine working directory for configuration: %w"
	initHomeDirectoryFmt     = "resolve home directory for configuration: %w"
	initCreateDirectoryFmt   = "create configuration directory %s: %w"
	initUnsupportedTargetFmt = "unsupported init target %q"
	initAlreadyExistsFmt     = "configuration file already exists at %s"
	initInspectPathFmt       = "inspect configuration path %s: %w"
	initRenderFmt            = "render configuration template: %w"
	initWriteFmt             = "write configuration to %s: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

type templateDocument struct {
	Tokens   templateTokens   `yaml:"tokens"`
	Paths    templatePaths    `yaml:"paths"`
	Settings templateSettings `yaml:"settings"`
	Workers  int              `yaml:"workers"`
}

type templateTokens struct {
	Model string `yaml:"model"`
}

type templatePaths struct {
	Exclude      []string `yaml:"exclude"`
	UseGitignore bool     `yaml:"use_gitignore"`
	IncludeGit   bool     `yaml:"include_git"`
}

type templateSettings struct {
	Path string `yaml:"path"`
}

// RenderDefaultConfiguration returns the YAML document written by InitializeConfiguration.
func RenderDefaultConfiguration() ([]byte, error) {
	document := templateDocument{
		Tokens: templateTokens{Model: DefaultModel},
		Paths: templatePaths{
			Exclude:      []string{},
			UseGitignore: true,
			IncludeGit:   false,
		},
		Settings: templateSettings{Path: utils.DefaultSettingsPath()},
		Workers:  DefaultWorkers,
	}
	rendered, marshalError := yaml.Marshal(document)
	if marshalError != nil {
		return nil, fmt.Errorf(initRenderFmt, marshalError)
	}
	return append([]byte(configurationHeader), rendered...), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(initWorkingDirectoryFmt, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf(initHomeDirectoryFmt, err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf(initCreateDirectoryFmt, configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
	default:
		return "", fmt.Errorf(initUnsupportedTargetFmt, target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(initAlreadyExistsFmt, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(initInspectPathFmt, destinationPath, err)
	}

	content, renderError := RenderDefaultConfiguration()
	if renderError != nil {
		return "", renderError
	}
	if err := os.WriteFile(destinationPath, content, 0o600); err != nil {
		return "", fmt.Errorf(initWriteFmt, destinationPath, err)
	}

	return destinationPath, nil
}
