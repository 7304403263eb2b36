package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/ctxdrop/internal/utils"
)

type configTestCase struct {
	name             string
	globalContent    string
	localContent     string
	explicitPath     string
	expectModel      string
	expectWorkers    int
	expectGitignore  bool
	expectIncludeGit bool
	expectExclude    []string
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:             "defaults_without_files",
			expectModel:      DefaultModel,
			expectWorkers:    DefaultWorkers,
			expectGitignore:  true,
			expectIncludeGit: false,
		},
		{
			name:             "local_overrides_global",
			globalContent:    "tokens:\n  model: gpt-3.5-turbo\nworkers: 2\npaths:\n  use_gitignore: false\n  exclude:\n    - dist/\n",
			localContent:     "tokens:\n  model: custom\npaths:\n  include_git: true\n",
			expectModel:      "custom",
			expectWorkers:    2,
			expectGitignore:  false,
			expectIncludeGit: true,
			expectExclude:    []string{"dist/"},
		},
		{
			name:             "explicit_path_replaces_local",
			localContent:     "tokens:\n  model: ignored\n",
			explicitPath:     "custom.yaml",
			expectModel:      "gpt-4",
			expectWorkers:    1,
			expectGitignore:  true,
			expectIncludeGit: false,
			expectExclude:    []string{"*.log", "tmp/"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)
			workingDirectory := t.TempDir()

			if testCase.globalContent != "" {
				globalDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
				if err := os.MkdirAll(globalDirectory, 0o755); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
				if err := os.WriteFile(filepath.Join(globalDirectory, utils.GlobalConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global: %v", err)
				}
			}
			if testCase.localContent != "" {
				if err := os.WriteFile(filepath.Join(workingDirectory, utils.LocalConfigFileName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				explicitContent := "tokens:\n  model: gpt-4\nworkers: 0\npaths:\n  exclude:\n    - '*.log'\n    - tmp/\n    - '*.log'\n"
				if err := os.WriteFile(filepath.Join(workingDirectory, testCase.explicitPath), []byte(explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit: %v", err)
				}
			}

			configuration, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: testCase.explicitPath})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if configuration.Model() != testCase.expectModel {
				t.Fatalf("expected model %s, got %s", testCase.expectModel, configuration.Model())
			}
			if configuration.WorkerCount() != testCase.expectWorkers {
				t.Fatalf("expected %d workers, got %d", testCase.expectWorkers, configuration.WorkerCount())
			}
			if configuration.UseGitignore() != testCase.expectGitignore {
				t.Fatalf("expected use_gitignore %t", testCase.expectGitignore)
			}
			if configuration.IncludeGit() != testCase.expectIncludeGit {
				t.Fatalf("expected include_git %t", testCase.expectIncludeGit)
			}
			if len(configuration.Paths.Exclude) != len(testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, configuration.Paths.Exclude)
			}
			for index, pattern := range testCase.expectExclude {
				if configuration.Paths.Exclude[index] != pattern {
					t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, configuration.Paths.Exclude)
				}
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDirectory, utils.LocalConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory}); err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestSettingsPathDefaultsAndExpands(t *testing.T) {
	var configuration ApplicationConfiguration
	if configuration.SettingsPath() != utils.DefaultSettingsPath() {
		t.Fatalf("expected default settings path, got %s", configuration.SettingsPath())
	}
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	configuration.Settings.Path = "~/prefs/settings.json"
	expected := filepath.Join(homeDirectory, "prefs", "settings.json")
	if configuration.SettingsPath() != expected {
		t.Fatalf("expected %s, got %s", expected, configuration.SettingsPath())
	}
}
