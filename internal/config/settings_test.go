package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/ctxdrop/internal/types"
)

func TestSettingsStoreLoadMissingReturnsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"), nil)
	if store.Load() != types.DefaultSettings() {
		t.Fatalf("expected defaults for missing file")
	}
}

func TestSettingsStoreLoadMalformedReturnsDefaults(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "invalid_json", content: "{text_only: "},
		{name: "wrong_value_type", content: `{"text_only": "maybe"}`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if err := os.WriteFile(path, []byte(testCase.content), 0o600); err != nil {
				t.Fatalf("write settings: %v", err)
			}
			if NewSettingsStore(path, nil).Load() != types.DefaultSettings() {
				t.Fatalf("expected defaults for malformed file")
			}
		})
	}
}

func TestSettingsStoreLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"dark_mode": true}`), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	loaded := NewSettingsStore(path, nil).Load()
	expected := types.DefaultSettings()
	expected.DarkMode = true
	if loaded != expected {
		t.Fatalf("expected %+v, got %+v", expected, loaded)
	}
}

func TestSettingsStoreSaveRoundTrips(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(directory, "settings.json")
	store := NewSettingsStore(path, nil)
	saved := types.Settings{TextOnly: false, HideEmptyFolders: true, DarkMode: true, ShowTokenCount: false}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if loaded := store.Load(); loaded != saved {
		t.Fatalf("expected %+v, got %+v", saved, loaded)
	}
	entries, readErr := os.ReadDir(directory)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the settings file to remain, got %d entries", len(entries))
	}
}
