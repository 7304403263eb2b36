package types_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/temirov/ctxdrop/internal/types"
)

func TestSettingsWithAndValue(testingHandle *testing.T) {
	defaults := types.DefaultSettings()
	for _, key := range types.SettingKeys {
		original, valueError := defaults.Value(key)
		if valueError != nil {
			testingHandle.Fatalf("reading %s: %v", key, valueError)
		}
		updated, withError := defaults.With(key, !original)
		if withError != nil {
			testingHandle.Fatalf("updating %s: %v", key, withError)
		}
		flipped, _ := updated.Value(key)
		if flipped == original {
			testingHandle.Fatalf("expected %s to flip", key)
		}
	}
	if _, unknownError := defaults.With("font_size", true); unknownError == nil {
		testingHandle.Fatalf("expected error for unknown key")
	}
}

func TestDefaultSettings(testingHandle *testing.T) {
	defaults := types.DefaultSettings()
	if !defaults.TextOnly || !defaults.HideEmptyFolders || defaults.DarkMode || !defaults.ShowTokenCount {
		testingHandle.Fatalf("unexpected defaults %+v", defaults)
	}
}

func TestPartialReadErrorUnwrap(testingHandle *testing.T) {
	partial := &types.PartialReadError{Failures: []types.IOError{
		{Path: "/proj/a.py", Err: fs.ErrPermission},
		{Path: "/proj/b.py", Err: fs.ErrNotExist},
	}}
	var asError error = partial
	if !errors.Is(asError, fs.ErrNotExist) {
		testingHandle.Fatalf("expected errors.Is to reach a wrapped failure")
	}
	var ioError *types.IOError
	if !errors.As(asError, &ioError) || ioError.Path != "/proj/a.py" {
		testingHandle.Fatalf("expected first failure through errors.As, got %v", ioError)
	}
	expected := "2 file(s) could not be read: /proj/a.py; /proj/b.py"
	if partial.Error() != expected {
		testingHandle.Fatalf("expected %q, got %q", expected, partial.Error())
	}
}
