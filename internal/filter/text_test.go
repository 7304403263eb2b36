package filter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsTextFile(t *testing.T) {
	directory := t.TempDir()
	files := map[string][]byte{
		"main.go":     []byte("package main\n"),
		"logo.png":    []byte("not really an image"),
		"README":      []byte("plain words\n"),
		"blob":        {0x89, 0x00, 0x01},
		"empty":       {},
		"latin1.data": {0x63, 0x61, 0x66, 0xe9},
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(directory, name), content, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	testCases := []struct {
		name          string
		fileName      string
		expectText    bool
		expectFailure bool
	}{
		{name: "allow_listed_extension", fileName: "main.go", expectText: true},
		{name: "deny_listed_extension", fileName: "logo.png", expectText: false},
		{name: "sniffed_text", fileName: "README", expectText: true},
		{name: "sniffed_nul_byte", fileName: "blob", expectText: false},
		{name: "empty_file_is_text", fileName: "empty", expectText: true},
		{name: "invalid_utf8_is_binary", fileName: "latin1.data", expectText: false},
		{name: "unreadable_file", fileName: "missing.bin2", expectText: false, expectFailure: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			isText, err := IsTextFile(filepath.Join(directory, testCase.fileName))
			if (err != nil) != testCase.expectFailure {
				t.Fatalf("unexpected error state: %v", err)
			}
			if isText != testCase.expectText {
				t.Fatalf("expected text=%t, got %t", testCase.expectText, isText)
			}
		})
	}
}
