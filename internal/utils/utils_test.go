package utils_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/ctxdrop/internal/utils"
)

// textFileName defines the name of the text file used in tests.
const textFileName = "sample.txt"

// binaryFileName defines the name of the binary file used in tests.
const binaryFileName = "sample.bin"

// binaryBase64Content holds the base64 representation of the binary file content.
const binaryBase64Content = "AAE="

// nestedDirectoryName defines the directory used for nested path tests.
const nestedDirectoryName = "subdir"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    []string
		expected []string
	}{
		{
			testName: "no duplicates",
			input:    []string{"*.log", "build/"},
			expected: []string{"*.log", "build/"},
		},
		{
			testName: "duplicates keep first occurrence",
			input:    []string{"build/", "*.log", "build/", "!keep.log", "*.log"},
			expected: []string{"build/", "*.log", "!keep.log"},
		},
		{
			testName: "empty input",
			input:    []string{},
			expected: []string{},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.input)
		if len(actual) != len(testCase.expected) {
			testingInstance.Fatalf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
		}
		for patternIndex := range actual {
			if actual[patternIndex] != testCase.expected[patternIndex] {
				testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
			}
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	subPath := filepath.Join(temporaryRoot, textFileName)
	outsidePath := filepath.Join(filepath.Dir(temporaryRoot), "elsewhere.txt")
	testCases := []struct {
		testName string
		fullPath string
		root     string
		expected string
	}{
		{
			testName: "root path returns dot",
			fullPath: temporaryRoot,
			root:     temporaryRoot,
			expected: ".",
		},
		{
			testName: "sub path returns relative",
			fullPath: subPath,
			root:     temporaryRoot,
			expected: textFileName,
		},
		{
			testName: "path outside root returns itself",
			fullPath: outsidePath,
			root:     temporaryRoot,
			expected: outsidePath,
		},
	}
	for index, testCase := range testCases {
		actual := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestSlashRelativePath verifies forward slash separators in relative paths.
func TestSlashRelativePath(testingInstance *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work")
	fullPath := filepath.Join(base, "proj", nestedDirectoryName, textFileName)
	actual := utils.SlashRelativePath(fullPath, base)
	expected := "proj/" + nestedDirectoryName + "/" + textFileName
	if actual != expected {
		testingInstance.Fatalf("expected %s, got %s", expected, actual)
	}
}

// TestIsWithin verifies ancestor detection.
func TestIsWithin(testingInstance *testing.T) {
	parent := filepath.Join(string(filepath.Separator), "work", "proj")
	testCases := []struct {
		testName  string
		candidate string
		expected  bool
	}{
		{testName: "same path", candidate: parent, expected: true},
		{testName: "nested path", candidate: filepath.Join(parent, nestedDirectoryName), expected: true},
		{testName: "sibling with shared prefix", candidate: parent + "ect", expected: false},
		{testName: "parent of parent", candidate: filepath.Dir(parent), expected: false},
	}
	for index, testCase := range testCases {
		actual := utils.IsWithin(testCase.candidate, parent)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestIsBinary verifies detection of binary data in byte slices.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{
			testName: "utf8 text",
			data:     []byte("hello"),
			expected: false,
		},
		{
			testName: "null byte",
			data:     []byte{0x00, 0x01},
			expected: true,
		},
		{
			testName: "invalid utf8",
			data:     []byte{0xff},
			expected: true,
		},
		{
			testName: "empty slice",
			data:     []byte{},
			expected: false,
		},
		{
			testName: "latin1 accent",
			data:     []byte{0x63, 0x61, 0x66, 0xe9},
			expected: true,
		},
		{
			testName: "unfinished multibyte rune",
			data:     append([]byte("naïve "), 0xe2, 0x82),
			expected: true,
		},
	}
	for index, testCase := range testCases {
		actual := utils.IsBinary(testCase.data)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestSniffFile verifies binary file detection and error reporting.
func TestSniffFile(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	textPath := filepath.Join(temporaryRoot, textFileName)
	binaryPath := filepath.Join(temporaryRoot, binaryFileName)
	textWriteError := os.WriteFile(textPath, []byte("hello"), 0600)
	if textWriteError != nil {
		testingInstance.Fatalf("writing text file: %v", textWriteError)
	}
	binaryBytes, decodeError := base64.StdEncoding.DecodeString(binaryBase64Content)
	if decodeError != nil {
		testingInstance.Fatalf("decoding base64: %v", decodeError)
	}
	binaryWriteError := os.WriteFile(binaryPath, binaryBytes, 0600)
	if binaryWriteError != nil {
		testingInstance.Fatalf("writing binary file: %v", binaryWriteError)
	}
	windowCutPath := filepath.Join(temporaryRoot, "window.txt")
	windowCutContent := append(bytes.Repeat([]byte("a"), utils.SniffLength-2), []byte("€ tail")...)
	if writeError := os.WriteFile(windowCutPath, windowCutContent, 0600); writeError != nil {
		testingInstance.Fatalf("writing window file: %v", writeError)
	}
	shortLatinPath := filepath.Join(temporaryRoot, "latin1.txt")
	if writeError := os.WriteFile(shortLatinPath, []byte{0x63, 0x61, 0x66, 0xe9}, 0600); writeError != nil {
		testingInstance.Fatalf("writing latin1 file: %v", writeError)
	}
	testCases := []struct {
		testName      string
		path          string
		expected      bool
		expectedError bool
	}{
		{
			testName: "text file",
			path:     textPath,
			expected: false,
		},
		{
			testName: "multibyte rune cut at window end",
			path:     windowCutPath,
			expected: false,
		},
		{
			testName: "short file ending in latin1 byte",
			path:     shortLatinPath,
			expected: true,
		},
		{
			testName: "binary file",
			path:     binaryPath,
			expected: true,
		},
		{
			testName:      "missing file",
			path:          filepath.Join(temporaryRoot, "missing.txt"),
			expectedError: true,
		},
	}
	for index, testCase := range testCases {
		actual, sniffError := utils.SniffFile(testCase.path)
		if (sniffError != nil) != testCase.expectedError {
			testingInstance.Fatalf("case %d (%s): unexpected error state %v", index, testCase.testName, sniffError)
		}
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestLoggerOrNop verifies nil loggers are replaced.
func TestLoggerOrNop(testingInstance *testing.T) {
	if utils.LoggerOrNop(nil) == nil {
		testingInstance.Fatalf("expected a logger for nil input")
	}
}

// TestNewFileLogger verifies the log file and its directory are created.
func TestNewFileLogger(testingInstance *testing.T) {
	logPath := filepath.Join(testingInstance.TempDir(), "logs", "ctxdrop.log")
	logger, loggerError := utils.NewFileLogger(logPath)
	if loggerError != nil {
		testingInstance.Fatalf("creating logger: %v", loggerError)
	}
	logger.Info("scan finished")
	_ = logger.Sync()
	content, readError := os.ReadFile(logPath)
	if readError != nil {
		testingInstance.Fatalf("reading log: %v", readError)
	}
	if len(content) == 0 {
		testingInstance.Fatalf("expected log content")
	}
}
