package utils

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// SniffLength defines the maximum number of bytes read when detecting binary content.
const SniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// A slice is treated as text when it contains no NUL byte and is valid UTF-8.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}

// trimIncompleteRune drops up to three trailing bytes that start an unfinished UTF-8 sequence.
func trimIncompleteRune(data []byte) []byte {
	for trimmed := 1; trimmed < utf8.UTFMax && trimmed <= len(data); trimmed++ {
		candidate := data[len(data)-trimmed]
		if utf8.RuneStart(candidate) {
			if !utf8.FullRune(data[len(data)-trimmed:]) {
				return data[:len(data)-trimmed]
			}
			return data
		}
	}
	return data
}

// SniffFile reads up to SniffLength bytes from the file at path and reports
// whether the content appears to be binary. When the file fills the whole window a
// trailing multi-byte sequence cut off at the boundary is tolerated.
// Read failures are returned to the caller.
func SniffFile(path string) (bool, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, SniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return false, readError
	}
	sniffed := buffer[:bytesRead]
	if bytesRead == SniffLength {
		sniffed = trimIncompleteRune(sniffed)
	}
	return IsBinary(sniffed), nil
}
