package tokenizer

import (
	"bytes"
	"errors"
	"os"
	"unicode/utf8"

	"github.com/temirov/ctxdrop/internal/types"
)

var (
	// ErrBinaryContent reports content containing NUL bytes.
	ErrBinaryContent = errors.New("binary content")
	// ErrInvalidEncoding reports content that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 content")

	errNilCounter = errors.New("nil tokenizer counter")
)

// CountBytes estimates tokens for the provided data using counter.
// Binary or non-UTF-8 data is rejected with ErrBinaryContent or ErrInvalidEncoding.
func CountBytes(counter Counter, data []byte) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if len(data) == 0 {
		return counter.CountString("")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return 0, ErrBinaryContent
	}
	if !utf8.Valid(data) {
		return 0, ErrInvalidEncoding
	}
	return counter.CountString(string(data))
}

// CountFile reads the file at path and estimates its token count.
// Read failures are reported as *types.IOError and undecodable content as
// *types.EncodingError.
func CountFile(counter Counter, path string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return 0, &types.IOError{Path: path, Err: readErr}
	}
	tokens, countErr := CountBytes(counter, data)
	if errors.Is(countErr, ErrBinaryContent) || errors.Is(countErr, ErrInvalidEncoding) {
		return 0, &types.EncodingError{Path: path, Err: countErr}
	}
	return tokens, countErr
}
