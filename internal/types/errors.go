package types

import (
	"fmt"
	"strings"
)

const (
	ioErrorFormat          = "read %s: %v"
	encodingErrorFormat    = "decode %s: %v"
	partialReadErrorFormat = "%d file(s) could not be read: %s"
	failureSeparator       = "; "
)

// IOError reports a path that could not be read, stat-ed or listed.
type IOError struct {
	Path string
	Err  error
}

func (ioError *IOError) Error() string {
	return fmt.Sprintf(ioErrorFormat, ioError.Path, ioError.Err)
}

func (ioError *IOError) Unwrap() error { return ioError.Err }

// EncodingError reports content that is not valid UTF-8 text.
type EncodingError struct {
	Path string
	Err  error
}

func (encodingError *EncodingError) Error() string {
	return fmt.Sprintf(encodingErrorFormat, encodingError.Path, encodingError.Err)
}

func (encodingError *EncodingError) Unwrap() error { return encodingError.Err }

// PartialReadError lists the files an export skipped. The document built from
// the remaining files is still valid.
type PartialReadError struct {
	Failures []IOError
}

func (partialError *PartialReadError) Error() string {
	paths := make([]string, 0, len(partialError.Failures))
	for _, failure := range partialError.Failures {
		paths = append(paths, failure.Path)
	}
	return fmt.Sprintf(partialReadErrorFormat, len(partialError.Failures), strings.Join(paths, failureSeparator))
}

// Unwrap exposes each failure to errors.Is and errors.As.
func (partialError *PartialReadError) Unwrap() []error {
	wrapped := make([]error, 0, len(partialError.Failures))
	for index := range partialError.Failures {
		wrapped = append(wrapped, &partialError.Failures[index])
	}
	return wrapped
}
