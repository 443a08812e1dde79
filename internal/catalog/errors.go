// Package catalog loads the reference and asset catalogs, annotates assets
// with reference descriptions, and writes the merged asset catalog.
package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind represents the type of catalog error.
type ErrorKind string

const (
	MissingInput      ErrorKind = "MISSING_INPUT"
	MalformedDocument ErrorKind = "MALFORMED_DOCUMENT"
	WriteFailed       ErrorKind = "WRITE_FAILED"
)

// Error represents a fatal error while reading or writing a catalog document.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case MissingInput:
		return fmt.Sprintf("input document not found: %s: %v", e.Path, e.Err)
	case MalformedDocument:
		return fmt.Sprintf("malformed document %s: %v", e.Path, e.Err)
	case WriteFailed:
		return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("catalog error: %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a catalog *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var catErr *Error
	if !errors.As(err, &catErr) {
		return false
	}
	return catErr.Kind == kind
}
