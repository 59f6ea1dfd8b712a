// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigShape is the sentinel wrapped by ConfigShapeError.
	ErrConfigShape = errors.New("config shape error")
	// ErrDuplicateKey is the sentinel wrapped by DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnsupportedFormat is returned for file names with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported command document format")
)

type (
	// ConfigShapeError reports a document value that cannot be turned into a node.
	ConfigShapeError struct {
		// Document is the path of the offending file.
		Document string
		// Path is the key path of the offending node.
		Path []string
		// Reason describes what was expected.
		Reason string
		// Cause is the decoder error when the document is not valid syntax.
		Cause error
	}

	// DuplicateKeyError reports two children of one group sharing a key or alias
	// within a single document.
	DuplicateKeyError struct {
		Document string
		// Path is the key path of the group holding the duplicate.
		Path []string
		// Key is the duplicated key or alias.
		Key string
		// Owners are the canonical keys of the two children claiming Key.
		Owners [2]string
	}
)

// Error implements the error interface.
func (e *ConfigShapeError) Error() string {
	return fmt.Sprintf("config shape error: %s: at %s: %s", e.Document, FormatKeyPath(e.Path), e.Reason)
}

// Unwrap returns ErrConfigShape and the decoder error, if any, so callers
// can use errors.Is on both.
func (e *ConfigShapeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfigShape}
	}
	return []error{ErrConfigShape, e.Cause}
}

// IsSyntax reports whether the document could not be decoded at all.
func (e *ConfigShapeError) IsSyntax() bool { return e.Cause != nil }

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s: %q in %s is claimed by both %q and %q",
		e.Document, e.Key, FormatKeyPath(e.Path), e.Owners[0], e.Owners[1])
}

// Unwrap returns ErrDuplicateKey so callers can use errors.Is.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

func shapeErr(doc string, path []string, format string, args ...any) error {
	return &ConfigShapeError{Document: doc, Path: clonePath(path), Reason: fmt.Sprintf(format, args...)}
}

// syntaxErr wraps a decoder failure of a whole document.
func syntaxErr(doc string, format Format, err error) error {
	return &ConfigShapeError{Document: doc, Reason: fmt.Sprintf("invalid %s: %v", format, err), Cause: err}
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}
