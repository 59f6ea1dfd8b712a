// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dosomething/ds/pkg/dsfile"
)

var (
	// ErrCommandConflict is the sentinel wrapped by CommandConflictError.
	ErrCommandConflict = errors.New("command conflict")
	// ErrNotFound is the sentinel wrapped by NotFoundError.
	ErrNotFound = errors.New("command not found")
	// ErrAmbiguousGroup is the sentinel wrapped by AmbiguousGroupError.
	ErrAmbiguousGroup = errors.New("ambiguous group")
)

type (
	// CommandConflictError reports a cross-document collision under the
	// "error" conflict policy.
	CommandConflictError struct {
		// Path is the qualified key path of the contested name.
		Path []string
		// Name is the key or alias both documents claim.
		Name string
		// Existing is the document that defined the name first.
		Existing string
		// Incoming is the document that tried to redefine it.
		Incoming string
	}

	// NotFoundError reports a key path segment matching no key or alias.
	NotFoundError struct {
		// Path is the part of the key path consumed before the miss.
		Path []string
		// Segment is the unmatched name.
		Segment string
		// ViaDefault is set when Segment came from a group's default setting.
		ViaDefault bool
		// Available lists the children of the group the lookup happened in.
		Available []string
	}

	// AmbiguousGroupError reports a group addressed bare with no default.
	AmbiguousGroupError struct {
		Path     []string
		Children []string
	}
)

// Error implements the error interface.
func (e *CommandConflictError) Error() string {
	return fmt.Sprintf("command conflict: %q is defined in both %s and %s",
		dsfile.FormatKeyPath(e.Path), e.Existing, e.Incoming)
}

// Unwrap returns ErrCommandConflict so callers can use errors.Is.
func (e *CommandConflictError) Unwrap() error { return ErrCommandConflict }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	where := dsfile.FormatKeyPath(e.Path)
	if e.ViaDefault {
		return fmt.Sprintf("command not found: default %q of %s names no child", e.Segment, where)
	}
	if len(e.Path) == 0 {
		return fmt.Sprintf("command not found: %q", e.Segment)
	}
	return fmt.Sprintf("command not found: %q in %s", e.Segment, where)
}

// Unwrap returns ErrNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *AmbiguousGroupError) Error() string {
	return fmt.Sprintf("ambiguous group: %s has no default, pick one of: %s",
		dsfile.FormatKeyPath(e.Path), strings.Join(e.Children, ", "))
}

// Unwrap returns ErrAmbiguousGroup so callers can use errors.Is.
func (e *AmbiguousGroupError) Unwrap() error { return ErrAmbiguousGroup }
