// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/environ"
	"github.com/dosomething/ds/internal/issue"
	"github.com/dosomething/ds/internal/registry"
	"github.com/dosomething/ds/internal/runtime"
	"github.com/dosomething/ds/pkg/dsfile"
)

// Actionable wraps err in an issue.ActionableError with suggestions for the
// failure kinds ds knows about. Errors that already are actionable, and nil,
// are returned unchanged.
func Actionable(err error) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	ec := describe(err)
	if ec == nil {
		return err
	}
	return ec.Wrap(err).BuildError()
}

func describe(err error) *issue.ErrorContext {
	var (
		shapeErr    *dsfile.ConfigShapeError
		dupErr      *dsfile.DuplicateKeyError
		conflictErr *registry.CommandConflictError
		notFoundErr *registry.NotFoundError
		ambiguous   *registry.AmbiguousGroupError
		unknownEnv  *environ.UnknownEnvError
		extraArgs   *environ.UnexpectedArgsError
	)

	switch {
	case errors.As(err, &shapeErr) && shapeErr.IsSyntax():
		return issue.NewErrorContext().
			WithOperation("parse command document").
			WithResource(shapeErr.Document).
			WithSuggestion("Fix the syntax error; keys must be unique within one mapping").
			WithIssue(issue.DocumentParseErrorId)
	case errors.As(err, &shapeErr):
		return issue.NewErrorContext().
			WithOperation("load command documents").
			WithResource(shapeErr.Document).
			WithSuggestion("A command is a string, a mapping with 'command', or a group with 'commands'").
			WithIssue(issue.ConfigShapeId)
	case errors.As(err, &dupErr):
		return issue.NewErrorContext().
			WithOperation("load command documents").
			WithResource(dupErr.Document).
			WithSuggestion("Rename one of the entries or drop the clashing alias").
			WithIssue(issue.DuplicateKeyId)
	case errors.As(err, &conflictErr):
		return issue.NewErrorContext().
			WithOperation("merge command documents").
			WithSuggestions(
				"Defined first in "+conflictErr.Existing,
				"Redefined in "+conflictErr.Incoming,
				"Set on_conflict to \"override\" to let the later document win",
			).
			WithIssue(issue.CommandConflictId)
	case errors.As(err, &notFoundErr):
		ec := issue.NewErrorContext().
			WithOperation("resolve command").
			WithIssue(issue.CommandNotFoundId)
		if len(notFoundErr.Available) > 0 {
			ec.WithSuggestion("Available: " + strings.Join(notFoundErr.Available, ", "))
		}
		return ec.WithSuggestion("Run 'ds --list' to see every command")
	case errors.As(err, &ambiguous):
		return issue.NewErrorContext().
			WithOperation("resolve command").
			WithResource(dsfile.FormatKeyPath(ambiguous.Path)).
			WithSuggestion("Pick one of: " + strings.Join(ambiguous.Children, ", ")).
			WithIssue(issue.AmbiguousGroupId)
	case errors.As(err, &unknownEnv):
		ec := issue.NewErrorContext().
			WithOperation("select environment").
			WithIssue(issue.UnknownEnvId)
		if len(unknownEnv.Available) > 0 {
			ec.WithSuggestion("Available: " + strings.Join(unknownEnv.Available, ", "))
		}
		return ec.WithSuggestion("Pass arguments for the command after '--'")
	case errors.As(err, &extraArgs):
		return issue.NewErrorContext().
			WithOperation("resolve command").
			WithSuggestion("Pass arguments for the command after '--'").
			WithIssue(issue.UnexpectedArgsId)
	case errors.Is(err, config.ErrInvalidRuntimeMode):
		return issue.NewErrorContext().
			WithOperation("select runtime").
			WithSuggestion("Use 'native' or 'virtual'").
			WithIssue(issue.InvalidRuntimeModeId)
	case errors.Is(err, runtime.ErrNoShell), errors.Is(err, ErrRuntimeUnavailable):
		return issue.NewErrorContext().
			WithOperation("run command").
			WithSuggestion("Install a POSIX sh or pass '--runtime virtual'").
			WithIssue(issue.ShellNotFoundId)
	case errors.Is(err, fs.ErrPermission):
		return issue.NewErrorContext().
			WithOperation("run command").
			WithSuggestion("Check the permissions of the working directory and the program").
			WithIssue(issue.PermissionDeniedId)
	}
	return nil
}
