// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"os/exec"

	"github.com/dosomething/ds/pkg/types"
)

// NewErrorResult creates a Result for a command that could not be run.
func NewErrorResult(err error) *Result {
	return &Result{ExitCode: types.ExitFailure, Error: err}
}

// NewExitCodeResult creates a Result for a command that ran and exited.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}

// extractExitCode turns the error of exec.Cmd.Run into a Result.
func extractExitCode(err error) *Result {
	if err == nil {
		return NewExitCodeResult(types.ExitSuccess)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal; report it the way a shell does.
			return NewExitCodeResult(types.ExitSignalBase + types.Clamp(signalOf(exitErr)))
		}
		return NewExitCodeResult(types.Clamp(code))
	}

	// The command could not be started at all.
	return NewErrorResult(err)
}
