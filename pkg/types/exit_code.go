// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

const (
	// ExitSuccess is returned when the command was handed off and succeeded.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned for every resolution, configuration or
	// environment error raised before a command runs.
	ExitFailure ExitCode = 1
	// ExitNotExecutable mirrors the shell's status for a command that was
	// found but could not be started.
	ExitNotExecutable ExitCode = 126
	// ExitNotFound mirrors the shell's status for a missing program.
	ExitNotFound ExitCode = 127
	// ExitSignalBase is added to the signal number of a killed child.
	ExitSignalBase ExitCode = 128
)

type (
	// ExitCode is a process exit status. Exit codes are in the range 0-255
	// on POSIX systems; the zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Signaled reports whether the code follows the shell convention for a child
// terminated by a signal.
func (c ExitCode) Signaled() bool { return c > ExitSignalBase && c <= 255 }

// Clamp maps any integer status into 0-255 the way a POSIX shell reports it.
func Clamp(status int) ExitCode {
	if status < 0 {
		return ExitFailure
	}
	return ExitCode(status & 0xff)
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
