// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1},
		{name: "256 is invalid", value: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodePredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code         ExitCode
		wantSuccess  bool
		wantSignaled bool
	}{
		{code: ExitSuccess, wantSuccess: true},
		{code: ExitFailure},
		{code: ExitNotFound},
		{code: ExitSignalBase},
		{code: 130, wantSignaled: true},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()

			if got := tt.code.IsSuccess(); got != tt.wantSuccess {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.wantSuccess)
			}
			if got := tt.code.Signaled(); got != tt.wantSignaled {
				t.Errorf("Signaled() = %v, want %v", got, tt.wantSignaled)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   ExitCode
	}{
		{status: 0, want: 0},
		{status: 3, want: 3},
		{status: 256, want: 0},
		{status: 257, want: 1},
		{status: -1, want: ExitFailure},
	}

	for _, tt := range tests {
		if got := Clamp(tt.status); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
