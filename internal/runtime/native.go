// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoShell is returned when no POSIX shell can be found.
var ErrNoShell = errors.New("no POSIX shell found")

// NativeRuntime hands the command line to the host shell as "sh -c <line>".
type NativeRuntime struct {
	// Shell overrides the shell binary; defaults to "sh" from PATH.
	Shell string
	// EnvBuilder builds the command environment; defaults to DefaultEnvBuilder.
	EnvBuilder EnvBuilder
}

// NewNativeRuntime creates a native runtime using sh from PATH.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string { return "native" }

// Available returns whether a shell can be found.
func (r *NativeRuntime) Available() bool {
	_, err := r.shell()
	return err == nil
}

// Validate checks the plan and the working directory.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	return validatePlan(ctx)
}

// Execute runs the plan with the caller's streams.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	if err := r.Validate(ctx); err != nil {
		return NewErrorResult(err)
	}
	shell, err := r.shell()
	if err != nil {
		return NewErrorResult(err)
	}
	env, err := envBuilderOrDefault(r.EnvBuilder).Build(ctx)
	if err != nil {
		return NewErrorResult(fmt.Errorf("failed to build environment: %w", err))
	}

	cmd := exec.CommandContext(ctx.context(), shell, "-c", ctx.Plan.CommandLine)
	cmd.Dir = ctx.Plan.WorkingDirectory
	cmd.Env = EnvToSlice(env)
	cmd.Stdin = ctx.IO.Stdin
	cmd.Stdout = ctx.IO.Stdout
	cmd.Stderr = ctx.IO.Stderr

	return extractExitCode(cmd.Run())
}

func (r *NativeRuntime) shell() (string, error) {
	name := r.Shell
	if name == "" {
		name = "sh"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoShell, err)
	}
	return path, nil
}
