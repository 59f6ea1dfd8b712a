// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dosomething/ds/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime interprets the command line with the embedded mvdan/sh
// shell. External programs are still started from PATH.
type VirtualRuntime struct {
	// EnvBuilder builds the command environment; defaults to DefaultEnvBuilder.
	EnvBuilder EnvBuilder
}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string { return "virtual" }

// Available returns true: the interpreter is built in.
func (r *VirtualRuntime) Available() bool { return true }

// Validate checks the plan and that the command line parses.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if err := validatePlan(ctx); err != nil {
		return err
	}
	if _, err := parseCommandLine(ctx.Plan.CommandLine); err != nil {
		return err
	}
	return nil
}

// Execute runs the plan with the caller's streams.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	if err := validatePlan(ctx); err != nil {
		return NewErrorResult(err)
	}
	prog, err := parseCommandLine(ctx.Plan.CommandLine)
	if err != nil {
		return NewErrorResult(err)
	}
	env, err := envBuilderOrDefault(r.EnvBuilder).Build(ctx)
	if err != nil {
		return NewErrorResult(fmt.Errorf("failed to build environment: %w", err))
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(EnvToSlice(env)...)),
		interp.StdIO(ctx.IO.Stdin, ctx.IO.Stdout, ctx.IO.Stderr),
	}
	if ctx.Plan.WorkingDirectory != "" {
		opts = append(opts, interp.Dir(ctx.Plan.WorkingDirectory))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx.context(), prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return NewExitCodeResult(types.ExitCode(status))
		}
		return NewErrorResult(fmt.Errorf("command execution failed: %w", err))
	}
	return NewExitCodeResult(types.ExitSuccess)
}

func parseCommandLine(line string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, fmt.Errorf("command syntax error: %w", err)
	}
	return prog, nil
}
