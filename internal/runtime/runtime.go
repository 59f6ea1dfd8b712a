// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/planner"
	"github.com/dosomething/ds/pkg/types"
)

// ErrRuntimeNotRegistered is returned by Registry.Get for unknown runtimes.
var ErrRuntimeNotRegistered = errors.New("runtime not registered")

type (
	// IOContext holds the standard streams of a command.
	IOContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExecutionContext contains everything needed to run one plan.
	ExecutionContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Plan is the command to run.
		Plan *planner.ExecutionPlan
		// IO holds the command's streams.
		IO IOContext
		// ForceColor adds CLICOLOR, CLICOLOR_FORCE and FORCE_COLOR to the
		// environment. Callers usually set it from StdoutIsTerminal.
		ForceColor bool
	}

	// Result contains the result of a command execution.
	Result struct {
		// ExitCode is the exit code of the command.
		ExitCode types.ExitCode
		// Error is set when the command could not be run at all.
		Error error
	}

	// Runtime defines the interface for command execution.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Execute runs the plan.
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime can run on the current system.
		Available() bool
		// Validate checks that the plan can be run by this runtime.
		Validate(ctx *ExecutionContext) error
	}

	// Registry holds the available runtimes by mode.
	Registry struct {
		runtimes map[config.RuntimeMode]Runtime
	}
)

// NewExecutionContext creates an execution context bound to the process
// streams.
func NewExecutionContext(ctx context.Context, plan *planner.ExecutionPlan) *ExecutionContext {
	return &ExecutionContext{
		Context: ctx,
		Plan:    plan,
		IO: IOContext{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
		ForceColor: StdoutIsTerminal(os.Stdout),
	}
}

func (ctx *ExecutionContext) context() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// Success returns true if the command executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewRegistry creates an empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[config.RuntimeMode]Runtime)}
}

// NewDefaultRegistry returns a registry with the native and virtual runtimes.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(config.RuntimeNative, NewNativeRuntime())
	r.Register(config.RuntimeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry.
func (r *Registry) Register(mode config.RuntimeMode, rt Runtime) {
	r.runtimes[mode] = rt
}

// Get returns the runtime registered for mode.
func (r *Registry) Get(mode config.RuntimeMode) (Runtime, error) {
	rt, ok := r.runtimes[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRuntimeNotRegistered, mode)
	}
	return rt, nil
}

// validatePlan checks what every runtime needs from a plan.
func validatePlan(ctx *ExecutionContext) error {
	if ctx.Plan == nil {
		return errors.New("no execution plan")
	}
	if ctx.Plan.CommandLine == "" {
		return errors.New("command line is empty")
	}
	return validateWorkDir(ctx.Plan.WorkingDirectory)
}

// validateWorkDir checks that a working directory exists and is a directory,
// giving a clearer message than the spawn error would.
func validateWorkDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("working directory does not exist: %s", dir)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s", dir)
		}
		return fmt.Errorf("cannot access working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory is not a directory: %s", dir)
	}
	return nil
}
