// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"errors"
	"fmt"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/runtime"
)

// ErrRuntimeUnavailable is returned when the selected runtime cannot run on
// this system.
var ErrRuntimeUnavailable = errors.New("runtime not available")

// ResolveRuntime applies runtime-selection precedence:
//  1. CLI override
//  2. Config runtime
//  3. native
func ResolveRuntime(override config.RuntimeMode, cfg *config.Config) (config.RuntimeMode, error) {
	if override != "" {
		if valid, errs := override.IsValid(); !valid {
			return "", errs[0]
		}
		return override, nil
	}
	if cfg != nil && cfg.Runtime != "" {
		if valid, errs := cfg.Runtime.IsValid(); !valid {
			return "", fmt.Errorf("invalid runtime in config: %w", errs[0])
		}
		return cfg.Runtime, nil
	}
	return config.RuntimeNative, nil
}

// Run executes execCtx with the runtime registered for mode.
func Run(runtimes *runtime.Registry, mode config.RuntimeMode, execCtx *runtime.ExecutionContext) *runtime.Result {
	rt, err := runtimes.Get(mode)
	if err != nil {
		return runtime.NewErrorResult(err)
	}
	if !rt.Available() {
		return runtime.NewErrorResult(fmt.Errorf("%w: %s", ErrRuntimeUnavailable, rt.Name()))
	}
	if err := rt.Validate(execCtx); err != nil {
		return runtime.NewErrorResult(err)
	}
	return rt.Execute(execCtx)
}
