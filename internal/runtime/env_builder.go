// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
)

type (
	// EnvBuilder builds the environment of a command. The default precedence,
	// higher number wins:
	//
	//  1. Host environment
	//  2. Dotenv file of the selected environment
	//  3. Literal vars of the selected environment
	//  4. Color variables, when ForceColor is set
	EnvBuilder interface {
		Build(ctx *ExecutionContext) (map[string]string, error)
	}

	// DefaultEnvBuilder implements the standard precedence.
	DefaultEnvBuilder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
	}
)

// NewDefaultEnvBuilder creates a new DefaultEnvBuilder.
func NewDefaultEnvBuilder() *DefaultEnvBuilder {
	return &DefaultEnvBuilder{}
}

// Build constructs the environment map.
func (b *DefaultEnvBuilder) Build(ctx *ExecutionContext) (map[string]string, error) {
	environ := b.Environ
	if environ == nil {
		environ = os.Environ
	}
	// 1. Host environment
	env := envFromSlice(environ())

	if plan := ctx.Plan; plan != nil {
		// 2. Dotenv file
		if plan.DotenvPath != "" {
			if err := LoadEnvFile(env, plan.DotenvPath, plan.WorkingDirectory); err != nil {
				return nil, err
			}
		}
		// 3. Literal vars
		maps.Copy(env, plan.ExtraVars)
	}

	// 4. Color variables
	if ctx.ForceColor {
		maps.Copy(env, ColorVars)
	}
	return env, nil
}

func envBuilderOrDefault(b EnvBuilder) EnvBuilder {
	if b == nil {
		return NewDefaultEnvBuilder()
	}
	return b
}
