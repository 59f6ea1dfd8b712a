// SPDX-License-Identifier: MPL-2.0

// Package environ selects one named environment from the envs accumulated
// along a resolved command path.
package environ

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dosomething/ds/pkg/dsfile"
)

var (
	// ErrUnknownEnv is returned when the requested environment is not declared.
	ErrUnknownEnv = errors.New("unknown environment")

	// ErrUnexpectedArgs is returned when more than one argument follows the
	// resolved command outside of a "--" pass-through section.
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

type (
	// EnvPlan is the environment chosen for one invocation. The zero value
	// means no environment is loaded.
	EnvPlan struct {
		// Name is the selected environment, "" when none is.
		Name string
		// DotenvPath is the absolute dotenv file to load, "" for none.
		DotenvPath string
		// CommandPrefix is prepended to the command line, "" for none.
		CommandPrefix string
		// Vars are literal variables set on top of the dotenv file.
		Vars map[string]string
	}

	// UnknownEnvError names an environment that the command does not declare.
	UnknownEnvError struct {
		Name       string
		Available  []string
		ViaDefault bool
	}

	// UnexpectedArgsError lists arguments that neither name an environment
	// nor follow "--".
	UnexpectedArgsError struct {
		Args []string
	}
)

// Error implements the error interface.
func (e *UnknownEnvError) Error() string {
	var b strings.Builder
	if e.ViaDefault {
		fmt.Fprintf(&b, "unknown environment: default_env %q is not declared", e.Name)
	} else {
		fmt.Fprintf(&b, "unknown environment: %q", e.Name)
	}
	if len(e.Available) == 0 {
		b.WriteString(" (the command declares no environments)")
	} else {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
	}
	return b.String()
}

// Unwrap returns ErrUnknownEnv so callers can use errors.Is.
func (e *UnknownEnvError) Unwrap() error { return ErrUnknownEnv }

// Error implements the error interface.
func (e *UnexpectedArgsError) Error() string {
	return fmt.Sprintf("unexpected arguments: %s (pass extra arguments after --)", strings.Join(e.Args, " "))
}

// Unwrap returns ErrUnexpectedArgs so callers can use errors.Is.
func (e *UnexpectedArgsError) Unwrap() error { return ErrUnexpectedArgs }

// Selected reports whether the plan loads an environment.
func (p EnvPlan) Selected() bool { return p.Name != "" }

// EnvArg extracts the optional environment argument from the arguments left
// after key path resolution. At most one may be given.
func EnvArg(remaining []string) (string, error) {
	switch len(remaining) {
	case 0:
		return "", nil
	case 1:
		return remaining[0], nil
	default:
		return "", &UnexpectedArgsError{Args: slices.Clone(remaining[1:])}
	}
}

// Compose selects an environment from envs. An explicit arg must name one of
// them; without it defaultEnv is used when set; with neither the plan is empty
// and the command runs without an environment.
func Compose(envs map[string]dsfile.EnvSpec, defaultEnv, arg string) (EnvPlan, error) {
	name := arg
	viaDefault := false
	if name == "" {
		if defaultEnv == "" {
			return EnvPlan{}, nil
		}
		name = defaultEnv
		viaDefault = true
	}

	spec, ok := envs[name]
	if !ok {
		return EnvPlan{}, &UnknownEnvError{
			Name:       name,
			Available:  Names(envs),
			ViaDefault: viaDefault,
		}
	}
	return planFor(name, spec), nil
}

// Names returns the declared environment names in sorted order.
func Names(envs map[string]dsfile.EnvSpec) []string {
	return slices.Sorted(maps.Keys(envs))
}

func planFor(name string, spec dsfile.EnvSpec) EnvPlan {
	p := EnvPlan{Name: name, Vars: maps.Clone(spec.Vars)}
	if spec.Path != nil {
		p.DotenvPath = *spec.Path
	}
	if spec.CommandPrefix != nil {
		p.CommandPrefix = *spec.CommandPrefix
	}
	if p.Vars == nil {
		p.Vars = map[string]string{}
	}
	return p
}
