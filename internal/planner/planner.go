// SPDX-License-Identifier: MPL-2.0

// Package planner turns a resolved command and its selected environment into
// the execution plan handed to a runtime.
package planner

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/dosomething/ds/internal/environ"
	"github.com/dosomething/ds/internal/registry"

	"mvdan.cc/sh/v3/syntax"
)

// ErrNoCommand is returned when the resolution does not end at a leaf.
var ErrNoCommand = errors.New("resolution has no command")

// ExecutionPlan is everything needed to run one command. It is produced
// completely or not at all.
type ExecutionPlan struct {
	// WorkingDirectory is the effective root path, or the invocation directory.
	WorkingDirectory string
	// CommandLine is the shell text to run: prefix, command, quoted extra args.
	CommandLine string
	// DotenvPath is the dotenv file to load before ExtraVars, "" for none.
	DotenvPath string
	// ExtraVars are literal variables from the selected environment.
	ExtraVars map[string]string
	// EnvName is the selected environment, "" when none is.
	EnvName string
	// Keys is the canonical key path of the command.
	Keys []string
	// Source is the document that defined the command.
	Source string
}

// Plan builds the execution plan for res under env. passthrough arguments are
// appended to the command line shell-quoted.
func Plan(res *registry.Resolution, env environ.EnvPlan, cwd string, passthrough []string) (*ExecutionPlan, error) {
	if res == nil || res.Entry == nil {
		return nil, ErrNoCommand
	}
	leaf := res.Leaf()
	if leaf == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCommand, strings.Join(res.Keys(), " "))
	}

	line, err := CommandLine(env.CommandPrefix, leaf.Command, passthrough)
	if err != nil {
		return nil, err
	}

	wd := res.Entry.Effective.WorkDir()
	if wd == "" {
		wd = cwd
	}

	plan := &ExecutionPlan{
		WorkingDirectory: wd,
		CommandLine:      line,
		DotenvPath:       env.DotenvPath,
		ExtraVars:        maps.Clone(env.Vars),
		EnvName:          env.Name,
		Keys:             res.Keys(),
	}
	if res.Entry.Document != nil {
		plan.Source = res.Entry.Document.Path
	}
	if plan.ExtraVars == nil {
		plan.ExtraVars = map[string]string{}
	}
	return plan, nil
}

// CommandLine joins prefix and command with a single space and appends each
// extra argument quoted for a POSIX shell.
func CommandLine(prefix, command string, args []string) (string, error) {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	b.WriteString(command)
	for _, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote argument %q: %w", arg, err)
		}
		b.WriteByte(' ')
		b.WriteString(quoted)
	}
	return b.String(), nil
}
