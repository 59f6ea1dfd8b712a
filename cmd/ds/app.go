// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/runtime"
	"github.com/dosomething/ds/internal/tui"
)

type (
	// PickFunc shows the interactive picker and returns the chosen index.
	PickFunc func(ctx context.Context, items []tui.Item, opts tui.PickerOptions) (int, bool, error)

	// App wires the services the root command delegates to.
	App struct {
		Config   config.Provider
		Runtimes *runtime.Registry
		Pick     PickFunc
		// Interactive reports whether the picker may be shown.
		Interactive func() bool
		// Cwd is the invocation directory, "" for os.Getwd().
		Cwd string

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		Runtimes    *runtime.Registry
		Pick        PickFunc
		Interactive func() bool
		Cwd         string
		Stdin       io.Reader
		Stdout      io.Writer
		Stderr      io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.NewDefaultRegistry()
	}
	if deps.Pick == nil {
		deps.Pick = tui.Pick
	}
	if deps.Interactive == nil {
		stdin, stdout := deps.Stdin, deps.Stdout
		deps.Interactive = func() bool {
			f, ok := stdin.(*os.File)
			return ok && runtime.StdoutIsTerminal(f) && runtime.StdoutIsTerminal(stdout)
		}
	}

	return &App{
		Config:      deps.Config,
		Runtimes:    deps.Runtimes,
		Pick:        deps.Pick,
		Interactive: deps.Interactive,
		Cwd:         deps.Cwd,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
}

func (a *App) newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "ds"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
