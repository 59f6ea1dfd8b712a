// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	appexec "github.com/dosomething/ds/internal/app/execute"
	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/issue"
	"github.com/dosomething/ds/internal/runtime"
	"github.com/dosomething/ds/internal/tui"
	"github.com/dosomething/ds/pkg/types"
)

// run is the root command handler. Every outcome other than success is
// rendered here and returned as an *ExitError.
func (a *App) run(ctx context.Context, opts *rootOptions, keys, passthrough []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.initConfig {
		return a.initConfig(opts.verbose)
	}

	logger := a.newLogger(opts.verbose)
	pipeline := &appexec.Pipeline{
		Provider:    a.Config,
		LoadOptions: config.LoadOptions{ConfigFilePath: opts.configPath},
		Cwd:         a.Cwd,
		Logger:      logger,
	}

	loaded, err := pipeline.Load(ctx)
	if err != nil {
		return a.fail(err, opts.verbose)
	}
	verbose := opts.verbose || loaded.Config.UI.Verbose
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if len(keys) == 0 {
		if opts.list || !a.Interactive() {
			renderListing(a.stdout, loaded)
			if len(loaded.Documents) == 0 {
				fmt.Fprintln(a.stderr, WarningStyle.Render("No command documents found.")+" Create a ds.yaml or run 'ds --init-config'.")
			}
			return nil
		}
		picked, ok, err := a.pick(ctx, loaded)
		if err != nil {
			return a.fail(err, verbose)
		}
		if !ok {
			logger.Debug("picker cancelled")
			return nil
		}
		keys = picked
	} else if opts.list {
		renderListing(a.stdout, loaded)
		return nil
	}

	inv, err := loaded.Plan(keys, passthrough)
	if err != nil {
		return a.fail(err, verbose)
	}
	mode, err := appexec.ResolveRuntime(config.RuntimeMode(opts.runtime), loaded.Config)
	if err != nil {
		return a.fail(err, verbose)
	}

	if opts.dryRun {
		renderDryRun(a.stdout, inv, mode)
		return nil
	}

	execCtx := runtime.NewExecutionContext(ctx, inv.Plan)
	execCtx.IO = runtime.IOContext{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
	execCtx.ForceColor = loaded.Config.UI.Color && runtime.StdoutIsTerminal(a.stdout)

	logger.Debug("running command",
		"keys", strings.Join(inv.Plan.Keys, " "),
		"env", inv.Plan.EnvName,
		"dir", inv.Plan.WorkingDirectory,
		"runtime", mode,
		"line", inv.Plan.CommandLine,
	)
	res := appexec.Run(a.Runtimes, mode, execCtx)
	if res.Error != nil {
		return a.fail(res.Error, verbose)
	}
	if !res.ExitCode.IsSuccess() {
		logger.Debug("command failed", "exit", res.ExitCode)
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

// pick shows every listing row in the picker and returns the arguments of
// the chosen one.
func (a *App) pick(ctx context.Context, loaded *appexec.Loaded) ([]string, bool, error) {
	rows := loaded.Registry.Rows()
	items := make([]tui.Item, len(rows))
	for i, r := range rows {
		detail := r.Command
		if r.Description != "" {
			detail = r.Description + " · " + r.Command
		}
		if r.Document != nil {
			detail += " · " + r.Document.Path
		}
		items[i] = tui.Item{Label: r.Display(), Detail: detail}
	}

	idx, ok, err := a.Pick(ctx, items, tui.PickerOptions{Title: "ds", Input: a.stdin, Output: a.stderr})
	if err != nil || !ok {
		return nil, false, err
	}
	return rows[idx].Args(), true, nil
}

func (a *App) initConfig(verbose bool) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return a.fail(err, verbose)
	}
	if created {
		fmt.Fprintf(a.stdout, "Wrote %s\n", CmdStyle.Render(path))
	} else {
		fmt.Fprintf(a.stdout, "%s already exists\n", CmdStyle.Render(path))
	}
	return nil
}

// fail renders err on stderr and converts it to an exit status of 1.
func (a *App) fail(err error, verbose bool) error {
	err = appexec.Actionable(err)
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		if i, ok := ae.CatalogIssue(); ok {
			style := "notty"
			if runtime.StdoutIsTerminal(a.stderr) {
				style = "dark"
			}
			if out, renderErr := i.Render(style); renderErr == nil {
				fmt.Fprint(a.stderr, out)
			}
		}
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// formatErrorForDisplay formats an error for user display, using Format for
// actionable errors.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
