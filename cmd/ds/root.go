// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the parsed global flags of one invocation.
type rootOptions struct {
	configPath string
	verbose    bool
	dryRun     bool
	runtime    string
	list       bool
	initConfig bool
}

// NewRootCommand builds the ds root command bound to app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ds [flags] [<key>...] [<env>] [-- <args>...]",
		Short: "Run the commands your project documents",
		Long: TitleStyle.Render("ds") + SubtitleStyle.Render(" - run the commands your project documents") + `

ds reads command documents (ds.json, ds.cue, ds.yaml, ds.yml or ds.toml)
from the current directory, the git root, the ds_files patterns of your
config and the config directory, and merges them into one namespace.

` + SubtitleStyle.Render("Examples:") + `
  ds                      Pick a command interactively (or list when not a tty)
  ds --list               List every visible command
  ds app build            Run 'build' in the 'app' group
  ds app build prod       Run it in the 'prod' environment
  ds test -- -run TestX   Pass arguments to the command
  ds --dry-run app        Print what would run`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, passthrough := splitPassthrough(args, cmd.ArgsLenAtDash())
			return app.run(cmd.Context(), opts, keys, passthrough)
		},
	}

	// Flags must come before the key path; everything after it belongs to
	// the key path, the environment and the pass-through arguments.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default is <config dir>/config.cue)")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the execution plan without running it")
	rootCmd.Flags().StringVar(&opts.runtime, "runtime", "", "runtime to use: native or virtual (overrides config)")
	rootCmd.Flags().BoolVar(&opts.list, "list", false, "list every visible command")
	rootCmd.Flags().BoolVar(&opts.initConfig, "init-config", false, "write a default config file and exit")
	rootCmd.MarkFlagsMutuallyExclusive("list", "dry-run")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// splitPassthrough separates the key path and environment from the
// arguments forwarded to the command. With interspersed flags disabled the
// "--" separator is kept in args once a positional argument has been seen.
func splitPassthrough(args []string, dashAt int) (keys, passthrough []string) {
	if dashAt >= 0 {
		return args[:dashAt], args[dashAt:]
	}
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with its status. It is called by
// main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler leaves ExitError silent: run has already rendered it.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
