// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	appexec "github.com/dosomething/ds/internal/app/execute"
	"github.com/dosomething/ds/internal/config"
)

// renderDryRun prints the execution plan without running it.
func renderDryRun(w io.Writer, inv *appexec.Invocation, mode config.RuntimeMode) {
	plan := inv.Plan

	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Command:"), strings.Join(plan.Keys, " "))
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Source:"), plan.Source)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Runtime:"), mode)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("WorkDir:"), plan.WorkingDirectory)
	if plan.EnvName != "" {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Environment:"), plan.EnvName)
	}
	if plan.DotenvPath != "" {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Dotenv:"), plan.DotenvPath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Command line:"))
	fmt.Fprintf(w, "    %s\n", plan.CommandLine)

	if len(plan.ExtraVars) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, VerboseHighlightStyle.Render("  Variables:"))
		for _, k := range slices.Sorted(maps.Keys(plan.ExtraVars)) {
			fmt.Fprintf(w, "    %s=%s\n", k, plan.ExtraVars[k])
		}
	}

	fmt.Fprintln(w)
}
