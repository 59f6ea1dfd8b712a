// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// ColorVars are set when the command's stdout is a terminal, so tools that
// would otherwise detect a pipe keep their colors.
var ColorVars = map[string]string{
	"CLICOLOR":       "1",
	"CLICOLOR_FORCE": "1",
	"FORCE_COLOR":    "1",
}

// StdoutIsTerminal reports whether w is a terminal file descriptor.
func StdoutIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EnvToSlice converts an environment map to sorted "KEY=VALUE" entries.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// envFromSlice parses "KEY=VALUE" entries, skipping malformed ones. Windows
// entries like "=C:=C:\" keep their leading '='.
func envFromSlice(entries []string) map[string]string {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		idx := strings.IndexByte(entry, '=')
		if idx == 0 {
			idx = strings.IndexByte(entry[1:], '=') + 1
		}
		if idx <= 0 {
			continue
		}
		env[entry[:idx]] = entry[idx+1:]
	}
	return env
}
