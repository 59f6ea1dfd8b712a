// SPDX-License-Identifier: MPL-2.0

// Package runtime runs an execution plan.
//
// Two runtime implementations are available:
//   - native: hands the command line to the host POSIX shell (sh -c)
//   - virtual: interprets the command line with an embedded shell (mvdan/sh)
//
// Both implement the Runtime interface with Name(), Execute(), Available() and
// Validate(). Output goes to the streams of the ExecutionContext.
//
// The command environment is built by an EnvBuilder, lowest precedence first:
// the host environment, the selected dotenv file, the literal vars of the
// selected environment, and the color variables set when stdout is a terminal.
package runtime
