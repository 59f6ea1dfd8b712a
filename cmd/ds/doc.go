// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the ds command line: listing, the interactive
// picker, dry runs and command execution.
package cmd
