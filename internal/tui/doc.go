// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive command picker shown when ds runs on a
// terminal without arguments. It is built on Bubble Tea with a bubbles list
// ranked by sahilm/fuzzy.
package tui
