// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the command documents that make up the ds namespace
// and parses them in precedence order.
//
// Sources, lowest precedence first:
//  1. the global command document in the config directory
//  2. documents matched by the ds_files patterns of the global config
//  3. the document at the root of the enclosing git work tree
//  4. the document in the invocation directory
//
// File organization:
//   - discovery.go: Discovery, options and LoadAll
//   - discovery_files.go: source enumeration (DiscoverAll, globbing, git root)
//   - diagnostic.go: non-fatal diagnostics returned to the CLI
package discovery
