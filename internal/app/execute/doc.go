// SPDX-License-Identifier: MPL-2.0

// Package execute wires one ds invocation together: configuration, document
// discovery, scope filtering, merging, resolution, environment composition
// and planning. Every call rebuilds all state from disk.
package execute
