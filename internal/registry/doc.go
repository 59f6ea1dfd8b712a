// SPDX-License-Identifier: MPL-2.0

// Package registry merges command documents into one namespace and resolves
// typed key paths against it.
//
// Documents are overlaid in ascending precedence. Groups defined in several
// documents merge recursively; any other collision is settled by the
// on_conflict policy. Flattened groups promote their children into the parent
// namespace while keeping the group's settings in each child's inheritance
// chain.
//
// Resolution walks one key or alias per argument, stops at the first leaf and
// hands the remaining arguments back to the caller. A group addressed bare
// falls back to its default setting, then to a child named "default".
package registry
