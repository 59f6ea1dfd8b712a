// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	// ScopeGlobal makes commands visible from any directory.
	ScopeGlobal Scope = "global"
	// ScopeGitRoot makes commands visible inside the repository rooted at the root path.
	ScopeGitRoot Scope = "git_root"
	// ScopeExact makes commands visible only from the root path itself.
	ScopeExact Scope = "exact"

	// ModeNormal keeps a group's children under the group's own key.
	ModeNormal Mode = "normal"
	// ModeFlattened promotes a group's children into the parent namespace.
	ModeFlattened Mode = "flattened"

	// DefaultCommandKey is the child key a bare group falls back to when it
	// declares no explicit default.
	DefaultCommandKey = "default"
)

var (
	// ErrInvalidScope is returned when a Scope value is not recognized.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrInvalidMode is returned when a Mode value is not recognized.
	ErrInvalidMode = errors.New("invalid group mode")
)

type (
	// Scope controls where a root's commands are visible from.
	Scope string

	// Mode controls how a group exposes its children.
	Mode string

	// Root declares the directory a command runs in and the scope that decides
	// its visibility. Path is absolute once the document has been built.
	Root struct {
		Path  string
		Scope Scope
	}

	// Settings are the per-node fields shared by leaves and groups.
	// Nil pointers and maps mean "not declared on this node".
	Settings struct {
		// Name is an optional display name, used in listings.
		Name string
		// Description is an optional longer description, used in listings.
		Description string
		// Aliases are alternate keys accepted in place of the canonical key.
		Aliases []string
		// Root overrides the working directory (and possibly the visibility).
		Root *Root
		// Envs declares named environments; merged key by key with ancestors.
		Envs map[string]EnvSpec
		// DefaultEnv names the environment used when none is given.
		DefaultEnv *string
	}

	// Node is a command tree element. It is implemented by *Leaf and *Group only.
	Node interface {
		// NodeSettings returns the node's own (not inherited) settings.
		NodeSettings() *Settings
		node()
	}

	// Leaf is a single runnable command.
	Leaf struct {
		Settings
		// Command is the command line handed to the shell.
		Command string
	}

	// Group is a set of named child nodes sharing common settings.
	Group struct {
		Settings
		// Commands maps each child key to its node.
		Commands map[string]Node
		// Default names the child (key or alias) run when the group is addressed bare.
		Default *string
		// Mode is nil unless the group declares it.
		Mode *Mode
	}

	// Document is one parsed command file.
	Document struct {
		// Path is the absolute path of the file.
		Path string
		// Dir is the directory relative paths inside the document resolve against.
		Dir string
		// Format is the syntax the file was decoded with.
		Format Format
		// Root is the top-level group.
		Root *Group
	}
)

// String returns the scope name.
func (s Scope) String() string { return string(s) }

// Validate returns an error when the scope is not a known value.
// The empty scope is valid and means ScopeGlobal.
func (s Scope) Validate() error {
	switch s {
	case "", ScopeGlobal, ScopeGitRoot, ScopeExact:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected one of global, git_root, exact)", ErrInvalidScope, string(s))
	}
}

// OrGlobal returns ScopeGlobal for the empty scope.
func (s Scope) OrGlobal() Scope {
	if s == "" {
		return ScopeGlobal
	}
	return s
}

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// Validate returns an error when the mode is not a known value.
func (m Mode) Validate() error {
	switch m {
	case ModeNormal, ModeFlattened:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected normal or flattened)", ErrInvalidMode, string(m))
	}
}

// NodeSettings returns the leaf's own settings.
func (l *Leaf) NodeSettings() *Settings { return &l.Settings }

func (*Leaf) node() {}

// NodeSettings returns the group's own settings.
func (g *Group) NodeSettings() *Settings { return &g.Settings }

func (*Group) node() {}

// Keys returns the group's child keys in lexical order.
func (g *Group) Keys() []string {
	keys := maps.Keys(g.Commands)
	return slices.Sorted(keys)
}

// Names returns the key followed by the node's aliases.
func Names(key string, n Node) []string {
	aliases := n.NodeSettings().Aliases
	names := make([]string, 0, 1+len(aliases))
	names = append(names, key)
	return append(names, aliases...)
}

// RootScope returns the document's own top-level root, or nil when the
// document declares none.
func (d *Document) RootScope() *Root {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Root
}

// FormatKeyPath renders a key path the way it is typed on the command line.
func FormatKeyPath(keys []string) string {
	if len(keys) == 0 {
		return "(root)"
	}
	return strings.Join(keys, " ")
}
