// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"strings"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/pkg/dsfile"

	"golang.org/x/exp/maps"
)

type (
	// Entry is one node of the merged namespace.
	Entry struct {
		// Key is the canonical key under the parent entry ("" for the root).
		Key string
		// Aliases are the alternate names still owned by this entry after merging.
		Aliases []string
		// Node is the definition that last claimed this entry.
		Node dsfile.Node
		// Effective holds the settings folded along the node's own document chain.
		Effective dsfile.Effective
		// Document is the document that last defined this entry.
		Document *dsfile.Document
		// Path is the qualified canonical key path from the registry root.
		Path []string

		defaultKey *string
		children   map[string]*Entry
		// lookup maps every key and alias of the children to their entry.
		lookup map[string]*Entry
	}

	// Registry is the merged, scope-filtered command namespace of one invocation.
	Registry struct {
		root      *Entry
		index     map[string]*Entry
		policy    config.OnConflict
		documents []*dsfile.Document
	}
)

func newEntry(key string, path []string, node dsfile.Node, eff dsfile.Effective, doc *dsfile.Document) *Entry {
	e := &Entry{
		Key:       key,
		Node:      node,
		Effective: eff,
		Document:  doc,
		Path:      path,
	}
	if g, ok := node.(*dsfile.Group); ok {
		e.children = map[string]*Entry{}
		e.lookup = map[string]*Entry{}
		e.defaultKey = g.Default
	}
	return e
}

// IsGroup reports whether the entry holds children.
func (e *Entry) IsGroup() bool {
	_, ok := e.Node.(*dsfile.Group)
	return ok
}

// Leaf returns the entry's leaf definition.
func (e *Entry) Leaf() (*dsfile.Leaf, bool) {
	l, ok := e.Node.(*dsfile.Leaf)
	return l, ok
}

// Name returns the display name of the entry, if any.
func (e *Entry) Name() string { return e.Node.NodeSettings().Name }

// Description returns the description of the entry, if any.
func (e *Entry) Description() string { return e.Node.NodeSettings().Description }

// Child returns the child owning name as key or alias.
func (e *Entry) Child(name string) (*Entry, bool) {
	c, ok := e.lookup[name]
	return c, ok
}

// ChildKeys returns the canonical keys of the children in lexical order.
func (e *Entry) ChildKeys() []string {
	return slices.Sorted(maps.Keys(e.children))
}

// Children returns the children ordered by key.
func (e *Entry) Children() []*Entry {
	keys := e.ChildKeys()
	out := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.children[k])
	}
	return out
}

// Default returns the group's explicit default setting.
func (e *Entry) Default() (string, bool) {
	if e.defaultKey == nil {
		return "", false
	}
	return *e.defaultKey, true
}

// Names returns the canonical key followed by the aliases.
func (e *Entry) Names() []string {
	return append([]string{e.Key}, e.Aliases...)
}

// Root returns the top-level entry of the namespace.
func (r *Registry) Root() *Entry { return r.root }

// Policy returns the conflict policy the registry was merged with.
func (r *Registry) Policy() config.OnConflict { return r.policy }

// Documents returns the documents that were merged, lowest precedence first.
func (r *Registry) Documents() []*dsfile.Document {
	return slices.Clone(r.documents)
}

// Lookup returns the entry at a canonical key path (no aliases).
func (r *Registry) Lookup(path ...string) (*Entry, bool) {
	e, ok := r.index[indexKey(path)]
	return e, ok
}

// Len returns the number of entries in the namespace, the root excluded.
func (r *Registry) Len() int { return len(r.index) }

// Walk visits every entry below the root depth first, children in key order.
// Returning false from fn skips the entry's subtree.
func (r *Registry) Walk(fn func(*Entry) bool) {
	var walk func(*Entry)
	walk = func(e *Entry) {
		for _, c := range e.Children() {
			if fn(c) {
				walk(c)
			}
		}
	}
	walk(r.root)
}

func (r *Registry) reindex() {
	r.index = map[string]*Entry{}
	r.Walk(func(e *Entry) bool {
		r.index[indexKey(e.Path)] = e
		return true
	})
}

func indexKey(path []string) string {
	return strings.Join(path, "\x00")
}

func appendPath(path []string, key string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, key)
}
