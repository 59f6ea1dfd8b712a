// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"io"
	"slices"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/scope"
	"github.com/dosomething/ds/pkg/dsfile"

	"github.com/charmbracelet/log"
)

type (
	// Option configures Merge.
	Option func(*merger)

	merger struct {
		policy config.OnConflict
		cwd    string
		logger *log.Logger
	}
)

// WithLogger routes merge diagnostics (overrides, out-of-scope nodes) to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Merge overlays docs, given in ascending precedence, into one registry.
// Documents must already be scope filtered; node-level roots are checked
// against cwd here.
func Merge(docs []*dsfile.Document, policy config.OnConflict, cwd string, opts ...Option) (*Registry, error) {
	if valid, errs := policy.IsValid(); !valid {
		return nil, errs[0]
	}

	m := &merger{policy: policy, cwd: cwd, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(m)
	}

	root := newEntry("", nil, &dsfile.Group{Commands: map[string]dsfile.Node{}}, dsfile.TopLevel(), nil)
	merged := make([]*dsfile.Document, 0, len(docs))

	for _, doc := range docs {
		if doc == nil || doc.Root == nil {
			continue
		}
		eff := dsfile.TopLevel().Inherit(&doc.Root.Settings, doc.Root.Mode)
		adopt(root, doc, doc.Root, eff)
		if err := m.overlay(root, doc, doc.Root, eff); err != nil {
			return nil, err
		}
		merged = append(merged, doc)
	}

	reg := &Registry{root: root, policy: policy, documents: merged}
	reg.reindex()
	return reg, nil
}

// overlay places the children of g (from doc) under target.
func (m *merger) overlay(target *Entry, doc *dsfile.Document, g *dsfile.Group, eff dsfile.Effective) error {
	for _, key := range g.Keys() {
		child := g.Commands[key]
		settings := child.NodeSettings()

		var mode *dsfile.Mode
		childGroup, isGroup := child.(*dsfile.Group)
		if isGroup {
			mode = childGroup.Mode
		}
		childEff := eff.Inherit(settings, mode)

		if settings.Root != nil {
			visible, err := scope.Visible(settings.Root, m.cwd)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Path, err)
			}
			if !visible {
				m.logger.Debug("command out of scope",
					"path", dsfile.FormatKeyPath(appendPath(target.Path, key)),
					"scope", settings.Root.Scope, "root", settings.Root.Path, "document", doc.Path)
				continue
			}
		}

		if isGroup && childEff.Flattened() {
			if err := m.overlay(target, doc, childGroup, childEff); err != nil {
				return err
			}
			continue
		}

		if err := m.place(target, doc, key, child, childEff); err != nil {
			return err
		}
	}
	return nil
}

// place puts one node under target, merging groups and settling collisions.
func (m *merger) place(target *Entry, doc *dsfile.Document, key string, node dsfile.Node, eff dsfile.Effective) error {
	group, isGroup := node.(*dsfile.Group)
	aliases := node.NodeSettings().Aliases

	if existing, ok := target.lookup[key]; ok {
		if existing.Key == key && existing.IsGroup() && isGroup && existing.Document != doc {
			if err := m.claim(target, existing, doc, aliases); err != nil {
				return err
			}
			adopt(existing, doc, group, eff)
			return m.overlay(existing, doc, group, eff)
		}
		if err := m.conflict(target, existing, doc, key, key); err != nil {
			return err
		}
		m.evict(target, existing, key, doc)
	}

	incoming := newEntry(key, appendPath(target.Path, key), node, eff, doc)
	target.children[key] = incoming
	target.lookup[key] = incoming
	if err := m.claim(target, incoming, doc, aliases); err != nil {
		return err
	}

	if isGroup {
		return m.overlay(incoming, doc, group, eff)
	}
	return nil
}

// claim registers names as aliases of owner within target.
func (m *merger) claim(target, owner *Entry, doc *dsfile.Document, names []string) error {
	for _, name := range names {
		if other, ok := target.lookup[name]; ok && other != owner {
			if err := m.conflict(target, other, doc, name, owner.Key); err != nil {
				return err
			}
			m.evict(target, other, name, doc)
		}
		target.lookup[name] = owner
		if name != owner.Key && !slices.Contains(owner.Aliases, name) {
			owner.Aliases = append(owner.Aliases, name)
		}
	}
	return nil
}

// conflict returns the error for doc claiming name over existing, or nil when
// the override policy lets doc win.
func (m *merger) conflict(target, existing *Entry, doc *dsfile.Document, name, incomingKey string) error {
	if existing.Document == doc {
		return &dsfile.DuplicateKeyError{
			Document: doc.Path,
			Path:     slices.Clone(target.Path),
			Key:      name,
			Owners:   [2]string{existing.Key, incomingKey},
		}
	}
	if m.policy == config.OnConflictError {
		return &CommandConflictError{
			Path:     appendPath(target.Path, name),
			Name:     name,
			Existing: documentPath(existing.Document),
			Incoming: doc.Path,
		}
	}
	return nil
}

// evict takes name away from other: the whole entry when name is its key,
// only the alias otherwise.
func (m *merger) evict(target, other *Entry, name string, doc *dsfile.Document) {
	path := dsfile.FormatKeyPath(appendPath(target.Path, name))

	if other.Key == name {
		delete(target.children, name)
		for n, e := range target.lookup {
			if e == other {
				delete(target.lookup, n)
			}
		}
		m.logger.Debug("command overridden", "path", path, "by", doc.Path, "was", documentPath(other.Document))
		return
	}

	other.Aliases = slices.DeleteFunc(slices.Clone(other.Aliases), func(a string) bool { return a == name })
	delete(target.lookup, name)
	m.logger.Debug("alias overridden", "path", path, "by", doc.Path, "was", documentPath(other.Document))
}

// adopt makes doc the latest definer of a (possibly merged) group entry.
// An unset default keeps the one from a lower-precedence document.
func adopt(e *Entry, doc *dsfile.Document, g *dsfile.Group, eff dsfile.Effective) {
	e.Node = g
	e.Document = doc
	e.Effective = eff
	if g.Default != nil {
		e.defaultKey = g.Default
	}
}

func documentPath(doc *dsfile.Document) string {
	if doc == nil {
		return "<none>"
	}
	return doc.Path
}
