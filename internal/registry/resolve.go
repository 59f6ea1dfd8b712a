// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"

	"github.com/dosomething/ds/pkg/dsfile"
)

// Resolution is the outcome of resolving a key path.
type Resolution struct {
	// Entry is the resolved leaf.
	Entry *Entry
	// Consumed are the arguments that named keys or aliases, as typed.
	Consumed []string
	// Remaining are the arguments left after the leaf was reached.
	Remaining []string
}

// Keys returns the canonical key path of the resolved leaf.
func (r *Resolution) Keys() []string { return slices.Clone(r.Entry.Path) }

// Leaf returns the resolved leaf definition.
func (r *Resolution) Leaf() *dsfile.Leaf {
	l, _ := r.Entry.Leaf()
	return l
}

// Resolve walks args from the root: each argument must match a key or alias
// of the current group exactly. The walk stops at the first leaf; anything
// after it is returned in Remaining. A group reached with no arguments left
// is resolved through its default, and so is a group followed only by the
// name of one of its default leaf's environments ("ds app prod").
func (r *Registry) Resolve(args []string) (*Resolution, error) {
	cur := r.root
	consumed := 0
	for consumed < len(args) && cur.IsGroup() {
		next, ok := cur.lookup[args[consumed]]
		if !ok {
			if res, ok := defaultWithEnv(cur, args, consumed); ok {
				return res, nil
			}
			return nil, &NotFoundError{
				Path:      slices.Clone(args[:consumed]),
				Segment:   args[consumed],
				Available: cur.ChildKeys(),
			}
		}
		cur = next
		consumed++
	}

	leaf, err := descendDefaults(cur)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Entry:     leaf,
		Consumed:  slices.Clone(args[:consumed]),
		Remaining: slices.Clone(args[consumed:]),
	}, nil
}

// defaultWithEnv resolves "<group> <env>": args[consumed] is the last
// argument, it names no child of g, and g's default leaf declares it as an
// environment.
func defaultWithEnv(g *Entry, args []string, consumed int) (*Resolution, bool) {
	if consumed == 0 || consumed != len(args)-1 {
		return nil, false
	}
	leaf, err := descendDefaults(g)
	if err != nil {
		return nil, false
	}
	if _, ok := leaf.Effective.Envs[args[consumed]]; !ok {
		return nil, false
	}
	return &Resolution{
		Entry:     leaf,
		Consumed:  slices.Clone(args[:consumed]),
		Remaining: slices.Clone(args[consumed:]),
	}, true
}

// descendDefaults follows default settings from e down to a leaf.
func descendDefaults(e *Entry) (*Entry, error) {
	for e.IsGroup() {
		if key, ok := e.Default(); ok {
			next, ok := e.lookup[key]
			if !ok {
				return nil, &NotFoundError{
					Path:       slices.Clone(e.Path),
					Segment:    key,
					ViaDefault: true,
					Available:  e.ChildKeys(),
				}
			}
			e = next
			continue
		}
		if next, ok := e.children[dsfile.DefaultCommandKey]; ok {
			e = next
			continue
		}
		return nil, &AmbiguousGroupError{Path: slices.Clone(e.Path), Children: e.ChildKeys()}
	}
	return e, nil
}
