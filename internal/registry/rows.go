// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"strings"

	"github.com/dosomething/ds/pkg/dsfile"

	"golang.org/x/exp/maps"
)

// Row is one runnable line of the command listing: a key path plus, when the
// command declares environments, one environment name.
type Row struct {
	// Path is the canonical key path.
	Path []string
	// Labels holds, per level of Path, the key joined with its aliases ("app|a").
	Labels []string
	// Env is the environment selected by this row, "" for none.
	Env string
	// DefaultEnv is set when Env is the command's default environment.
	DefaultEnv bool
	// Command is the leaf command line (for group rows, the default leaf's).
	Command string
	// Name and Description come from the entry the row was built from.
	Name        string
	Description string
	// Document is the document that defined the entry.
	Document *dsfile.Document
	// Group is set for rows addressing a group through its default.
	Group bool
}

// Args returns the arguments that run this row.
func (r Row) Args() []string {
	args := slices.Clone(r.Path)
	if r.Env != "" && !r.DefaultEnv {
		args = append(args, r.Env)
	}
	return args
}

// Display renders the row as typed on the command line, aliases in
// parentheses and the default environment in parentheses too:
// "app (dev|d) (local)".
func (r Row) Display() string {
	parts := make([]string, 0, len(r.Labels)+1)
	for _, label := range r.Labels {
		if strings.Contains(label, "|") {
			label = "(" + label + ")"
		}
		parts = append(parts, label)
	}
	if r.Env != "" {
		if r.DefaultEnv {
			parts = append(parts, "("+r.Env+")")
		} else {
			parts = append(parts, r.Env)
		}
	}
	return strings.Join(parts, " ")
}

// Rows lists every runnable key path in key order.
func (r *Registry) Rows() []Row {
	var rows []Row
	var walk func(e *Entry, labels []string)
	walk = func(e *Entry, labels []string) {
		for _, c := range e.Children() {
			childLabels := append(slices.Clone(labels), strings.Join(c.Names(), "|"))
			if !c.IsGroup() {
				rows = append(rows, leafRows(c, childLabels)...)
				continue
			}
			if leaf, err := descendDefaults(c); err == nil {
				l, _ := leaf.Leaf()
				rows = append(rows, envRows(Row{
					Path:        slices.Clone(c.Path),
					Labels:      childLabels,
					Command:     l.Command,
					Name:        c.Name(),
					Description: c.Description(),
					Document:    c.Document,
					Group:       true,
				}, leaf.Effective)...)
			}
			walk(c, childLabels)
		}
	}
	walk(r.root, nil)
	return rows
}

func leafRows(e *Entry, labels []string) []Row {
	l, _ := e.Leaf()
	return envRows(Row{
		Path:        slices.Clone(e.Path),
		Labels:      labels,
		Command:     l.Command,
		Name:        e.Name(),
		Description: e.Description(),
		Document:    e.Document,
	}, e.Effective)
}

// envRows expands base into one row per environment of eff. A row without
// an environment is kept only when there is no default environment.
func envRows(base Row, eff dsfile.Effective) []Row {
	if len(eff.Envs) == 0 {
		return []Row{base}
	}

	var rows []Row
	if eff.DefaultEnv == "" {
		rows = append(rows, base)
	}
	for _, name := range slices.Sorted(maps.Keys(eff.Envs)) {
		row := base
		row.Env = name
		row.DefaultEnv = name == eff.DefaultEnv
		rows = append(rows, row)
	}
	return rows
}
