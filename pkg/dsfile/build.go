// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"mvdan.cc/sh/v3/shell"
)

// topLevelOnlyNodeKeys are node fields that make no sense on the top-level group.
var topLevelOnlyNodeKeys = []string{"command", "aliases", "mode"}

type builder struct {
	doc string
	dir string
}

// Build instantiates the command tree of one decoded document. raw is the
// generic form produced by the decoders; path is the document's absolute path
// and the directory relative paths are resolved against.
func Build(raw map[string]any, path string) (*Document, error) {
	b := &builder{doc: path, dir: filepath.Dir(path)}

	for _, key := range topLevelOnlyNodeKeys {
		if _, ok := raw[key]; ok {
			return nil, shapeErr(path, nil, "%q is not allowed at the top level of a document", key)
		}
	}

	root, err := b.group(nil, raw)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Dir: b.dir, Root: root}, nil
}

func (b *builder) node(path []string, v any) (Node, error) {
	switch t := v.(type) {
	case string:
		return &Leaf{Command: t}, nil
	case map[string]any:
		_, hasCommand := t["command"]
		_, hasCommands := t["commands"]
		switch {
		case hasCommand && hasCommands:
			return nil, shapeErr(b.doc, path, "a node cannot declare both command and commands")
		case hasCommands:
			return b.group(path, t)
		case hasCommand:
			return b.leaf(path, t)
		default:
			return nil, shapeErr(b.doc, path, "a node must declare either command or commands")
		}
	default:
		return nil, shapeErr(b.doc, path, "expected a command string or a mapping, got %s", describe(v))
	}
}

func (b *builder) leaf(path []string, m map[string]any) (*Leaf, error) {
	for _, key := range []string{"default", "mode"} {
		if _, ok := m[key]; ok {
			return nil, shapeErr(b.doc, path, "%q is only allowed on groups", key)
		}
	}
	cmd, ok := m["command"].(string)
	if !ok {
		return nil, shapeErr(b.doc, path, "command must be a string, got %s", describe(m["command"]))
	}
	settings, err := b.settings(path, m)
	if err != nil {
		return nil, err
	}
	return &Leaf{Settings: settings, Command: cmd}, nil
}

func (b *builder) group(path []string, m map[string]any) (*Group, error) {
	settings, err := b.settings(path, m)
	if err != nil {
		return nil, err
	}
	g := &Group{Settings: settings, Commands: map[string]Node{}}

	if g.Default, err = b.optString(path, m, "default"); err != nil {
		return nil, err
	}
	mode, err := b.optString(path, m, "mode")
	if err != nil {
		return nil, err
	}
	if mode != nil {
		md := Mode(*mode)
		if err := md.Validate(); err != nil {
			return nil, shapeErr(b.doc, path, "%v", err)
		}
		g.Mode = &md
	}

	rawCommands, ok := m["commands"]
	if !ok || rawCommands == nil {
		return g, nil
	}
	commands, ok := rawCommands.(map[string]any)
	if !ok {
		return nil, shapeErr(b.doc, path, "commands must be a mapping, got %s", describe(rawCommands))
	}

	for _, key := range slices.Sorted(maps.Keys(commands)) {
		if key == "" {
			return nil, shapeErr(b.doc, path, "command keys must not be empty")
		}
		child, err := b.node(appendPath(path, key), commands[key])
		if err != nil {
			return nil, err
		}
		g.Commands[key] = child
	}
	if err := b.checkNames(path, g); err != nil {
		return nil, err
	}
	return g, nil
}

// checkNames enforces one key/alias namespace per group.
func (b *builder) checkNames(path []string, g *Group) error {
	owners := make(map[string]string, len(g.Commands))
	for key := range g.Commands {
		owners[key] = key
	}
	for _, key := range g.Keys() {
		for _, alias := range g.Commands[key].NodeSettings().Aliases {
			if owner, ok := owners[alias]; ok && owner != key {
				return &DuplicateKeyError{Document: b.doc, Path: clonePath(path), Key: alias, Owners: [2]string{owner, key}}
			}
			owners[alias] = key
		}
	}
	return nil
}

func (b *builder) settings(path []string, m map[string]any) (Settings, error) {
	var s Settings

	for field, dst := range map[string]*string{"name": &s.Name, "description": &s.Description} {
		v, err := b.optString(path, m, field)
		if err != nil {
			return s, err
		}
		if v != nil {
			*dst = *v
		}
	}

	if raw, ok := m["aliases"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return s, shapeErr(b.doc, path, "aliases must be a list of strings, got %s", describe(raw))
		}
		for _, item := range list {
			alias, ok := item.(string)
			if !ok || alias == "" {
				return s, shapeErr(b.doc, path, "aliases must be non-empty strings, got %s", describe(item))
			}
			s.Aliases = append(s.Aliases, alias)
		}
	}

	if raw, ok := m["root"]; ok && raw != nil {
		root, err := b.root(path, raw)
		if err != nil {
			return s, err
		}
		s.Root = root
	}

	if raw, ok := m["envs"]; ok && raw != nil {
		envs, err := b.envs(path, raw)
		if err != nil {
			return s, err
		}
		s.Envs = envs
	}

	var err error
	if s.DefaultEnv, err = b.optString(path, m, "default_env"); err != nil {
		return s, err
	}
	return s, nil
}

func (b *builder) root(path []string, raw any) (*Root, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, shapeErr(b.doc, path, "root must be a mapping with path and scope, got %s", describe(raw))
	}
	p, ok := m["path"].(string)
	if !ok || p == "" {
		return nil, shapeErr(b.doc, path, "root.path must be a non-empty string")
	}
	resolved, err := b.resolvePath(p)
	if err != nil {
		return nil, shapeErr(b.doc, path, "root.path: %v", err)
	}

	r := &Root{Path: resolved}
	if rawScope, ok := m["scope"]; ok && rawScope != nil {
		sc, ok := rawScope.(string)
		if !ok {
			return nil, shapeErr(b.doc, path, "root.scope must be a string, got %s", describe(rawScope))
		}
		r.Scope = Scope(sc)
		if err := r.Scope.Validate(); err != nil {
			return nil, shapeErr(b.doc, path, "root.scope: %v", err)
		}
	}
	return r, nil
}

func (b *builder) envs(path []string, raw any) (map[string]EnvSpec, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, shapeErr(b.doc, path, "envs must be a mapping, got %s", describe(raw))
	}
	envs := make(map[string]EnvSpec, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		spec, err := b.envSpec(path, name, m[name])
		if err != nil {
			return nil, err
		}
		envs[name] = spec
	}
	return envs, nil
}

// envSpec accepts either a dotenv path string or a mapping with any of
// path, command_prefix and vars.
func (b *builder) envSpec(path []string, name string, raw any) (EnvSpec, error) {
	switch t := raw.(type) {
	case string:
		p, err := b.resolvePath(t)
		if err != nil {
			return EnvSpec{}, shapeErr(b.doc, path, "envs.%s: %v", name, err)
		}
		return EnvSpec{Path: &p}, nil
	case map[string]any:
		var spec EnvSpec
		for key, v := range t {
			switch key {
			case "path":
				s, ok := v.(string)
				if !ok {
					return EnvSpec{}, shapeErr(b.doc, path, "envs.%s.path must be a string", name)
				}
				p, err := b.resolvePath(s)
				if err != nil {
					return EnvSpec{}, shapeErr(b.doc, path, "envs.%s.path: %v", name, err)
				}
				spec.Path = &p
			case "command_prefix":
				s, ok := v.(string)
				if !ok {
					return EnvSpec{}, shapeErr(b.doc, path, "envs.%s.command_prefix must be a string", name)
				}
				spec.CommandPrefix = &s
			case "vars":
				vars, err := b.vars(path, name, v)
				if err != nil {
					return EnvSpec{}, err
				}
				spec.Vars = vars
			default:
				return EnvSpec{}, shapeErr(b.doc, path, "envs.%s: unknown field %q", name, key)
			}
		}
		return spec, nil
	default:
		return EnvSpec{}, shapeErr(b.doc, path, "envs.%s must be a dotenv path or a mapping, got %s", name, describe(raw))
	}
}

func (b *builder) vars(path []string, env string, raw any) (map[string]string, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, shapeErr(b.doc, path, "envs.%s.vars must be a mapping, got %s", env, describe(raw))
	}
	vars := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			vars[k] = t
		case float64:
			vars[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			vars[k] = strconv.FormatBool(t)
		default:
			return nil, shapeErr(b.doc, path, "envs.%s.vars.%s must be a scalar, got %s", env, k, describe(v))
		}
	}
	return vars, nil
}

func (b *builder) optString(path []string, m map[string]any, key string) (*string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, shapeErr(b.doc, path, "%s must be a string, got %s", key, describe(raw))
	}
	return &s, nil
}

// resolvePath expands $VARS and a leading ~, then anchors relative paths at
// the document's directory.
func (b *builder) resolvePath(p string) (string, error) {
	return ResolvePath(p, b.dir)
}

// ResolvePath expands environment variables and a leading "~" in p and makes
// the result absolute relative to base.
func ResolvePath(p, base string) (string, error) {
	expanded, err := shell.Expand(p, nil)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", p, err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(base, expanded)
	}
	return filepath.Clean(expanded), nil
}

func appendPath(path []string, key string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, key)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "a list"
	case map[string]any:
		return "a mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
