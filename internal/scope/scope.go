// SPDX-License-Identifier: MPL-2.0

// Package scope decides whether commands declared under a root are visible
// from the invocation directory.
package scope

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dosomething/ds/pkg/dsfile"
)

// Canonical returns the absolute, symlink-resolved form of path. Paths that do
// not exist are returned absolute and cleaned.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return filepath.Clean(abs), nil
		}
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// Visible reports whether commands under root may be invoked from cwd.
// A nil root and the global scope are always visible; git_root requires cwd
// to be the root path or below it; exact requires cwd to be the root path.
func Visible(root *dsfile.Root, cwd string) (bool, error) {
	if root == nil {
		return true, nil
	}
	if err := root.Scope.Validate(); err != nil {
		return false, err
	}

	switch root.Scope.OrGlobal() {
	case dsfile.ScopeGlobal:
		return true, nil
	case dsfile.ScopeGitRoot:
		base, here, err := canonicalPair(root.Path, cwd)
		if err != nil {
			return false, err
		}
		return Within(base, here), nil
	case dsfile.ScopeExact:
		base, here, err := canonicalPair(root.Path, cwd)
		if err != nil {
			return false, err
		}
		return base == here, nil
	default:
		return false, nil
	}
}

// Within reports whether path equals base or is a descendant of it. Both
// arguments must already be canonical.
func Within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// FilterDocuments drops documents whose own top-level root is not visible
// from cwd. Order is preserved.
func FilterDocuments(docs []*dsfile.Document, cwd string) ([]*dsfile.Document, error) {
	out := make([]*dsfile.Document, 0, len(docs))
	for _, doc := range docs {
		ok, err := Visible(doc.RootScope(), cwd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Path, err)
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func canonicalPair(base, cwd string) (string, string, error) {
	b, err := Canonical(base)
	if err != nil {
		return "", "", err
	}
	c, err := Canonical(cwd)
	if err != nil {
		return "", "", err
	}
	return b, c, nil
}
