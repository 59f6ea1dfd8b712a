// SPDX-License-Identifier: MPL-2.0

package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dosomething/ds/pkg/dsfile"
)

func TestVisible(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	proj := filepath.Join(base, "proj")
	sub := filepath.Join(proj, "sub", "deeper")
	sibling := filepath.Join(base, "proj-other")
	for _, dir := range []string{sub, sibling} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		root *dsfile.Root
		cwd  string
		want bool
	}{
		{name: "nil root", root: nil, cwd: sibling, want: true},
		{name: "global anywhere", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGlobal}, cwd: sibling, want: true},
		{name: "empty scope is global", root: &dsfile.Root{Path: proj}, cwd: base, want: true},
		{name: "git_root at root", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGitRoot}, cwd: proj, want: true},
		{name: "git_root below root", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGitRoot}, cwd: sub, want: true},
		{name: "git_root above root", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGitRoot}, cwd: base, want: false},
		{name: "git_root prefix sibling", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGitRoot}, cwd: sibling, want: false},
		{name: "exact at root", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeExact}, cwd: proj, want: true},
		{name: "exact below root", root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeExact}, cwd: sub, want: false},
		{name: "exact with trailing slash", root: &dsfile.Root{Path: proj + "/", Scope: dsfile.ScopeExact}, cwd: proj, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Visible(tt.root, tt.cwd)
			if err != nil {
				t.Fatalf("Visible() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Visible(%+v, %q) = %v, want %v", tt.root, tt.cwd, got, tt.want)
			}
		})
	}
}

func TestVisibleFollowsSymlinks(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	target := filepath.Join(base, "target")
	if err := os.MkdirAll(filepath.Join(target, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Visible(&dsfile.Root{Path: link, Scope: dsfile.ScopeGitRoot}, filepath.Join(target, "src"))
	if err != nil {
		t.Fatalf("Visible() error = %v", err)
	}
	if !got {
		t.Error("Visible() = false through a symlinked root, want true")
	}
}

func TestVisibleInvalidScope(t *testing.T) {
	t.Parallel()

	if _, err := Visible(&dsfile.Root{Path: "/x", Scope: "nearby"}, "/x"); err == nil {
		t.Error("Visible() with unknown scope should fail")
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, path string
		want       bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/b/c", true},
		{"/a/b", "/a", false},
		{"/a/b", "/a/bc", false},
		{"/a/b", "/a/b/../c", false},
		{"/", "/anything", true},
	}
	for _, tt := range tests {
		if got := Within(tt.base, filepath.Clean(tt.path)); got != tt.want {
			t.Errorf("Within(%q, %q) = %v, want %v", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestFilterDocuments(t *testing.T) {
	t.Parallel()

	proj := t.TempDir()
	other := t.TempDir()

	global := &dsfile.Document{Path: "/cfg/ds.yaml", Root: &dsfile.Group{}}
	scoped := &dsfile.Document{Path: "/x/ds.yaml", Root: &dsfile.Group{
		Settings: dsfile.Settings{Root: &dsfile.Root{Path: proj, Scope: dsfile.ScopeGitRoot}},
	}}
	exact := &dsfile.Document{Path: "/y/ds.yaml", Root: &dsfile.Group{
		Settings: dsfile.Settings{Root: &dsfile.Root{Path: other, Scope: dsfile.ScopeExact}},
	}}

	got, err := FilterDocuments([]*dsfile.Document{global, scoped, exact}, proj)
	if err != nil {
		t.Fatalf("FilterDocuments() error = %v", err)
	}
	if len(got) != 2 || got[0] != global || got[1] != scoped {
		t.Errorf("FilterDocuments() kept %d docs, want [global scoped]", len(got))
	}
}
