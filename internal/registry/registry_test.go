// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/pkg/dsfile"
)

func parseDoc(t *testing.T, path, content string) *dsfile.Document {
	t.Helper()

	doc, err := dsfile.Parse([]byte(content), path)
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", path, err)
	}
	return doc
}

func mustMerge(t *testing.T, policy config.OnConflict, cwd string, docs ...*dsfile.Document) *Registry {
	t.Helper()

	reg, err := Merge(docs, policy, cwd)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	return reg
}

func resolveCommand(t *testing.T, reg *Registry, args ...string) string {
	t.Helper()

	res, err := reg.Resolve(args)
	if err != nil {
		t.Fatalf("Resolve(%v) error = %v", args, err)
	}
	return res.Leaf().Command
}

func TestMergeOrderSensitivity(t *testing.T) {
	t.Parallel()

	a := parseDoc(t, "/global/ds.yaml", "commands:\n  x: echo from-a\n")
	b := parseDoc(t, "/proj/ds.yaml", "commands:\n  x: echo from-b\n")

	t.Run("override keeps the higher precedence leaf", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj", a, b)
		if got := resolveCommand(t, reg, "x"); got != "echo from-b" {
			t.Errorf("x = %q, want %q", got, "echo from-b")
		}
		entry, _ := reg.Lookup("x")
		if entry.Document != b {
			t.Errorf("x.Document = %s, want %s", entry.Document.Path, b.Path)
		}

		reversed := mustMerge(t, config.OnConflictOverride, "/proj", b, a)
		if got := resolveCommand(t, reversed, "x"); got != "echo from-a" {
			t.Errorf("reversed x = %q, want %q", got, "echo from-a")
		}
	})

	t.Run("error policy fails", func(t *testing.T) {
		t.Parallel()

		_, err := Merge([]*dsfile.Document{a, b}, config.OnConflictError, "/proj")
		if !errors.Is(err, ErrCommandConflict) {
			t.Fatalf("Merge() error = %v, want ErrCommandConflict", err)
		}
		var ce *CommandConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("error = %T", err)
		}
		if ce.Existing != a.Path || ce.Incoming != b.Path {
			t.Errorf("conflict documents = %s, %s", ce.Existing, ce.Incoming)
		}
		if !strings.HasPrefix(err.Error(), "command conflict") {
			t.Errorf("error = %q, want command conflict prefix", err)
		}
	})
}

func TestMergeGroupsRecursively(t *testing.T) {
	t.Parallel()

	a := parseDoc(t, "/global/ds.yaml", `
commands:
  app:
    description: from a
    default: build
    commands:
      build: make
      test: make test
`)
	b := parseDoc(t, "/proj/ds.yaml", `
commands:
  app:
    aliases: [a]
    description: from b
    commands:
      dev: npm run dev
      test: npm test
`)

	for _, policy := range []config.OnConflict{config.OnConflictOverride, config.OnConflictError} {
		t.Run(string(policy), func(t *testing.T) {
			t.Parallel()

			_, err := Merge([]*dsfile.Document{a, b}, policy, "/proj")
			if policy == config.OnConflictError {
				// app.test collides.
				if !errors.Is(err, ErrCommandConflict) {
					t.Fatalf("Merge() error = %v, want ErrCommandConflict", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Merge() error = %v", err)
			}
		})
	}

	reg := mustMerge(t, config.OnConflictOverride, "/proj", a, b)
	app, ok := reg.Lookup("app")
	if !ok {
		t.Fatal("app missing")
	}
	if got := strings.Join(app.ChildKeys(), ","); got != "build,dev,test" {
		t.Errorf("app children = %s, want build,dev,test", got)
	}
	if app.Description() != "from b" {
		t.Errorf("app description = %q, want latest definer's", app.Description())
	}
	if got := resolveCommand(t, reg, "a", "test"); got != "npm test" {
		t.Errorf("app test = %q, want npm test", got)
	}
	if got := resolveCommand(t, reg, "app"); got != "make" {
		t.Errorf("bare app = %q, want default from lower document", got)
	}
	if reg.Len() != 4 {
		t.Errorf("Len() = %d, want 4", reg.Len())
	}
}

func TestMergeLeafAndGroupCollide(t *testing.T) {
	t.Parallel()

	a := parseDoc(t, "/global/ds.yaml", "commands:\n  app:\n    commands:\n      dev: x\n")
	b := parseDoc(t, "/proj/ds.yaml", "commands:\n  app: echo leaf\n")

	reg := mustMerge(t, config.OnConflictOverride, "/proj", a, b)
	if got := resolveCommand(t, reg, "app"); got != "echo leaf" {
		t.Errorf("app = %q, want leaf from higher document", got)
	}
	if _, ok := reg.Lookup("app", "dev"); ok {
		t.Error("children of the replaced group should be gone")
	}

	if _, err := Merge([]*dsfile.Document{a, b}, config.OnConflictError, "/proj"); !errors.Is(err, ErrCommandConflict) {
		t.Errorf("Merge() error = %v, want ErrCommandConflict", err)
	}
}

func TestMergeAliasCollisions(t *testing.T) {
	t.Parallel()

	a := parseDoc(t, "/global/ds.yaml", "commands:\n  build:\n    command: make\n    aliases: [b]\n")
	b := parseDoc(t, "/proj/ds.yaml", "commands:\n  bench:\n    command: go test -bench .\n    aliases: [b]\n")

	reg := mustMerge(t, config.OnConflictOverride, "/proj", a, b)
	if got := resolveCommand(t, reg, "b"); got != "go test -bench ." {
		t.Errorf("b = %q, want the later alias owner", got)
	}
	if got := resolveCommand(t, reg, "build"); got != "make" {
		t.Errorf("build = %q, want it still reachable by key", got)
	}
	build, _ := reg.Lookup("build")
	if len(build.Aliases) != 0 {
		t.Errorf("build aliases = %v, want alias taken away", build.Aliases)
	}

	if _, err := Merge([]*dsfile.Document{a, b}, config.OnConflictError, "/proj"); !errors.Is(err, ErrCommandConflict) {
		t.Errorf("Merge() error = %v, want ErrCommandConflict", err)
	}
}

func TestAliasSymmetry(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "/proj/ds.yaml", `
commands:
  app:
    aliases: [a]
    commands:
      dev:
        aliases: [d]
        command: npm run dev
`)
	reg := mustMerge(t, config.OnConflictOverride, "/proj", doc)

	var entries []*Entry
	for _, args := range [][]string{{"app", "dev"}, {"a", "dev"}, {"app", "d"}, {"a", "d"}} {
		res, err := reg.Resolve(append(args, "extra"))
		if err != nil {
			t.Fatalf("Resolve(%v) error = %v", args, err)
		}
		if !reflect.DeepEqual(res.Keys(), []string{"app", "dev"}) {
			t.Errorf("Resolve(%v).Keys() = %v, want [app dev]", args, res.Keys())
		}
		if !reflect.DeepEqual(res.Remaining, []string{"extra"}) {
			t.Errorf("Resolve(%v).Remaining = %v, want [extra]", args, res.Remaining)
		}
		entries = append(entries, res.Entry)
	}
	for _, e := range entries[1:] {
		if e != entries[0] {
			t.Error("aliases resolved to different entries")
		}
	}
}

func TestDefaultFallback(t *testing.T) {
	t.Parallel()

	t.Run("no default is ambiguous", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "commands:\n  g:\n    commands:\n      dev: d\n      build: b\n"))
		_, err := reg.Resolve([]string{"g"})
		if !errors.Is(err, ErrAmbiguousGroup) {
			t.Fatalf("Resolve() error = %v, want ErrAmbiguousGroup", err)
		}
		var ae *AmbiguousGroupError
		if !errors.As(err, &ae) {
			t.Fatalf("error = %T", err)
		}
		if !reflect.DeepEqual(ae.Children, []string{"build", "dev"}) {
			t.Errorf("Children = %v, want [build dev]", ae.Children)
		}
		if !strings.HasPrefix(err.Error(), "ambiguous group") {
			t.Errorf("error = %q", err)
		}
	})

	t.Run("default setting", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "commands:\n  g:\n    default: dev\n    commands:\n      dev: d\n      build: b\n"))
		bare, err := reg.Resolve([]string{"g"})
		if err != nil {
			t.Fatalf("Resolve([g]) error = %v", err)
		}
		full, err := reg.Resolve([]string{"g", "dev"})
		if err != nil {
			t.Fatalf("Resolve([g dev]) error = %v", err)
		}
		if bare.Entry != full.Entry {
			t.Error("[g] and [g dev] resolved differently")
		}
	})

	t.Run("default setting may name an alias", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "commands:\n  g:\n    default: d\n    commands:\n      dev:\n        command: d\n        aliases: [d]\n"))
		if got := resolveCommand(t, reg, "g"); got != "d" {
			t.Errorf("g = %q, want d", got)
		}
	})

	t.Run("child named default", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "commands:\n  g:\n    commands:\n      default: echo fallback\n      build: b\n"))
		if got := resolveCommand(t, reg, "g"); got != "echo fallback" {
			t.Errorf("g = %q, want echo fallback", got)
		}
	})

	t.Run("nested defaults", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "default: app\ncommands:\n  app:\n    default: web\n    commands:\n      web:\n        commands:\n          default: serve\n"))
		if got := resolveCommand(t, reg); got != "serve" {
			t.Errorf("bare ds = %q, want serve", got)
		}
	})

	t.Run("default naming a missing child", func(t *testing.T) {
		t.Parallel()

		reg := mustMerge(t, config.OnConflictOverride, "/proj",
			parseDoc(t, "/proj/ds.yaml", "commands:\n  g:\n    default: nope\n    commands:\n      dev: d\n"))
		_, err := reg.Resolve([]string{"g"})
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Resolve() error = %v, want NotFoundError", err)
		}
		if !nf.ViaDefault || nf.Segment != "nope" {
			t.Errorf("NotFoundError = %+v, want ViaDefault for nope", nf)
		}
	})
}

func TestResolveGroupWithEnv(t *testing.T) {
	t.Parallel()

	reg := mustMerge(t, config.OnConflictOverride, "/proj",
		parseDoc(t, "/proj/ds.yaml", `
commands:
  g:
    default: dev
    commands:
      dev:
        command: npm run dev
        envs:
          prod:
            vars:
              STAGE: prod
      build: npm run build
  h:
    commands:
      a: echo a
`))

	tests := []struct {
		name          string
		args          []string
		wantCommand   string
		wantRemaining []string
		wantErr       error
	}{
		{name: "env after group", args: []string{"g", "prod"}, wantCommand: "npm run dev", wantRemaining: []string{"prod"}},
		{name: "child wins over env", args: []string{"g", "build"}, wantCommand: "npm run build"},
		{name: "unknown env", args: []string{"g", "stage"}, wantErr: ErrNotFound},
		{name: "env not last", args: []string{"g", "prod", "x"}, wantErr: ErrNotFound},
		{name: "group without default", args: []string{"h", "prod"}, wantErr: ErrNotFound},
		{name: "top level env", args: []string{"prod"}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := reg.Resolve(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%v) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v) error = %v", tt.args, err)
			}
			if got := res.Leaf().Command; got != tt.wantCommand {
				t.Errorf("command = %q, want %q", got, tt.wantCommand)
			}
			if !reflect.DeepEqual(res.Remaining, tt.wantRemaining) && (len(res.Remaining) != 0 || len(tt.wantRemaining) != 0) {
				t.Errorf("Remaining = %v, want %v", res.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	reg := mustMerge(t, config.OnConflictOverride, "/proj",
		parseDoc(t, "/proj/ds.yaml", "commands:\n  app:\n    commands:\n      dev: d\n"))

	tests := []struct {
		args     []string
		wantPath string
		wantSeg  string
	}{
		{args: []string{"web"}, wantPath: "(root)", wantSeg: "web"},
		{args: []string{"app", "prod"}, wantPath: "app", wantSeg: "prod"},
		{args: []string{"App"}, wantPath: "(root)", wantSeg: "App"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			_, err := reg.Resolve(tt.args)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
			}
			var nf *NotFoundError
			errors.As(err, &nf)
			if got := dsfile.FormatKeyPath(nf.Path); got != tt.wantPath {
				t.Errorf("Path = %q, want %q", got, tt.wantPath)
			}
			if nf.Segment != tt.wantSeg {
				t.Errorf("Segment = %q, want %q", nf.Segment, tt.wantSeg)
			}
			if !strings.HasPrefix(err.Error(), "command not found") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestFlattenPromotion(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "/proj/ds.yaml", `
commands:
  g:
    mode: flattened
    root:
      path: ./tools
    envs:
      ci:
        vars: {CI: "1"}
    commands:
      build: make
      nested:
        commands:
          deep: echo deep
      kept:
        mode: normal
        commands:
          inner: echo inner
`)
	reg := mustMerge(t, config.OnConflictOverride, "/proj", doc)

	res, err := reg.Resolve([]string{"build"})
	if err != nil {
		t.Fatalf("Resolve([build]) error = %v", err)
	}
	if res.Entry.Effective.WorkDir() != "/proj/tools" {
		t.Errorf("build workdir = %q, want /proj/tools", res.Entry.Effective.WorkDir())
	}
	if res.Entry.Effective.Envs["ci"].Vars["CI"] != "1" {
		t.Error("build should inherit g's envs")
	}
	if _, err := reg.Resolve([]string{"g", "build"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve([g build]) error = %v, want ErrNotFound", err)
	}

	// Mode inherits: nested is flattened too, kept opts out.
	if got := resolveCommand(t, reg, "deep"); got != "echo deep" {
		t.Errorf("deep = %q", got)
	}
	if got := resolveCommand(t, reg, "kept", "inner"); got != "echo inner" {
		t.Errorf("kept inner = %q", got)
	}
}

func TestFlattenSameDocumentCollision(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "/proj/ds.yaml", `
commands:
  lint: echo top
  tools:
    mode: flattened
    commands:
      lint: echo tools
`)
	_, err := Merge([]*dsfile.Document{doc}, config.OnConflictOverride, "/proj")
	if !errors.Is(err, dsfile.ErrDuplicateKey) {
		t.Errorf("Merge() error = %v, want ErrDuplicateKey", err)
	}
}

func TestNodeLevelScope(t *testing.T) {
	t.Parallel()

	proj := t.TempDir()
	doc := parseDoc(t, proj+"/ds.yaml", fmt.Sprintf(`
commands:
  everywhere: echo hi
  here:
    command: echo exact
    root:
      path: %[1]s
      scope: exact
  sub:
    root:
      path: %[1]s/sub
      scope: git_root
    commands:
      x: echo x
`, proj))

	reg := mustMerge(t, config.OnConflictOverride, proj, doc)
	if _, ok := reg.Lookup("here"); !ok {
		t.Error("exact-scoped command should be visible from its root")
	}
	if _, ok := reg.Lookup("sub"); ok {
		t.Error("git_root-scoped group rooted below cwd should be hidden")
	}

	other := t.TempDir()
	reg = mustMerge(t, config.OnConflictOverride, other, doc)
	if _, ok := reg.Lookup("here"); ok {
		t.Error("exact-scoped command should be hidden elsewhere")
	}
	if _, ok := reg.Lookup("everywhere"); !ok {
		t.Error("unscoped command should stay visible")
	}
}

func TestMergeRejectsUnknownPolicy(t *testing.T) {
	t.Parallel()

	if _, err := Merge(nil, "merge", "/"); !errors.Is(err, config.ErrInvalidOnConflict) {
		t.Errorf("Merge() error = %v, want ErrInvalidOnConflict", err)
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, "/proj/ds.yaml", `
envs:
  local: .env
  prod: .env.prod
default_env: local
commands:
  app:
    aliases: [a]
    default: dev
    commands:
      dev:
        command: npm run dev
        aliases: [d]
  lint:
    command: golangci-lint run
    description: static checks
`)
	reg := mustMerge(t, config.OnConflictOverride, "/proj", doc)

	var got []string
	for _, row := range reg.Rows() {
		got = append(got, row.Display())
	}
	want := []string{
		"(app|a) (local)",
		"(app|a) prod",
		"(app|a) (dev|d) (local)",
		"(app|a) (dev|d) prod",
		"lint (local)",
		"lint prod",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	rows := reg.Rows()
	if !reflect.DeepEqual(rows[3].Args(), []string{"app", "dev", "prod"}) {
		t.Errorf("Args() = %v", rows[3].Args())
	}
	if !reflect.DeepEqual(rows[2].Args(), []string{"app", "dev"}) {
		t.Errorf("default env Args() = %v", rows[2].Args())
	}
	if !reflect.DeepEqual(rows[1].Args(), []string{"app", "prod"}) {
		t.Errorf("group env Args() = %v", rows[1].Args())
	}
	if rows[4].Description != "static checks" {
		t.Errorf("Description = %q", rows[4].Description)
	}
	for _, row := range rows {
		res, err := reg.Resolve(row.Args())
		if err != nil {
			t.Errorf("Resolve(%v) error = %v", row.Args(), err)
			continue
		}
		if got := res.Leaf().Command; got != row.Command {
			t.Errorf("Resolve(%v) command = %q, want %q", row.Args(), got, row.Command)
		}
	}
}
