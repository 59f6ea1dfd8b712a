// SPDX-License-Identifier: MPL-2.0

package dsfile

import "testing"

func TestEffectiveInherit(t *testing.T) {
	t.Parallel()

	flat := ModeFlattened
	normal := ModeNormal

	top := TopLevel().Inherit(&Settings{
		Root:       &Root{Path: "/proj", Scope: ScopeGitRoot},
		Envs:       map[string]EnvSpec{"dev": {Path: strPtr("/proj/.env.dev")}},
		DefaultEnv: strPtr("dev"),
	}, nil)

	t.Run("unset fields inherit", func(t *testing.T) {
		t.Parallel()

		got := top.Inherit(&Settings{}, nil)
		if got.WorkDir() != "/proj" {
			t.Errorf("WorkDir() = %q, want /proj", got.WorkDir())
		}
		if got.Scope() != ScopeGitRoot {
			t.Errorf("Scope() = %q, want git_root", got.Scope())
		}
		if got.DefaultEnv != "dev" {
			t.Errorf("DefaultEnv = %q, want dev", got.DefaultEnv)
		}
		if got.Mode != ModeNormal {
			t.Errorf("Mode = %q, want normal", got.Mode)
		}
	})

	t.Run("set fields replace", func(t *testing.T) {
		t.Parallel()

		got := top.Inherit(&Settings{
			Root:       &Root{Path: "/proj/app", Scope: ScopeExact},
			DefaultEnv: strPtr("prod"),
		}, nil)
		if got.WorkDir() != "/proj/app" {
			t.Errorf("WorkDir() = %q, want /proj/app", got.WorkDir())
		}
		if got.Scope() != ScopeExact {
			t.Errorf("Scope() = %q, want exact", got.Scope())
		}
		if got.DefaultEnv != "prod" {
			t.Errorf("DefaultEnv = %q, want prod", got.DefaultEnv)
		}
		if top.WorkDir() != "/proj" {
			t.Errorf("parent WorkDir() changed to %q", top.WorkDir())
		}
	})

	t.Run("envs merge per key", func(t *testing.T) {
		t.Parallel()

		got := top.Inherit(&Settings{
			Envs: map[string]EnvSpec{"dev": {Vars: map[string]string{"X": "1"}}},
		}, nil)
		dev := got.Envs["dev"]
		if dev.Path == nil || *dev.Path != "/proj/.env.dev" {
			t.Errorf("dev.Path = %v, want inherited /proj/.env.dev", dev.Path)
		}
		if dev.Vars["X"] != "1" {
			t.Errorf("dev.Vars[X] = %q, want 1", dev.Vars["X"])
		}
		if top.Envs["dev"].Vars != nil {
			t.Error("parent envs were mutated")
		}
	})

	t.Run("mode inherits until overridden", func(t *testing.T) {
		t.Parallel()

		flattened := top.Inherit(&Settings{}, &flat)
		if !flattened.Flattened() {
			t.Fatal("expected flattened mode")
		}
		if !flattened.Inherit(&Settings{}, nil).Flattened() {
			t.Error("nested group without mode should inherit flattened")
		}
		if flattened.Inherit(&Settings{}, &normal).Flattened() {
			t.Error("explicit normal should override inherited flattened")
		}
	})

	t.Run("no root means global scope", func(t *testing.T) {
		t.Parallel()

		if got := TopLevel().Scope(); got != ScopeGlobal {
			t.Errorf("Scope() = %q, want global", got)
		}
		if got := TopLevel().WorkDir(); got != "" {
			t.Errorf("WorkDir() = %q, want empty", got)
		}
	})
}
