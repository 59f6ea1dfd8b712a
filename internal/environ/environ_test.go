// SPDX-License-Identifier: MPL-2.0

package environ

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dosomething/ds/pkg/dsfile"
)

func strPtr(s string) *string { return &s }

func testEnvs() map[string]dsfile.EnvSpec {
	return map[string]dsfile.EnvSpec{
		"local": {Path: strPtr("/proj/.env")},
		"prod": {
			Path:          strPtr("/proj/.env.prod"),
			CommandPrefix: strPtr("aws-vault exec prod --"),
			Vars:          map[string]string{"STAGE": "prod"},
		},
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		envs       map[string]dsfile.EnvSpec
		defaultEnv string
		arg        string
		want       EnvPlan
	}{
		{
			name: "explicit argument",
			envs: testEnvs(),
			arg:  "prod",
			want: EnvPlan{
				Name:          "prod",
				DotenvPath:    "/proj/.env.prod",
				CommandPrefix: "aws-vault exec prod --",
				Vars:          map[string]string{"STAGE": "prod"},
			},
		},
		{
			name:       "argument wins over default",
			envs:       testEnvs(),
			defaultEnv: "prod",
			arg:        "local",
			want:       EnvPlan{Name: "local", DotenvPath: "/proj/.env", Vars: map[string]string{}},
		},
		{
			name:       "default when no argument",
			envs:       testEnvs(),
			defaultEnv: "local",
			want:       EnvPlan{Name: "local", DotenvPath: "/proj/.env", Vars: map[string]string{}},
		},
		{
			name: "no argument and no default loads nothing",
			envs: testEnvs(),
			want: EnvPlan{},
		},
		{
			name: "no envs at all",
			want: EnvPlan{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Compose(tt.envs, tt.defaultEnv, tt.arg)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compose() = %+v, want %+v", got, tt.want)
			}
			if got.Selected() != (tt.want.Name != "") {
				t.Errorf("Selected() = %v", got.Selected())
			}
		})
	}
}

func TestComposeUnknown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		envs          map[string]dsfile.EnvSpec
		defaultEnv    string
		arg           string
		wantAvailable []string
		wantDefault   bool
	}{
		{name: "unknown argument", envs: testEnvs(), arg: "staging", wantAvailable: []string{"local", "prod"}},
		{name: "argument is case sensitive", envs: testEnvs(), arg: "Prod", wantAvailable: []string{"local", "prod"}},
		{name: "missing default", envs: testEnvs(), defaultEnv: "dev", wantAvailable: []string{"local", "prod"}, wantDefault: true},
		{name: "argument without envs", arg: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compose(tt.envs, tt.defaultEnv, tt.arg)
			if !errors.Is(err, ErrUnknownEnv) {
				t.Fatalf("Compose() error = %v, want ErrUnknownEnv", err)
			}
			var ue *UnknownEnvError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %T", err)
			}
			if !reflect.DeepEqual(ue.Available, tt.wantAvailable) && len(ue.Available)+len(tt.wantAvailable) > 0 {
				t.Errorf("Available = %v, want %v", ue.Available, tt.wantAvailable)
			}
			if ue.ViaDefault != tt.wantDefault {
				t.Errorf("ViaDefault = %v, want %v", ue.ViaDefault, tt.wantDefault)
			}
			if !strings.HasPrefix(err.Error(), "unknown environment") {
				t.Errorf("error = %q, want unknown environment prefix", err)
			}
		})
	}
}

func TestComposeDoesNotAliasVars(t *testing.T) {
	t.Parallel()

	envs := testEnvs()
	plan, err := Compose(envs, "", "prod")
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	plan.Vars["STAGE"] = "changed"
	if envs["prod"].Vars["STAGE"] != "prod" {
		t.Error("mutating the plan changed the declared vars")
	}
}

func TestComposeMergedChain(t *testing.T) {
	t.Parallel()

	outer := map[string]dsfile.EnvSpec{
		"dev": {Path: strPtr("/proj/.env"), Vars: map[string]string{"A": "1"}},
	}
	deeper := map[string]dsfile.EnvSpec{
		"dev": {Vars: map[string]string{"B": "2"}},
	}

	plan, err := Compose(dsfile.MergeEnvs(outer, deeper), "dev", "")
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := map[string]string{"A": "1", "B": "2"}
	if !reflect.DeepEqual(plan.Vars, want) {
		t.Errorf("Vars = %v, want %v", plan.Vars, want)
	}
	if plan.DotenvPath != "/proj/.env" {
		t.Errorf("DotenvPath = %q, want inherited path", plan.DotenvPath)
	}
}

func TestEnvArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		remaining []string
		want      string
		wantErr   bool
	}{
		{name: "none"},
		{name: "one", remaining: []string{"prod"}, want: "prod"},
		{name: "too many", remaining: []string{"prod", "--force"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := EnvArg(tt.remaining)
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedArgs) {
					t.Errorf("EnvArg() error = %v, want ErrUnexpectedArgs", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EnvArg() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EnvArg() = %q, want %q", got, tt.want)
			}
		})
	}
}
