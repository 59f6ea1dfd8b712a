// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/internal/discovery"
	"github.com/dosomething/ds/internal/environ"
	"github.com/dosomething/ds/internal/planner"
	"github.com/dosomething/ds/internal/registry"
	"github.com/dosomething/ds/internal/scope"
	"github.com/dosomething/ds/pkg/dsfile"
)

type (
	// Pipeline builds registries and execution plans for one working directory.
	Pipeline struct {
		// Provider loads the global configuration. Defaults to config.NewProvider().
		Provider config.Provider
		// LoadOptions are passed to Provider.
		LoadOptions config.LoadOptions
		// Cwd is the invocation directory. Defaults to os.Getwd().
		Cwd string
		// Logger receives debug records. Defaults to a discarding logger.
		Logger *log.Logger
	}

	// Loaded is the state of one invocation before any argument is resolved.
	Loaded struct {
		Config *config.Config
		// Cwd is the directory scope and discovery were evaluated against.
		Cwd string
		// Files are all discovery sources considered.
		Files []*discovery.DiscoveredFile
		// Documents are the visible documents, lowest precedence first.
		Documents   []*dsfile.Document
		Diagnostics []discovery.Diagnostic
		Registry    *registry.Registry
	}

	// Invocation is a fully resolved command ready to run.
	Invocation struct {
		Loaded     *Loaded
		Resolution *registry.Resolution
		Env        environ.EnvPlan
		Plan       *planner.ExecutionPlan
	}
)

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

func (p *Pipeline) provider() config.Provider {
	if p.Provider == nil {
		return config.NewProvider()
	}
	return p.Provider
}

// Load reads the configuration, discovers and parses every command document,
// drops documents whose scope excludes the working directory and merges the
// rest into a registry.
func (p *Pipeline) Load(ctx context.Context) (*Loaded, error) {
	cfg, err := p.provider().Load(ctx, p.LoadOptions)
	if err != nil {
		return nil, err
	}
	logger := p.logger()

	d := discovery.New(cfg, discovery.WithBaseDir(p.Cwd), discovery.WithLogger(logger))
	res, err := d.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, diag := range res.Diagnostics {
		logDiagnostic(logger, diag)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load canceled: %w", err)
	}

	cwd := d.BaseDir()
	visible, err := scope.FilterDocuments(res.Documents, cwd)
	if err != nil {
		return nil, err
	}
	if dropped := len(res.Documents) - len(visible); dropped > 0 {
		logger.Debug("documents hidden by scope", "count", dropped, "cwd", cwd)
	}

	reg, err := registry.Merge(visible, cfg.OnConflict, cwd, registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("registry built", "documents", len(visible), "entries", reg.Len(), "policy", cfg.OnConflict)

	return &Loaded{
		Config:      cfg,
		Cwd:         cwd,
		Files:       res.Files,
		Documents:   visible,
		Diagnostics: res.Diagnostics,
		Registry:    reg,
	}, nil
}

// Registry returns a freshly built registry.
func (p *Pipeline) Registry(ctx context.Context) (*registry.Registry, error) {
	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return loaded.Registry, nil
}

// Plan loads the registry and resolves args into an execution plan. args are
// the key path optionally followed by one environment name; passthrough
// arguments are appended to the command line.
func (p *Pipeline) Plan(ctx context.Context, args, passthrough []string) (*Invocation, error) {
	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return loaded.Plan(args, passthrough)
}

// Plan resolves args against the loaded registry.
func (l *Loaded) Plan(args, passthrough []string) (*Invocation, error) {
	res, err := l.Registry.Resolve(args)
	if err != nil {
		return nil, err
	}

	arg, err := environ.EnvArg(res.Remaining)
	if err != nil {
		return nil, err
	}
	eff := res.Entry.Effective
	env, err := environ.Compose(eff.Envs, eff.DefaultEnv, arg)
	if err != nil {
		return nil, err
	}

	plan, err := planner.Plan(res, env, l.Cwd, passthrough)
	if err != nil {
		return nil, err
	}
	return &Invocation{Loaded: l, Resolution: res, Env: env, Plan: plan}, nil
}

func logDiagnostic(logger *log.Logger, d discovery.Diagnostic) {
	kv := []any{"code", d.Code}
	if d.Path != "" {
		kv = append(kv, "path", d.Path)
	}
	if d.Cause != nil {
		kv = append(kv, "err", d.Cause)
	}
	if d.Severity == discovery.SeverityWarning {
		logger.Warn(d.Message, kv...)
		return
	}
	logger.Debug(d.Message, kv...)
}
