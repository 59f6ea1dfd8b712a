// SPDX-License-Identifier: MPL-2.0

package dsfile

// Effective holds the settings of a node after folding its ancestor chain.
// The zero value (plus ModeNormal) is the state above a document's top level.
type Effective struct {
	// Root is the nearest declared root, or nil when no ancestor declares one.
	Root *Root
	// Envs is the key-by-key merge of every envs map along the chain.
	Envs map[string]EnvSpec
	// DefaultEnv is the nearest declared default environment, or "".
	DefaultEnv string
	// Mode is the nearest declared group mode.
	Mode Mode
}

// TopLevel returns the effective state a document's top-level group starts from.
func TopLevel() Effective {
	return Effective{Mode: ModeNormal}
}

// Inherit applies one level of local settings over e. mode is the node's own
// declared mode (always nil for leaves).
func (e Effective) Inherit(local *Settings, mode *Mode) Effective {
	out := e
	if local != nil {
		if local.Root != nil {
			r := *local.Root
			out.Root = &r
		}
		if local.Envs != nil {
			out.Envs = MergeEnvs(e.Envs, local.Envs)
		}
		if local.DefaultEnv != nil {
			out.DefaultEnv = *local.DefaultEnv
		}
	}
	if mode != nil {
		out.Mode = *mode
	}
	if out.Mode == "" {
		out.Mode = ModeNormal
	}
	return out
}

// Scope returns the effective scope, ScopeGlobal when no root is set.
func (e Effective) Scope() Scope {
	if e.Root == nil {
		return ScopeGlobal
	}
	return e.Root.Scope.OrGlobal()
}

// WorkDir returns the effective root path, or "" when none is declared.
func (e Effective) WorkDir() string {
	if e.Root == nil {
		return ""
	}
	return e.Root.Path
}

// Flattened reports whether the effective mode promotes children.
func (e Effective) Flattened() bool {
	return e.Mode == ModeFlattened
}
