// SPDX-License-Identifier: MPL-2.0

package dsfile

// EnvSpec is one named environment definition. Nil fields are unset and fall
// through to the same-named environment declared by an ancestor.
type EnvSpec struct {
	// Path is the dotenv file to load, absolute once the document is built.
	Path *string
	// CommandPrefix is prepended (space-separated) to the command line.
	CommandPrefix *string
	// Vars are literal variables exported to the command.
	Vars map[string]string
}

// Merge returns the result of layering deeper over e. Scalar fields set on
// deeper replace those of e, vars are unioned with deeper keys winning.
// Neither operand is modified.
func (e EnvSpec) Merge(deeper EnvSpec) EnvSpec {
	out := EnvSpec{
		Path:          e.Path,
		CommandPrefix: e.CommandPrefix,
	}
	if deeper.Path != nil {
		out.Path = deeper.Path
	}
	if deeper.CommandPrefix != nil {
		out.CommandPrefix = deeper.CommandPrefix
	}
	if len(e.Vars) > 0 || len(deeper.Vars) > 0 {
		out.Vars = make(map[string]string, len(e.Vars)+len(deeper.Vars))
		for k, v := range e.Vars {
			out.Vars[k] = v
		}
		for k, v := range deeper.Vars {
			out.Vars[k] = v
		}
	}
	return out
}

// MergeEnvs merges two env maps key by key. Names present in only one map are
// kept as they are; names present in both are merged with EnvSpec.Merge.
// Returns nil when both maps are nil.
func MergeEnvs(outer, deeper map[string]EnvSpec) map[string]EnvSpec {
	if outer == nil && deeper == nil {
		return nil
	}
	out := make(map[string]EnvSpec, len(outer)+len(deeper))
	for name, spec := range outer {
		out[name] = spec
	}
	for name, spec := range deeper {
		if base, ok := out[name]; ok {
			out[name] = base.Merge(spec)
			continue
		}
		out[name] = spec
	}
	return out
}
