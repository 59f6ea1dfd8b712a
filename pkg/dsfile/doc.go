// SPDX-License-Identifier: MPL-2.0

// Package dsfile parses ds command documents into command trees.
//
// A command document (ds.json, ds.cue, ds.yaml, ds.yml or ds.toml) is a nested
// mapping of command keys to either a command string (a Leaf) or a mapping with
// a "commands" key (a Group). Every node may carry settings that are inherited
// by its descendants:
//
//   - root: where the command runs and, through its scope, where it is visible
//   - envs: named environments (dotenv path, command prefix, literal vars)
//   - default_env: environment selected when none is given on the command line
//   - mode (groups only): "normal" or "flattened"
//
// The builder keeps every inheritable field nil unless the node declares it,
// so later stages can tell "inherited" apart from "explicitly set". Folding the
// settings down an ancestor chain is done with Effective.Inherit.
//
// File organization:
//   - model.go: Node sum type, Settings, Document
//   - env.go: EnvSpec and its field-by-field merge
//   - effective.go: inheritance fold
//   - decode.go: format detection and decoding (CUE/JSON, YAML, TOML)
//   - schema.go: JSON schema validation of decoded documents
//   - build.go: tree building from decoded data
//   - errors.go: ConfigShapeError, DuplicateKeyError
package dsfile
