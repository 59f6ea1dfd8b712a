// SPDX-License-Identifier: MPL-2.0

// Package config handles the ds global configuration using Viper with CUE as
// the file format.
//
// The configuration is loaded from config.cue in the ds config directory
// ($XDG_CONFIG_HOME/ds on Linux, ~/Library/Application Support/ds on macOS,
// %APPDATA%\ds on Windows), validated against the embedded config_schema.cue
// and layered over built-in defaults. DS_ON_CONFLICT, DS_RUNTIME, DS_VERBOSE
// and DS_COLOR override the file.
//
// The same directory holds the global command document (ds.yaml, ds.cue, ...),
// and relative ds_files patterns are resolved against it.
package config
