// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dosomething/ds/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is a ds.json document, decoded through CUE.
	FormatJSON Format = "json"
	// FormatCUE is a ds.cue document.
	FormatCUE Format = "cue"
	// FormatYAML is a ds.yaml or ds.yml document.
	FormatYAML Format = "yaml"
	// FormatTOML is a ds.toml document.
	FormatTOML Format = "toml"
)

// FileNames are the command document names probed in one directory, in the
// order they are tried. The first existing name wins.
var FileNames = []string{"ds.json", "ds.cue", "ds.yaml", "ds.yml", "ds.toml"}

// Format is the syntax of a command document.
type Format string

// String returns the format name.
func (f Format) String() string { return string(f) }

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// decode turns file bytes into JSON-compatible generic data: maps keyed by
// string, []any, string, float64 and bool.
func decode(data []byte, path string, format Format) (map[string]any, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	var raw any
	switch format {
	case FormatJSON, FormatCUE:
		m, err := cueutil.DecodeGeneric(data, cueutil.WithFilename(path))
		if err != nil {
			return nil, syntaxErr(path, format, err)
		}
		raw = m
	case FormatYAML:
		m := map[string]any{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, syntaxErr(path, format, err)
		}
		raw = m
	case FormatTOML:
		m := map[string]any{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, syntaxErr(path, format, err)
		}
		raw = m
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return normalize(raw, path)
}

// normalize round-trips decoded data through encoding/json so every format
// yields the same value types.
func normalize(raw any, path string) (map[string]any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, &ConfigShapeError{Document: path, Reason: "document is not representable as JSON: " + err.Error()}
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &ConfigShapeError{Document: path, Reason: "top level must be a mapping"}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
