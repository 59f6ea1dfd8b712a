// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://ds.invalid/schema/document.json"

// reservedKeys belong to the global config file, never to command documents.
var reservedKeys = []string{"ds_files", "on_conflict"}

var (
	//go:embed document_schema.json
	documentSchemaJSON string

	documentSchema     *jsonschema.Schema
	documentSchemaErr  error
	documentSchemaOnce sync.Once
)

// Schema returns the JSON schema command documents are validated against.
func Schema() string { return documentSchemaJSON }

func compiledSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		documentSchema, documentSchemaErr = jsonschema.CompileString(schemaURL, documentSchemaJSON)
	})
	return documentSchema, documentSchemaErr
}

// validateShape checks decoded data against the document schema and reports
// the first failure as a ConfigShapeError pointing at the offending node.
func validateShape(raw map[string]any, path string) error {
	for _, key := range reservedKeys {
		if _, ok := raw[key]; ok {
			return shapeErr(path, nil, "%q is a global config setting: set it in config.cue in the ds config directory, not in a command document", key)
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("internal error: failed to compile document schema: %w", err)
	}

	err = schema.Validate(any(raw))
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%s: %w", path, err)
	}
	leaf := deepestCause(ve)
	keys, field := splitInstanceLocation(leaf.InstanceLocation)
	reason := leaf.Message
	if field != "" {
		reason = field + ": " + reason
	}
	return shapeErr(path, keys, "%s", reason)
}

func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// splitInstanceLocation turns a JSON pointer such as
// "/commands/app/commands/dev/root/scope" into the command key path
// ["app", "dev"] and the remaining field path "root.scope".
func splitInstanceLocation(ptr string) ([]string, string) {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil, ""
	}
	tokens := strings.Split(ptr, "/")
	for i, tok := range tokens {
		tokens[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
	}

	var keys []string
	i := 0
	for i+1 < len(tokens) && tokens[i] == "commands" {
		keys = append(keys, tokens[i+1])
		i += 2
	}
	return keys, strings.Join(tokens[i:], ".")
}
