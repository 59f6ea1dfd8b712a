// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful schema-backed parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the schema unified with the user data.
	Unified cue.Value
}

// ParseAndDecode compiles schema and data, unifies data with the definition at
// schemaPath, validates the result and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := applyOptions(opts)
	filename := options.displayName()

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := validate(unified, options.concrete); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// DecodeGeneric compiles data without a schema and decodes it into generic
// Go values (maps, slices, strings, numbers, booleans). JSON input is valid
// CUE, so this also serves .json files. The top level must be a struct.
func DecodeGeneric(data []byte, opts ...Option) (map[string]any, error) {
	options := applyOptions(opts)
	filename := options.displayName()

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if value.Err() != nil {
		return nil, FormatError(value.Err(), filename)
	}
	if err := validate(value, options.concrete); err != nil {
		return nil, FormatError(err, filename)
	}
	if value.IncompleteKind() != cue.StructKind {
		return nil, &ValidationError{FilePath: filename, Message: "top level must be a mapping"}
	}

	out := map[string]any{}
	if err := value.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}

func applyOptions(opts []Option) parseOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func validate(v cue.Value, concrete bool) error {
	if concrete {
		return v.Validate(cue.Concrete(true))
	}
	return v.Validate()
}
