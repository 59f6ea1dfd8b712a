// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE compile/validate/decode steps shared by the
// global config loader and the command document decoder.
//
// Schema-backed decoding (used for config.cue):
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// Schema-less decoding (used for ds.cue and ds.json, which are validated
// afterwards against a JSON schema):
//
//	data, err := cueutil.DecodeGeneric(fileBytes, cueutil.WithFilename(path))
package cueutil
