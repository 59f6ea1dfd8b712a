// SPDX-License-Identifier: MPL-2.0

package dsfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// ParseFile reads and parses the command document at path.
func ParseFile(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read command document: %w", err)
	}
	return Parse(data, abs)
}

// Parse decodes data according to the extension of path, validates its shape
// and builds the command tree. path should be absolute; relative root and
// dotenv paths are resolved against its directory.
func Parse(data []byte, path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := decode(data, path, format)
	if err != nil {
		return nil, err
	}
	if err := validateShape(raw, path); err != nil {
		return nil, err
	}
	doc, err := Build(raw, path)
	if err != nil {
		return nil, err
	}
	doc.Format = format
	return doc, nil
}
