// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io"
	"os"

	"github.com/dosomething/ds/internal/config"
	"github.com/dosomething/ds/pkg/dsfile"

	"github.com/charmbracelet/log"
)

type (
	// Option configures a Discovery.
	Option func(*Discovery)

	// Discovery locates and loads command documents.
	Discovery struct {
		cfg       *config.Config
		baseDir   string
		configDir string
		logger    *log.Logger

		initDiagnostics []Diagnostic
	}

	// LoadResult is the outcome of LoadAll.
	LoadResult struct {
		// Files are all sources considered, lowest precedence first.
		Files []*DiscoveredFile
		// Documents are the parsed existing documents, lowest precedence first.
		Documents []*dsfile.Document
		// Diagnostics are non-fatal findings.
		Diagnostics []Diagnostic
	}
)

// WithBaseDir sets the invocation directory. Defaults to os.Getwd().
func WithBaseDir(dir string) Option {
	return func(d *Discovery) { d.baseDir = dir }
}

// WithConfigDir sets the directory holding the global command document and
// anchoring relative ds_files patterns. Defaults to the config's Dir, then
// config.ConfigDir().
func WithConfigDir(dir string) Option {
	return func(d *Discovery) { d.configDir = dir }
}

// WithLogger routes per-source debug records to logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Discovery) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Discovery for cfg. A nil cfg means the default configuration.
func New(cfg *config.Config, opts ...Option) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &Discovery{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(d)
	}

	if d.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeWorkingDirUnavailable,
				Message:  "cannot determine the current directory; local command documents are skipped",
				Cause:    err,
			})
		}
		d.baseDir = wd
	}

	if d.configDir == "" {
		d.configDir = cfg.Dir
	}
	if d.configDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeConfigDirUnavailable,
				Message:  "cannot determine the config directory; the global command document is skipped",
				Cause:    err,
			})
		}
		d.configDir = dir
	}
	return d
}

// BaseDir returns the invocation directory discovery runs from.
func (d *Discovery) BaseDir() string { return d.baseDir }

// LoadAll discovers every source and parses the existing documents. A
// document that fails to parse fails the whole load.
func (d *Discovery) LoadAll() (*LoadResult, error) {
	files, diagnostics, err := d.discoverAllWithDiagnostics()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Files: files, Diagnostics: diagnostics}
	for _, file := range files {
		if !file.Exists {
			continue
		}
		doc, err := dsfile.ParseFile(file.Path)
		if err != nil {
			file.Error = err
			return nil, fmt.Errorf("load %s document: %w", file.Source, err)
		}
		file.Document = doc
		result.Documents = append(result.Documents, doc)
		d.logger.Debug("loaded command document", "path", file.Path, "source", file.Source, "format", doc.Format)
	}
	return result, nil
}
