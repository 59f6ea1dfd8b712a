// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/dosomething/ds/internal/scope"
	"github.com/dosomething/ds/pkg/dsfile"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
)

const (
	// SourceGlobal is the command document in the config directory.
	SourceGlobal Source = iota
	// SourcePattern is a document matched by a ds_files pattern.
	SourcePattern
	// SourceGitRoot is the document at the root of the enclosing git work tree.
	SourceGitRoot
	// SourceCurrentDir is the document in the invocation directory.
	SourceCurrentDir
)

// ErrInvalidPattern is returned when a ds_files pattern is not a valid glob.
var ErrInvalidPattern = errors.New("invalid ds_files pattern")

type (
	// Source identifies where a document was looked for. Higher values take
	// precedence.
	Source int

	// DiscoveredFile is one source considered during discovery.
	DiscoveredFile struct {
		// Path is the absolute document path, "" when the source is absent.
		Path string
		// Dir is the directory that was probed, or the pattern's base directory.
		Dir string
		// Source indicates where the file was looked for.
		Source Source
		// Pattern is the ds_files pattern, for SourcePattern entries.
		Pattern string
		// Exists reports whether a document was found.
		Exists bool
		// Document is the parsed content, set by LoadAll.
		Document *dsfile.Document
		// Error is the parse error, set by LoadAll.
		Error error
	}
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourcePattern:
		return "ds_files"
	case SourceGitRoot:
		return "git root"
	case SourceCurrentDir:
		return "current directory"
	default:
		return "unknown"
	}
}

// DiscoverAll returns every source in ascending precedence. Absent sources
// are included with Exists == false; absence is never an error.
func (d *Discovery) DiscoverAll() ([]*DiscoveredFile, error) {
	files, _, err := d.discoverAllWithDiagnostics()
	return files, err
}

func (d *Discovery) discoverAllWithDiagnostics() ([]*DiscoveredFile, []Diagnostic, error) {
	diagnostics := slices.Clone(d.initDiagnostics)
	var files []*DiscoveredFile

	// 1. Global command document
	if d.configDir != "" {
		files = append(files, d.discoverInDir(d.configDir, SourceGlobal))
	}

	// 2. ds_files patterns, declared order
	for _, pattern := range d.cfg.DsFiles {
		matched, diag, err := d.discoverPattern(pattern)
		if err != nil {
			return nil, nil, err
		}
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
		}
		files = append(files, matched...)
	}

	if d.baseDir != "" {
		// 3. Git work tree root
		root, err := gitRoot(d.baseDir)
		switch {
		case err != nil:
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeGitRootUnavailable,
				Message:  "cannot determine the git work tree root; its command document is skipped",
				Path:     d.baseDir,
				Cause:    err,
			})
		case root != "":
			files = append(files, d.discoverInDir(root, SourceGitRoot))
		default:
			files = append(files, &DiscoveredFile{Source: SourceGitRoot})
		}

		// 4. Invocation directory
		files = append(files, d.discoverInDir(d.baseDir, SourceCurrentDir))
	}

	files, dupes := dedupe(files)
	diagnostics = append(diagnostics, dupes...)

	for _, f := range files {
		if f.Exists {
			d.logger.Debug("command document found", "source", f.Source, "path", f.Path)
		} else {
			d.logger.Debug("command document absent", "source", f.Source, "dir", f.Dir, "pattern", f.Pattern)
		}
	}
	return files, diagnostics, nil
}

// discoverInDir probes dir for the first existing document name.
func (d *Discovery) discoverInDir(dir string, source Source) *DiscoveredFile {
	file := &DiscoveredFile{Dir: dir, Source: source}
	if path, ok := FindInDir(dir); ok {
		file.Path = path
		file.Exists = true
	}
	return file
}

// FindInDir returns the first of dsfile.FileNames that exists as a regular
// file in dir.
func FindInDir(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for _, name := range dsfile.FileNames {
		path := filepath.Join(abs, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// discoverPattern expands one ds_files pattern. "~" and $VARS are expanded
// and relative patterns are anchored at the config directory. Matches are
// sorted lexically.
func (d *Discovery) discoverPattern(pattern string) ([]*DiscoveredFile, *Diagnostic, error) {
	resolved, err := dsfile.ResolvePath(pattern, d.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	if !doublestar.ValidatePathPattern(resolved) {
		return nil, nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, doublestar.ErrBadPattern)
	}

	matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	if len(matches) == 0 {
		return []*DiscoveredFile{{Dir: d.configDir, Source: SourcePattern, Pattern: pattern}}, &Diagnostic{
			Severity: SeverityInfo,
			Code:     CodePatternNoMatch,
			Message:  fmt.Sprintf("ds_files pattern %q matched no files", pattern),
			Path:     resolved,
		}, nil
	}

	slices.Sort(matches)
	files := make([]*DiscoveredFile, 0, len(matches))
	for _, m := range matches {
		files = append(files, &DiscoveredFile{
			Path:    m,
			Dir:     filepath.Dir(m),
			Source:  SourcePattern,
			Pattern: pattern,
			Exists:  true,
		})
	}
	return files, nil, nil
}

// gitRoot returns the root of the git work tree containing dir, "" when dir
// is not inside one.
func gitRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open git repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open git work tree at %s: %w", dir, err)
	}
	return wt.Filesystem.Root(), nil
}

// dedupe drops every lower precedence occurrence of a document path.
func dedupe(files []*DiscoveredFile) ([]*DiscoveredFile, []Diagnostic) {
	seen := map[string]bool{}
	keep := make([]bool, len(files))
	var diagnostics []Diagnostic

	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if !f.Exists {
			keep[i] = true
			continue
		}
		key, err := scope.Canonical(f.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			key = f.Path
		}
		if seen[key] {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeDuplicateDocument,
				Message:  fmt.Sprintf("%s document is also a higher precedence source", f.Source),
				Path:     f.Path,
			})
			continue
		}
		seen[key] = true
		keep[i] = true
	}

	out := make([]*DiscoveredFile, 0, len(files))
	for i, f := range files {
		if keep[i] {
			out = append(out, f)
		}
	}
	return out, diagnostics
}
