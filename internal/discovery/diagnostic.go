// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates a diagnostic that only matters in verbose output.
	SeverityInfo Severity = "info"

	// CodeWorkingDirUnavailable is reported when os.Getwd fails.
	CodeWorkingDirUnavailable = "working_dir_unavailable"
	// CodeConfigDirUnavailable is reported when no config directory can be determined.
	CodeConfigDirUnavailable = "config_dir_unavailable"
	// CodeGitRootUnavailable is reported when git work tree detection fails
	// for a reason other than there being no repository.
	CodeGitRootUnavailable = "git_root_unavailable"
	// CodePatternNoMatch is reported when a ds_files pattern matches nothing.
	CodePatternNoMatch = "pattern_no_match"
	// CodeDuplicateDocument is reported when a document is reachable from more
	// than one source and the lower precedence occurrence is dropped.
	CodeDuplicateDocument = "duplicate_document"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery finding returned to callers rather
	// than written to stderr, so the CLI decides how to render it.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "pattern_no_match").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file, directory or pattern the diagnostic is about.
		Path string
		// Cause is the underlying error, when there is one.
		Cause error
	}
)
