// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// OnConflictOverride lets later documents replace earlier definitions.
	OnConflictOverride OnConflict = "override"
	// OnConflictError aborts the merge on any cross-document collision.
	OnConflictError OnConflict = "error"

	// RuntimeNative runs commands through the host "sh -c".
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
)

var (
	// ErrInvalidOnConflict is returned when an OnConflict value is not recognized.
	ErrInvalidOnConflict = errors.New("invalid on_conflict policy")
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidDsFilePattern is returned when a ds_files entry is empty.
	ErrInvalidDsFilePattern = errors.New("invalid ds_files pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OnConflict selects how the registry merger treats cross-document collisions.
	OnConflict string

	// InvalidOnConflictError is returned when an OnConflict value is not recognized.
	InvalidOnConflictError struct {
		Value OnConflict
	}

	// RuntimeMode selects the command executor.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// InvalidDsFilePatternError is returned for an empty ds_files entry.
	InvalidDsFilePatternError struct {
		Index int
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DsFiles are glob patterns of additional command documents.
		DsFiles []string `json:"ds_files" mapstructure:"ds_files"`
		// OnConflict is the merge policy for cross-document collisions.
		OnConflict OnConflict `json:"on_conflict" mapstructure:"on_conflict"`
		// Runtime selects the executor.
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the config file that was loaded, "" when only defaults apply.
		Source string `json:"-" mapstructure:"-"`
		// Dir is the config directory: the global command document lives here
		// and relative ds_files patterns are resolved against it.
		Dir string `json:"-" mapstructure:"-"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Color injects color-forcing variables when stdout is a terminal.
		Color bool `json:"color" mapstructure:"color"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DsFiles:    []string{},
		OnConflict: OnConflictOverride,
		Runtime:    RuntimeNative,
		UI: UIConfig{
			Verbose: false,
			Color:   true,
		},
	}
}

// String returns the policy name.
func (p OnConflict) String() string { return string(p) }

// IsValid returns whether the policy is one of the known values.
func (p OnConflict) IsValid() (bool, []error) {
	switch p {
	case OnConflictOverride, OnConflictError:
		return true, nil
	default:
		return false, []error{&InvalidOnConflictError{Value: p}}
	}
}

// Error implements the error interface.
func (e *InvalidOnConflictError) Error() string {
	return fmt.Sprintf("invalid on_conflict policy %q (valid: override, error)", e.Value)
}

// Unwrap returns ErrInvalidOnConflict for errors.Is() compatibility.
func (e *InvalidOnConflictError) Unwrap() error { return ErrInvalidOnConflict }

// String returns the runtime name.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the runtime is one of the known values.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidRuntimeMode for errors.Is() compatibility.
func (e *InvalidRuntimeModeError) Unwrap() error { return ErrInvalidRuntimeMode }

// Error implements the error interface.
func (e *InvalidDsFilePatternError) Error() string {
	return fmt.Sprintf("ds_files[%d]: pattern must not be empty", e.Index)
}

// Unwrap returns ErrInvalidDsFilePattern for errors.Is() compatibility.
func (e *InvalidDsFilePatternError) Unwrap() error { return ErrInvalidDsFilePattern }

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.OnConflict.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, pattern := range c.DsFiles {
		if pattern == "" {
			errs = append(errs, &InvalidDsFilePatternError{Index: i})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and the field sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
