// Package errors provides error types for rizeclone.
// This file contains configuration-related errors.
package errors

import (
	"fmt"
	"strings"
)

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Durations need a unit, e.g. "25m" or "1s"
  3. Regenerate defaults with: rizeclone init --force`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(configPath string, cause error) *Error {
	return &Error{
		Kind:       ErrConfig,
		Message:    "invalid configuration",
		Cause:      cause,
		Details:    map[string]string{"path": configPath},
		Suggestion: "Fix the listed fields in " + configPath + " or run 'rizeclone config show' to inspect the effective values.",
	}
}

// ConfigExists creates an error when init would overwrite a config file.
func ConfigExists(configPath string) *Error {
	return &Error{
		Kind:       ErrConfig,
		Message:    fmt.Sprintf("configuration already exists: %s", configPath),
		Details:    map[string]string{"path": configPath},
		Suggestion: "Use 'rizeclone init --force' to overwrite it.",
	}
}

// InvalidTimezone creates an error for an unknown IANA timezone name.
func InvalidTimezone(name string, cause error) *Error {
	return &Error{
		Kind:       ErrConfig,
		Message:    fmt.Sprintf("unknown timezone %q", name),
		Cause:      cause,
		Details:    map[string]string{"timezone": name},
		Suggestion: `Use an IANA name such as "Europe/Berlin" or "America/New_York", or "Local".`,
	}
}

// InvalidFlag creates an error for a malformed command-line value.
func InvalidFlag(flag, value string, valid []string) *Error {
	suggestion := fmt.Sprintf("Check the value passed to --%s.", flag)
	if len(valid) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(valid, ", "))
	}
	return &Error{
		Kind:       ErrConfig,
		Message:    fmt.Sprintf("invalid value %q for --%s", value, flag),
		Suggestion: suggestion,
	}
}
