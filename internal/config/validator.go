package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "page_timeout"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	required := []struct {
		field string
		value string
	}{
		{"cookies_path", c.CookiesPath},
		{"downloads_dir", c.DownloadsDir},
		{"match_pattern", c.MatchPattern},
		{"list_selector", c.ListSelector},
		{"anchor_selector", c.AnchorSelector},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errors = append(errors, ValidationError{
				Field:   r.field,
				Value:   r.value,
				Message: "must not be empty",
			})
		}
	}

	if c.DiscoveryTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "discovery_timeout",
			Value:   c.DiscoveryTimeout,
			Message: "must be positive",
		})
	}

	// zero disables these
	nonNegative := []struct {
		field string
		value any
		neg   bool
	}{
		{"popup_grace", c.PopupGrace, c.PopupGrace < 0},
		{"page_timeout", c.PageTimeout, c.PageTimeout < 0},
		{"capture_grace", c.CaptureGrace, c.CaptureGrace < 0},
	}
	for _, n := range nonNegative {
		if n.neg {
			errors = append(errors, ValidationError{
				Field:   n.field,
				Value:   n.value,
				Message: "must not be negative",
			})
		}
	}

	if c.LogLevel != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.LogLevel)) {
		errors = append(errors, ValidationError{
			Field:   "log_level",
			Value:   c.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
