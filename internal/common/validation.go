package common

import (
	"fmt"
	"slices"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/formatters"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat applies the configured default when format is empty and
// validates the result
func ResolveOutputFormat(format, defaultFormat string, supportedFormats []string) (string, error) {
	if format == "" {
		format = defaultFormat
	}
	return format, ValidateOutputFormat(format, supportedFormats)
}

// GetSupportedFormats returns the configured formats, or every registered
// format when none are configured
func GetSupportedFormats(configured []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return formatters.GlobalRegistry.GetSupportedFormats()
}
