package application

import (
	"fmt"
	"strings"

	"orbnaments/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "targetNote" -> "target note")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"targetNote":        "target note",
		"destinationFolder": "destination folder",
		"marker":            "conflict marker",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateFolderPath checks that a folder path stays inside the vault and is not its root
func ValidateFolderPath(fieldName, folder string) error {
	if err := ValidateRequired(fieldName, folder); err != nil {
		return err
	}
	displayName := formatFieldName(fieldName)
	if domain.EscapesVault(strings.TrimSpace(folder)) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must stay inside the vault, got: %s", displayName, folder),
		}
	}
	if domain.IsRootPath(domain.NormalizePath(strings.TrimSpace(folder))) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not be the vault root", displayName),
		}
	}
	return nil
}
