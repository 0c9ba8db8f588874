package application

import (
	"fmt"
	"strings"

	"nestedset/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		// Format field name with spaces for error message (e.g., "parentID" -> "parent ID")
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "parentID" -> "parent ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"id":            "ID",
		"nodeID":        "node ID",
		"parentID":      "parent ID",
		"anchorID":      "anchor ID",
		"prevSiblingOf": "previous sibling anchor",
		"nextSiblingOf": "next sibling anchor",
		"label":         "label",
		"placement":     "placement",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	// Fallback: just return the field name as-is
	return fieldName
}

// ValidateID checks that an id is present and carries no surrounding or
// embedded whitespace. Ids are opaque; their scheme belongs to the store.
func ValidateID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is not a valid id: %q", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidatePlacement checks that at most one anchor is set and that every set
// anchor is a valid id.
func ValidatePlacement(p domain.Placement) error {
	kind, anchor, err := p.Kind()
	if err != nil {
		return &ValidationError{Field: "placement", Message: err.Error()}
	}
	switch kind {
	case domain.PlaceChildOf:
		return ValidateID("parentID", anchor)
	case domain.PlacePrevSiblingOf:
		return ValidateID("prevSiblingOf", anchor)
	case domain.PlaceNextSiblingOf:
		return ValidateID("nextSiblingOf", anchor)
	}
	return nil
}
