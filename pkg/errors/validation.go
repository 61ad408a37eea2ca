package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateLayoutName validates a layout name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
//
// Names are otherwise free text; "Open Space A1" and "2F west wing" are
// both valid.
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLayout, "layout_name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidLayout, "layout_name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayout, "layout_name contains invalid control characters")
		}
	}

	return nil
}

// objectIDRegex matches object identifiers: letters, digits, dot,
// underscore and dash, starting with a letter or digit.
var objectIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateObjectID validates an object identifier.
// IDs double as cache-key and file-name components, so the charset is
// restricted to names that are safe in both.
func ValidateObjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayout, "object id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidLayout, "object id too long (max 128 characters)")
	}

	if !objectIDRegex.MatchString(id) {
		return New(ErrCodeInvalidLayout, "invalid object id: %q", id)
	}

	return nil
}

// ValidateTypeTag validates an object type tag.
// Type tags are open-ended, so this only rejects values that could not
// name any real category.
func ValidateTypeTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidLayout, "object type cannot be empty")
	}

	if len(tag) > 64 {
		return New(ErrCodeInvalidLayout, "object type too long (max 64 characters)")
	}

	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayout, "object type contains invalid control characters")
		}
	}

	return nil
}

// ValidateDocumentPath validates a layout document path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must end in .json
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return New(ErrCodeInvalidPath, "layout documents must use the .json extension: %q", path)
	}

	return nil
}

// ValidateStoreID validates an identifier used as a storage key.
// Store IDs become file basenames, so path components are rejected
// outright.
func ValidateStoreID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPath, "store id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPath, "store id too long (max 128 characters)")
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPath, "store id contains invalid characters: %q", pattern)
		}
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "store id contains invalid control characters")
		}
	}

	return nil
}
