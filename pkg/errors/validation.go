package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds skill and tree identifiers.
const maxIDLength = 128

// idRegex matches identifiers such as "sword-mastery" or "fire_magic.2".
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSkillID validates a skill identifier from a catalog.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Must start with a letter or digit, then letters, digits, '.', '_' or '-'
//   - Maximum length of 128 characters
func ValidateSkillID(id string) error {
	return validateID("skill", id)
}

// ValidateTreeID validates a skill tree identifier. It applies the same
// rules as [ValidateSkillID]; UUIDs generated for anonymous trees pass.
func ValidateTreeID(id string) error {
	return validateID("tree", id)
}

func validateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidCatalog, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidCatalog, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCatalog, "%s id %q contains whitespace or control characters", kind, id)
		}
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidCatalog, "invalid %s id: %q", kind, id)
	}
	return nil
}

// catalogExtensions lists the file extensions a catalog may use.
var catalogExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// ValidateCatalogPath validates the path of a catalog file.
// It requires a non-empty path without null bytes and a supported extension.
func ValidateCatalogPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "catalog path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "catalog path contains invalid characters")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !catalogExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported catalog format %q (must be .json, .yaml, .yml or .toml)", ext)
	}
	return nil
}
