package errors

import (
	"strings"
	"unicode"
)

// maxZoneNameLength bounds zone titles written to Tecplot headers.
const maxZoneNameLength = 256

// ValidateZoneName checks that a zone title can be written inside a quoted
// Tecplot string. The format has no escape sequences, so double quotes and
// control characters (including newlines) would corrupt the header block.
func ValidateZoneName(name string) error {
	if len(name) > maxZoneNameLength {
		return New(ErrCodeInvalidInput, "zone name too long (max %d characters)", maxZoneNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "zone name %q contains control characters", name)
		}
	}
	if strings.Contains(name, `"`) {
		return New(ErrCodeInvalidInput, "zone name %q contains a double quote", name)
	}
	return nil
}

// ValidateOutputPath validates a file path given for command output.
// Only emptiness and embedded NUL bytes are rejected; the path is local to
// the user running the command.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "output path contains a null byte")
	}
	return nil
}
