package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxViewportSide bounds a viewport side in pixels or points. Larger requests
// are almost certainly unit mistakes and would allocate huge rasters.
const maxViewportSide = 20000

// ValidateViewport checks requested output dimensions.
//
// Non-positive sizes are rejected here because the CLI and API treat them as
// user mistakes; the layout core itself answers them with "no layout".
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must have positive width and height (got %gx%g)", width, height)
	}
	if width > maxViewportSide || height > maxViewportSide {
		return New(ErrCodeInvalidViewport, "viewport too large (max %d per side)", maxViewportSide)
	}
	return nil
}

// ValidateCodeToken validates a classification token supplied through
// configuration (for example the hidden-code list).
//
// The validation rules are intentionally conservative:
//   - No empty tokens
//   - No control characters or whitespace
//   - No ".." (it would be read as a connection directive)
//   - Maximum length of 32 characters
func ValidateCodeToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidConfig, "code token cannot be empty")
	}
	if len(token) > 32 {
		return New(ErrCodeInvalidConfig, "code token too long (max 32 characters): %q", token)
	}
	for _, r := range token {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "code token contains whitespace or control characters: %q", token)
		}
	}
	if strings.Contains(token, "..") {
		return New(ErrCodeInvalidConfig, "code token cannot contain '..': %q", token)
	}
	return nil
}

// ValidateOutputPath validates a path an artifact will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateColor validates a "#rrggbb" or "#rgb" hex color.
func ValidateColor(c string) error {
	if !strings.HasPrefix(c, "#") || (len(c) != 7 && len(c) != 4) {
		return New(ErrCodeInvalidStyle, "color must be #rgb or #rrggbb: %q", c)
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidStyle, "color has non-hex digits: %q", c)
		}
	}
	return nil
}
