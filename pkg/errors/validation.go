package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MinArms is the smallest arm count the generators accept. Two arms sit
// exactly opposite each other and the core/arm split degenerates.
const MinArms = 3

// MinSize is the smallest canvas edge in pixels. Below it the border,
// blur radii and splat radii all truncate to zero.
const MinSize = 64

// ValidateArms rejects arm counts below [MinArms].
func ValidateArms(arms int) error {
	if arms < MinArms {
		return New(ErrCodeInvalidArms, "arm count must be at least %d, got %d", MinArms, arms)
	}
	return nil
}

// ValidateSize checks the canvas edge length. A limit of zero means no upper
// bound.
func ValidateSize(size, limit int) error {
	if size < MinSize {
		return New(ErrCodeInvalidSize, "size must be at least %d pixels, got %d", MinSize, size)
	}
	if limit > 0 && size > limit {
		return New(ErrCodeInvalidSize, "size %d exceeds the limit of %d pixels", size, limit)
	}
	return nil
}

// ValidateStarCount checks the requested number of stars. A limit of zero
// means no upper bound.
func ValidateStarCount(n, limit int) error {
	if n <= 0 {
		return New(ErrCodeInvalidStars, "star count must be positive, got %d", n)
	}
	if limit > 0 && n > limit {
		return New(ErrCodeInvalidStars, "star count %d exceeds the limit of %d", n, limit)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateName validates a user-supplied name that ends up in cache keys
// and file names, such as a galaxy type.
//
// Rules:
//   - Name cannot be empty
//   - Maximum length of 64 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateRedisURL ensures the URL uses a redis scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use the redis or rediss scheme")
	}
	return nil
}
