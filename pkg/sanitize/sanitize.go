// Package sanitize cleans untrusted form and CLI input before it reaches
// prompts, logs or the user table.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/tripplanner/pkg/domain"
)

// DefaultMaxInputSize is 4KB per field.
const DefaultMaxInputSize = 4096

// Input enforces the size limit, validates UTF-8 and strips control characters
// other than newline, tab and carriage return. A limit <= 0 means DefaultMaxInputSize.
func Input(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	// Reject rather than truncate: a clipped city or username silently changes meaning.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", domain.ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Fields sanitizes every value in place, stopping at the first failure.
func Fields(limit int, values ...*string) error {
	for _, v := range values {
		clean, err := Input(*v, limit)
		if err != nil {
			return err
		}
		*v = clean
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
