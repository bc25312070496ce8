package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// GenerateSecureID generates a cryptographically secure opaque ID with the
// given prefix and suffix length. Cache entries and conversations share this
// format but never a prefix, so their IDs are not interchangeable.
func GenerateSecureID(prefix string, length int) (string, error) {
	// base64 expands by 4/3, so over-provision the raw bytes slightly.
	byteLength := (length * 3 / 4) + 2
	bytes := make([]byte, byteLength)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := base64.URLEncoding.EncodeToString(bytes)
	encoded = strings.TrimRight(encoded, "=")
	if len(encoded) > length {
		encoded = encoded[:length]
	}

	return fmt.Sprintf("%s_%s", prefix, encoded), nil
}

// ValidateIDFormat reports whether an ID has the expected prefix_suffix shape
// with a base64url suffix.
func ValidateIDFormat(id, expectedPrefix string) bool {
	if !strings.HasPrefix(id, expectedPrefix+"_") {
		return false
	}

	suffix := id[len(expectedPrefix)+1:]
	if len(suffix) == 0 {
		return false
	}

	for _, char := range suffix {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '-' || char == '_') {
			return false
		}
	}

	return true
}
