package hashdb

import (
	_ "crypto/sha256" // registers sha256 for go-digest validation
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

// ParseHash normalizes a hash entry to lowercase hex.
// Entries may carry an algorithm prefix, e.g. "sha256:9f86...", "md5:5d41...".
func ParseHash(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidHash)
	}

	algo, encoded, prefixed := strings.Cut(value, ":")
	if !prefixed {
		if _, ok := models.AlgorithmForLength(len(value)); !ok || !isHex(value) {
			return "", fmt.Errorf("%w: %q", ErrInvalidHash, raw)
		}
		return value, nil
	}

	switch models.Algorithm(algo) {
	case models.AlgorithmSHA256:
		d, err := digest.Parse(value)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrInvalidHash, raw, err)
		}
		return d.Encoded(), nil
	case models.AlgorithmSHA1, models.AlgorithmMD5:
		if len(encoded) != models.Algorithm(algo).HexLength() || !isHex(encoded) {
			return "", fmt.Errorf("%w: %q", ErrInvalidHash, raw)
		}
		return encoded, nil
	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, algo)
	}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
