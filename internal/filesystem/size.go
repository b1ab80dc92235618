package filesystem

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSize parses size string (e.g., "64K", "1M") to bytes
func ParseSize(sizeStr string) (int64, error) {
	s := strings.TrimSpace(sizeStr)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	// Get last character (unit)
	var multiplier int64 = 1
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}

	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid size %q", sizeStr)
	}
	if size > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size %q is too large", sizeStr)
	}
	return size * multiplier, nil
}
