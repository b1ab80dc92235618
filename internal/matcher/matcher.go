package matcher

import (
	"github.com/IvanShishkin/hashhound/pkg/models"
)

// Matcher tests digests for membership in a known-hash set.
// It never mutates the set, so one Matcher can serve any number of files.
type Matcher struct {
	known *models.KnownHashSet
}

// NewMatcher creates a new hash matcher
func NewMatcher(known *models.KnownHashSet) *Matcher {
	return &Matcher{known: known}
}

// Result is one algorithm whose digest was found in the set
type Result struct {
	Algorithm models.Algorithm
	Hash      string
}

// Match returns every algorithm of digests whose value is known,
// in SHA-256, SHA-1, MD5 order. Comparison is exact on lowercase hex.
func (m *Matcher) Match(digests models.DigestSet) []Result {
	var results []Result
	for _, a := range models.Algorithms {
		value := digests.Get(a)
		if value == "" {
			continue
		}
		if m.known.Contains(value) {
			results = append(results, Result{Algorithm: a, Hash: value})
		}
	}
	return results
}

// Size returns the number of known hashes
func (m *Matcher) Size() int {
	return m.known.Len()
}
