package models

import "strings"

// KnownHashSet is a set of lowercase hex digests of files of interest.
// Digests of different algorithms may be mixed in one set.
type KnownHashSet struct {
	hashes   map[string]struct{}
	byLength map[int]int
}

// NewKnownHashSet creates a known-hash set from the given values
func NewKnownHashSet(values ...string) *KnownHashSet {
	s := &KnownHashSet{
		hashes:   make(map[string]struct{}, len(values)),
		byLength: make(map[int]int),
	}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a hash value, normalized to trimmed lowercase.
// It reports whether the value was new.
func (s *KnownHashSet) Add(value string) bool {
	v := normalizeHash(value)
	if v == "" {
		return false
	}
	if _, ok := s.hashes[v]; ok {
		return false
	}
	s.hashes[v] = struct{}{}
	s.byLength[len(v)]++
	return true
}

// Contains reports whether value is in the set (case-insensitive)
func (s *KnownHashSet) Contains(value string) bool {
	if s == nil {
		return false
	}
	_, ok := s.hashes[normalizeHash(value)]
	return ok
}

// Len returns the number of distinct hashes
func (s *KnownHashSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hashes)
}

// CountByAlgorithm returns how many entries have the digest length of a
func (s *KnownHashSet) CountByAlgorithm(a Algorithm) int {
	if s == nil {
		return 0
	}
	return s.byLength[a.HexLength()]
}

func normalizeHash(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
