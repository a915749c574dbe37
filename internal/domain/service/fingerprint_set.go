package service

import "github.com/supplyshield/riskengine/internal/domain/valueobject"

// FingerprintSet holds every fingerprint seen during the process lifetime. It
// only grows. Not safe for concurrent use.
type FingerprintSet struct {
	seen map[string]struct{}
}

// NewFingerprintSet creates an empty set.
func NewFingerprintSet() *FingerprintSet {
	return &FingerprintSet{seen: make(map[string]struct{})}
}

// Contains reports whether fp was seen before.
func (s *FingerprintSet) Contains(fp valueobject.Fingerprint) bool {
	_, ok := s.seen[fp.String()]
	return ok
}

// Add records fp and reports whether it was new.
func (s *FingerprintSet) Add(fp valueobject.Fingerprint) bool {
	if s.Contains(fp) {
		return false
	}
	s.seen[fp.String()] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints.
func (s *FingerprintSet) Len() int {
	return len(s.seen)
}
