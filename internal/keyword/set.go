// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyword

import (
	"sort"
	"time"
)

// Set is one compiled taxonomy snapshot. It is built once and not modified
// afterwards; a rebuild produces a new Set.
type Set struct {
	Single    map[string]*SingleKeyword
	Composite map[string]*CompositeKeyword
	CreatedAt time.Time
}

// NewSet returns an empty Set stamped with the current time.
func NewSet() *Set {
	return &Set{
		Single:    make(map[string]*SingleKeyword),
		Composite: make(map[string]*CompositeKeyword),
		CreatedAt: time.Now().UTC(),
	}
}

// Len returns the total number of keywords.
func (s *Set) Len() int {
	return len(s.Single) + len(s.Composite)
}

// SingleIDs returns the single keyword identifiers, sorted.
func (s *Set) SingleIDs() []string {
	return sortedKeys(s.Single)
}

// CompositeIDs returns the composite keyword identifiers, sorted.
func (s *Set) CompositeIDs() []string {
	return sortedKeys(s.Composite)
}

// Probe returns the identifiers of the single and composite keywords whose
// patterns occur in text.
func (s *Set) Probe(text string) (singles, composites []string) {
	for _, id := range s.SingleIDs() {
		if s.Single[id].Matches(text) {
			singles = append(singles, id)
		}
	}
	for _, id := range s.CompositeIDs() {
		if s.Composite[id].Matches(text) {
			composites = append(composites, id)
		}
	}
	return singles, composites
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
