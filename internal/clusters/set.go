package clusters

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Cluster is one keyed entry of the block.
type Cluster struct {
	Terms      []string
	Associates []string
}

// Set is an insertion-ordered collection of clusters.
type Set struct {
	m *orderedmap.OrderedMap[string, *Cluster]
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{m: orderedmap.New[string, *Cluster]()}
}

// Put inserts or replaces a cluster. Replacing keeps the original position.
func (s *Set) Put(key string, c *Cluster) {
	s.m.Set(key, c)
}

// Get returns the cluster stored under key.
func (s *Set) Get(key string) (*Cluster, bool) {
	return s.m.Get(key)
}

// Len returns the number of clusters.
func (s *Set) Len() int { return s.m.Len() }

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every cluster in insertion order.
func (s *Set) Each(fn func(key string, c *Cluster)) {
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Equal reports whether both sets hold the same clusters in the same order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	a, b := s.m.Oldest(), other.m.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key ||
			!slices.Equal(a.Value.Terms, b.Value.Terms) ||
			!slices.Equal(a.Value.Associates, b.Value.Associates) {
			return false
		}
	}
	return true
}
