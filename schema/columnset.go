package schema

import "sort"

// ColumnSet records which canonical columns a dataset actually carries.
// Derived/aggregate steps declare their required columns and are skipped
// (not executed, not erroring) when the set does not cover them.
type ColumnSet map[string]struct{}

// NewColumnSet builds a set from keys.
func NewColumnSet(keys ...string) ColumnSet {
	s := make(ColumnSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts a key.
func (s ColumnSet) Add(key string) { s[key] = struct{}{} }

// Has reports whether a single column is present.
func (s ColumnSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// HasAll reports whether every given column is present.
func (s ColumnSet) HasAll(keys ...string) bool {
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Keys returns the column keys in sorted order.
func (s ColumnSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of the set.
func (s ColumnSet) Clone() ColumnSet {
	c := make(ColumnSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
