// Package matcher builds the description lookup table from reference
// entries and selects the reference description for an asset key.
package matcher

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"icontitle/internal/normalizer"
)

// ReferenceEntry is one record of the reference catalog.
type ReferenceEntry struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Table maps normalized reference keys to descriptions.
// Iteration order is the order in which each distinct key was first inserted.
// A Table is not modified after Build returns.
type Table struct {
	entries *orderedmap.OrderedMap[normalizer.NormalizedKey, string]
}

// MatchResult represents the result of probing the table with an asset key.
type MatchResult struct {
	Matched     bool
	Key         normalizer.NormalizedKey
	Description string
}

// Build creates a Table from entries in order.
// When two entries normalize to the same key, the later description replaces
// the earlier one but the key keeps its original position.
func Build(entries []ReferenceEntry) *Table {
	om := orderedmap.New[normalizer.NormalizedKey, string](len(entries))
	for _, entry := range entries {
		om.Set(normalizer.Normalize(entry.Path), entry.Description)
	}
	return &Table{entries: om}
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	if t == nil || t.entries == nil {
		return 0
	}
	return t.entries.Len()
}

// Get returns the description stored for key.
func (t *Table) Get(key normalizer.NormalizedKey) (string, bool) {
	if t == nil || t.entries == nil {
		return "", false
	}
	return t.entries.Get(key)
}

// Keys returns the table keys in iteration order.
func (t *Table) Keys() []normalizer.NormalizedKey {
	keys := make([]normalizer.NormalizedKey, 0, t.Len())
	if t.Len() == 0 {
		return keys
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Match scans the table in iteration order and returns the first key that is
// a prefix of key or has key as a prefix. The first such key wins even when a
// later key would be a longer match.
func (t *Table) Match(key normalizer.NormalizedKey) *MatchResult {
	if t.Len() == 0 {
		return &MatchResult{Matched: false}
	}

	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !key.HasPrefixRelation(pair.Key) {
			continue
		}
		return &MatchResult{
			Matched:     true,
			Key:         pair.Key,
			Description: pair.Value,
		}
	}

	return &MatchResult{Matched: false}
}
