// Package normalizer derives the comparison keys used to pair icon names
// across catalogs.
package normalizer

import (
	"regexp"
	"strings"
)

// Extension is the file extension removed from names before comparison.
const Extension = ".svg"

// variantSuffix matches the numbered-variant suffix ("_2", "_10") at the end
// of a name, or just before a single trailing newline. Any Unicode decimal
// digit counts, so "_٣" is a variant suffix too.
var variantSuffix = regexp.MustCompile(`_\p{Nd}+(\n?)$`)

// NormalizedKey is the canonical form of an icon path or filename.
// Numbered variants of the same icon share a key.
type NormalizedKey string

// Normalize maps a raw path or filename to its comparison key.
//
// The steps are applied in order:
//   - only the final path segment is kept ('/' and '\' both separate segments)
//   - every occurrence of Extension is removed, not only a trailing one
//   - a trailing underscore followed by decimal digits is removed
//   - the result is lowercased
//
// Normalize is total: any string, including "", yields a key.
func Normalize(raw string) NormalizedKey {
	name := raw
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, Extension, "")
	name = variantSuffix.ReplaceAllString(name, "${1}")
	return NormalizedKey(strings.ToLower(name))
}

// String returns the key as a plain string.
func (k NormalizedKey) String() string {
	return string(k)
}

// HasPrefixRelation reports whether either key is a prefix of the other.
func (k NormalizedKey) HasPrefixRelation(other NormalizedKey) bool {
	return strings.HasPrefix(string(k), string(other)) || strings.HasPrefix(string(other), string(k))
}
