package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"icontitle/internal/matcher"
	"icontitle/internal/normalizer"
)

// DefaultAssetsKey is the category field holding the asset list.
const DefaultAssetsKey = "svgs"

const (
	nameField  = "name"
	titleField = "title"
)

// Catalog is a hierarchical asset catalog decoded into an ordered tree.
// Key order is kept as read; a key repeated within one object keeps the
// position of its first occurrence and the value of its last.
type Catalog struct {
	root *node
}

// Assignment records one asset that received a title.
type Assignment struct {
	Category   string
	Name       string
	Key        normalizer.NormalizedKey
	MatchedKey normalizer.NormalizedKey
	Title      string
}

// CategoryResult holds the asset counts of one category block.
type CategoryResult struct {
	Name      string
	Assets    int
	Matched   int
	Unmatched int
	Skipped   int
}

// MergeResult summarizes a Merge pass.
// Matched + Unmatched + SkippedAssets == Assets.
type MergeResult struct {
	Categories    int
	SkippedBlocks int
	Assets        int
	Matched       int
	Unmatched     int
	SkippedAssets int
	Assignments   []Assignment
	UnmatchedKeys []normalizer.NormalizedKey
	PerCategory   []CategoryResult // in document order
}

// Load reads and parses the asset catalog at filePath.
func Load(filePath string) (*Catalog, error) {
	data, err := readInput(filePath)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, &Error{Kind: MalformedDocument, Path: filePath, Err: err}
	}
	return c, nil
}

// Parse decodes data as a Catalog. The document must be a JSON object.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New("catalog root must be a JSON object")
	}
	return &Catalog{root: decode(doc)}, nil
}

// Merge annotates every asset with the description of its first matching
// table key. Values that do not have the expected shape are skipped:
//   - top-level values that are not objects
//   - categories whose assetsKey field is missing or not an array
//   - assets that are not objects or lack a string "name"
//
// Matching assets get "title" added or overwritten; others are untouched.
// An empty assetsKey selects DefaultAssetsKey.
func (c *Catalog) Merge(table *matcher.Table, assetsKey string) *MergeResult {
	if assetsKey == "" {
		assetsKey = DefaultAssetsKey
	}

	result := &MergeResult{}
	for pair := c.root.fields.Oldest(); pair != nil; pair = pair.Next() {
		category, block := pair.Key, pair.Value
		if block.kind != objectNode {
			result.SkippedBlocks++
			continue
		}
		result.Categories++
		counts := CategoryResult{Name: category}

		assets, ok := block.field(assetsKey)
		if !ok || assets.kind != arrayNode {
			result.PerCategory = append(result.PerCategory, counts)
			continue
		}

		for _, asset := range assets.items {
			counts.Assets++

			name, ok := asset.field(nameField)
			if !ok || name.kind != stringNode {
				counts.Skipped++
				continue
			}

			key := normalizer.Normalize(name.str)
			match := table.Match(key)
			if !match.Matched {
				counts.Unmatched++
				result.UnmatchedKeys = append(result.UnmatchedKeys, key)
				continue
			}

			asset.fields.Set(titleField, newString(match.Description))
			counts.Matched++
			result.Assignments = append(result.Assignments, Assignment{
				Category:   category,
				Name:       name.str,
				Key:        key,
				MatchedKey: match.Key,
				Title:      match.Description,
			})
		}

		result.Assets += counts.Assets
		result.Matched += counts.Matched
		result.Unmatched += counts.Unmatched
		result.SkippedAssets += counts.Skipped
		result.PerCategory = append(result.PerCategory, counts)
	}

	return result
}

// Bytes returns the catalog as JSON indented by two spaces, with non-ASCII
// text written literally.
func (c *Catalog) Bytes() []byte {
	var buf bytes.Buffer
	c.root.encode(&buf)
	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:  0,
		Prefix: "",
		Indent: "  ",
	})
}

// WriteFile writes data to filePath through a temporary file in the same
// directory, so filePath is either fully replaced or left as it was.
func WriteFile(filePath string, data []byte) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return &Error{Kind: WriteFailed, Path: filePath, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &Error{Kind: WriteFailed, Path: filePath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &Error{Kind: WriteFailed, Path: filePath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &Error{Kind: WriteFailed, Path: filePath, Err: err}
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return &Error{Kind: WriteFailed, Path: filePath, Err: err}
	}
	return nil
}
