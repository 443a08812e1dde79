package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"icontitle/internal/matcher"
	"icontitle/internal/normalizer"
)

func rifleTable() *matcher.Table {
	return matcher.Build([]matcher.ReferenceEntry{
		{Path: "a/rifle.svg", Description: "Rifle"},
		{Path: "b/rifle_2.svg", Description: "Rifle Variant"},
	})
}

func mustParse(t *testing.T, doc string) *Catalog {
	t.Helper()
	c, err := Parse([]byte(doc))
	require.NoError(t, err)
	return c
}

func mustMerge(t *testing.T, c *Catalog, table *matcher.Table) *MergeResult {
	t.Helper()
	result := c.Merge(table, "")
	require.NotNil(t, result)
	return result
}

func TestMerge_AssignsOverwrittenDescription(t *testing.T) {
	c := mustParse(t, `{"Weapons": {"svgs": [{"name": "rifle_99.svg"}]}}`)

	result := mustMerge(t, c, rifleTable())

	out := c.Bytes()
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(out, "Weapons.svgs.0.title").String())
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Assets)
	assert.Equal(t, 1, result.Matched)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, Assignment{
		Category:   "Weapons",
		Name:       "rifle_99.svg",
		Key:        "rifle_99",
		MatchedKey: "rifle",
		Title:      "Rifle Variant",
	}, result.Assignments[0])
}

func TestMerge_UnmatchedAssetHasNoTitle(t *testing.T) {
	c := mustParse(t, `{"Vehicles": {"svgs": [{"name": "tank_1.svg"}]}}`)

	result := mustMerge(t, c, rifleTable())

	out := c.Bytes()
	assert.False(t, gjson.GetBytes(out, "Vehicles.svgs.0.title").Exists())
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, []normalizer.NormalizedKey{"tank"}, result.UnmatchedKeys)
}

func TestMerge_ExistingTitle(t *testing.T) {
	c := mustParse(t, `{"W": {"svgs": [
		{"name": "rifle.svg", "title": "old"},
		{"name": "tank.svg", "title": "keep"}
	]}}`)

	mustMerge(t, c, rifleTable())

	out := c.Bytes()
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(out, "W.svgs.0.title").String())
	assert.Equal(t, "keep", gjson.GetBytes(out, "W.svgs.1.title").String())
}

func TestMerge_NonObjectBlocksPassThrough(t *testing.T) {
	c := mustParse(t, `{
		"version": "1.0",
		"list": [{"name": "rifle.svg"}],
		"count": 3,
		"flag": null,
		"Weapons": {"svgs": [{"name": "rifle.svg"}]}
	}`)

	result := mustMerge(t, c, rifleTable())

	out := c.Bytes()
	assert.Equal(t, 4, result.SkippedBlocks)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, "1.0", gjson.GetBytes(out, "version").String())
	assert.JSONEq(t, `[{"name": "rifle.svg"}]`, gjson.GetBytes(out, "list").Raw)
	assert.Equal(t, int64(3), gjson.GetBytes(out, "count").Int())
	assert.Equal(t, gjson.Null, gjson.GetBytes(out, "flag").Type)
	assert.True(t, gjson.GetBytes(out, "Weapons.svgs.0.title").Exists())
}

func TestMerge_ShapeMismatchesAreSkipped(t *testing.T) {
	c := mustParse(t, `{
		"NoAssets": {"label": "empty"},
		"AssetsNotList": {"svgs": "rifle.svg"},
		"Mixed": {"svgs": [
			"rifle.svg",
			{"title": "no name"},
			{"name": 42},
			{"name": "rifle_3.svg"}
		]}
	}`)

	result := mustMerge(t, c, rifleTable())

	out := c.Bytes()
	assert.Equal(t, 3, result.Categories)
	assert.Equal(t, 4, result.Assets)
	assert.Equal(t, 3, result.SkippedAssets)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, "rifle.svg", gjson.GetBytes(out, "AssetsNotList.svgs").String())
	assert.Equal(t, "no name", gjson.GetBytes(out, "Mixed.svgs.1.title").String())
	assert.False(t, gjson.GetBytes(out, "Mixed.svgs.2.title").Exists())
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(out, "Mixed.svgs.3.title").String())
	assert.Equal(t, []CategoryResult{
		{Name: "NoAssets"},
		{Name: "AssetsNotList"},
		{Name: "Mixed", Assets: 4, Matched: 1, Skipped: 3},
	}, result.PerCategory)
}

func TestMerge_FirstInsertedKeyWins(t *testing.T) {
	table := matcher.Build([]matcher.ReferenceEntry{
		{Path: "rifle.svg", Description: "Rifle"},
		{Path: "rifle_auto.svg", Description: "Automatic Rifle"},
	})
	c := mustParse(t, `{"W": {"svgs": [{"name": "rifle_auto_3.svg"}]}}`)

	mustMerge(t, c, table)

	assert.Equal(t, "Rifle", gjson.GetBytes(c.Bytes(), "W.svgs.0.title").String())
}

func TestMerge_CustomAssetsKey(t *testing.T) {
	c := mustParse(t, `{"W": {"icons": [{"name": "rifle.svg"}], "svgs": [{"name": "rifle.svg"}]}}`)

	result := c.Merge(rifleTable(), "icons")

	out := c.Bytes()
	assert.Equal(t, 1, result.Matched)
	assert.True(t, gjson.GetBytes(out, "W.icons.0.title").Exists())
	assert.False(t, gjson.GetBytes(out, "W.svgs.0.title").Exists())
}

func TestMerge_SpecialCharactersInCategoryNames(t *testing.T) {
	names := []string{"Vũ khí", "a.b", "x*y", "q?", "1", ":force", "-1", "with space", "pipe|hash#at@"}
	var doc strings.Builder
	doc.WriteString("{")
	for i, name := range names {
		if i > 0 {
			doc.WriteString(",")
		}
		doc.Write(encodeString(name))
		doc.WriteString(`: {"svgs": [{"name": "rifle.svg"}]}`)
	}
	doc.WriteString("}")
	c := mustParse(t, doc.String())

	result := mustMerge(t, c, rifleTable())
	require.Equal(t, len(names), result.Matched)

	out := c.Bytes()
	keys := []string{}
	gjson.ParseBytes(out).ForEach(func(key, value gjson.Result) bool {
		keys = append(keys, key.String())
		assert.Equal(t, "Rifle Variant", value.Get("svgs.0.title").String(), "category %q", key.String())
		return true
	})
	assert.Equal(t, names, keys)
}

func TestMerge_PreservesKeyOrder(t *testing.T) {
	c := mustParse(t, `{"Zulu": {"svgs": []}, "Alpha": {"svgs": [{"name": "rifle.svg", "size": 2}]}, "Mike": 1}`)

	mustMerge(t, c, rifleTable())

	var keys []string
	gjson.ParseBytes(c.Bytes()).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"Zulu", "Alpha", "Mike"}, keys)

	var assetKeys []string
	gjson.GetBytes(c.Bytes(), "Alpha.svgs.0").ForEach(func(key, _ gjson.Result) bool {
		assetKeys = append(assetKeys, key.String())
		return true
	})
	assert.Equal(t, []string{"name", "size", "title"}, assetKeys)
}

func TestMerge_EmptyTable(t *testing.T) {
	c := mustParse(t, `{"W": {"svgs": [{"name": "rifle.svg"}]}}`)

	result := mustMerge(t, c, matcher.Build(nil))

	assert.Equal(t, 1, result.Unmatched)
	assert.False(t, gjson.GetBytes(c.Bytes(), "W.svgs.0.title").Exists())
}

func TestBytes_LiteralNonASCIIAndIndent(t *testing.T) {
	table := matcher.Build([]matcher.ReferenceEntry{
		{Path: "xe_tang.svg", Description: "Xe tăng <hạng nặng> & pháo"},
	})
	c := mustParse(t, `{"Phương tiện": {"svgs": [{"name": "xe_tang_2.svg"}]}}`)

	mustMerge(t, c, table)
	out := string(c.Bytes())

	assert.Contains(t, out, "Xe tăng <hạng nặng> & pháo")
	assert.Contains(t, out, "Phương tiện")
	assert.NotContains(t, out, `\u`)
	assert.Contains(t, out, "\n  \"Phương tiện\": {")
	assert.Contains(t, out, "\n    \"svgs\": [")
}

func TestBytes_EscapedInputWrittenLiterally(t *testing.T) {
	table := matcher.Build([]matcher.ReferenceEntry{
		{Path: "tank.svg", Description: "Xe tăng"},
	})
	c := mustParse(t, `{"Ph\u01b0\u01a1ng ti\u1ec7n": {"svgs": [
		{"name": "tank.svg", "label": "Xe t\u0103ng", "note": "a\/b \"q\" \ud83d\ude80"}
	]}}`)

	mustMerge(t, c, table)
	out := string(c.Bytes())

	assert.Contains(t, out, `"Phương tiện": {`)
	assert.Contains(t, out, `"label": "Xe tăng"`)
	assert.Contains(t, out, `"title": "Xe tăng"`)
	assert.Contains(t, out, `"note": "a/b \"q\" 🚀"`)
	assert.NotContains(t, out, `\u`)
}

func TestMerge_DuplicateKeysKeepLastValueAtFirstPosition(t *testing.T) {
	c := mustParse(t, `{
		"A": 1,
		"W": {"svgs": [{"name": "tank.svg"}]},
		"B": 2,
		"W": {"svgs": [{"name": "rifle.svg"}]}
	}`)

	result := mustMerge(t, c, rifleTable())
	out := c.Bytes()

	var keys []string
	gjson.ParseBytes(out).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"A", "W", "B"}, keys)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Assets)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, "rifle.svg", gjson.GetBytes(out, "W.svgs.0.name").String())
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(out, "W.svgs.0.title").String())
	assert.Equal(t, int64(1), gjson.GetBytes(out, "W.svgs.#").Int())
	assert.NotContains(t, string(out), "tank.svg")
}

func TestMerge_DuplicateAssetFields(t *testing.T) {
	c := mustParse(t, `{"W": {"svgs": [
		{"name": "tank.svg", "title": "keep", "name": "rifle.svg"},
		{"title": "a", "name": "rifle.svg", "title": "b"}
	]}}`)

	result := mustMerge(t, c, rifleTable())
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "rifle.svg", result.Assignments[0].Name)

	var assetKeys []string
	gjson.GetBytes(c.Bytes(), "W.svgs.1").ForEach(func(key, _ gjson.Result) bool {
		assetKeys = append(assetKeys, key.String())
		return true
	})
	assert.Equal(t, []string{"title", "name"}, assetKeys)
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(c.Bytes(), "W.svgs.0.title").String())
	assert.Equal(t, "Rifle Variant", gjson.GetBytes(c.Bytes(), "W.svgs.1.title").String())
}

func TestBytes_LiteralsKeptAsWritten(t *testing.T) {
	c := mustParse(t, `{"n": 1.50, "big": 12345678901234567890, "e": -2E3, "t": true, "f": false, "z": null, "o": {}, "a": []}`)

	mustMerge(t, c, rifleTable())

	assert.Equal(t, `{
  "n": 1.50,
  "big": 12345678901234567890,
  "e": -2E3,
  "t": true,
  "f": false,
  "z": null,
  "o": {},
  "a": []
}
`, string(c.Bytes()))
}

func TestMerge_Deterministic(t *testing.T) {
	doc := `{"W": {"svgs": [{"name": "rifle_1.svg"}, {"name": "tank.svg"}]}, "meta": [1, 2]}`

	first := mustParse(t, doc)
	mustMerge(t, first, rifleTable())
	second := mustParse(t, doc)
	mustMerge(t, second, rifleTable())

	assert.Equal(t, first.Bytes(), second.Bytes())

	again := mustParse(t, string(first.Bytes()))
	mustMerge(t, again, rifleTable())
	assert.Equal(t, first.Bytes(), again.Bytes())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"truncated", `{"W": {"svgs": [`},
		{"array root", `[{"name": "rifle.svg"}]`},
		{"string root", `"catalog"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, IsKind(err, MissingInput))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"W": `), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, IsKind(err, MalformedDocument))
	assert.Contains(t, err.Error(), bad)
}

func TestLoadReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"path": "a/rifle.svg", "description": "Rifle", "category": "w"},
		{"path": "b/rifle_2.svg", "description": "Rifle Variant"},
		{"path": "c/tank.svg"}
	]`), 0644))

	entries, err := LoadReference(path)
	require.NoError(t, err)
	assert.Equal(t, []matcher.ReferenceEntry{
		{Path: "a/rifle.svg", Description: "Rifle"},
		{Path: "b/rifle_2.svg", Description: "Rifle Variant"},
		{Path: "c/tank.svg", Description: ""},
	}, entries)
}

func TestLoadReference_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReference(filepath.Join(dir, "missing.json"))
	assert.True(t, IsKind(err, MissingInput))

	tests := []struct {
		name string
		doc  string
	}{
		{"invalid JSON", `[{"path": `},
		{"object root", `{"path": "a.svg"}`},
		{"non-string path", `[{"path": 1, "description": "x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0644))
			_, err := LoadReference(path)
			assert.True(t, IsKind(err, MalformedDocument), "got %v", err)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, WriteFile(path, []byte(`{"a": 1}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.json")

	err := WriteFile(path, []byte("{}"))
	require.Error(t, err)
	assert.True(t, IsKind(err, WriteFailed))
}
