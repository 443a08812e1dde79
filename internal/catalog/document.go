package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type nodeKind int

const (
	literalNode nodeKind = iota // number, true, false or null, kept as written
	stringNode
	arrayNode
	objectNode
)

// node is one decoded JSON value. Object fields keep first-seen key order;
// a key that appears twice holds the later value at the earlier position.
type node struct {
	kind   nodeKind
	raw    string
	str    string
	items  []*node
	fields *orderedmap.OrderedMap[string, *node]
}

func newString(s string) *node {
	return &node{kind: stringNode, str: s}
}

// decode builds a node tree from a validated gjson value.
func decode(r gjson.Result) *node {
	switch {
	case r.IsObject():
		fields := orderedmap.New[string, *node]()
		r.ForEach(func(key, value gjson.Result) bool {
			fields.Set(key.String(), decode(value))
			return true
		})
		return &node{kind: objectNode, fields: fields}
	case r.IsArray():
		n := &node{kind: arrayNode}
		r.ForEach(func(_, value gjson.Result) bool {
			n.items = append(n.items, decode(value))
			return true
		})
		return n
	case r.Type == gjson.String:
		return newString(r.String())
	default:
		return &node{kind: literalNode, raw: r.Raw}
	}
}

// field returns the value stored under key when n is an object.
func (n *node) field(key string) (*node, bool) {
	if n == nil || n.kind != objectNode {
		return nil, false
	}
	return n.fields.Get(key)
}

// encode appends the compact JSON form of n to buf. Keys and strings are
// re-encoded from their decoded text, so escapes in the input do not survive.
func (n *node) encode(buf *bytes.Buffer) {
	switch n.kind {
	case objectNode:
		buf.WriteByte('{')
		for pair := n.fields.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Prev() != nil {
				buf.WriteByte(',')
			}
			buf.Write(encodeString(pair.Key))
			buf.WriteByte(':')
			pair.Value.encode(buf)
		}
		buf.WriteByte('}')
	case arrayNode:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case stringNode:
		buf.Write(encodeString(n.str))
	default:
		buf.WriteString(n.raw)
	}
}

// encodeString returns s as a JSON string literal with non-ASCII text and
// HTML characters written as-is.
func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string into a bytes.Buffer does not fail.
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
