// Package normalizer converts loosely structured raw show records into canonical documents.
package normalizer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Raw record errors.
var (
	ErrInvalidJSON = errors.New("input is not valid JSON")
	ErrNotAnObject = errors.New("top-level JSON value is not an object")
)

// RawRecord is an upstream show document of unknown shape. Object keys keep their document order.
type RawRecord struct {
	root gjson.Result
}

// ParseRecord parses one raw JSON document. The document must be UTF-8 and its
// top-level value must be an object.
func ParseRecord(data []byte) (RawRecord, error) {
	if !utf8.Valid(data) || !gjson.ValidBytes(data) {
		return RawRecord{}, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return RawRecord{}, ErrNotAnObject
	}

	return RawRecord{root: root}, nil
}

// Has reports whether key is present at the top level, even with a null value.
func (r RawRecord) Has(key string) bool {
	return member(r.root, key).Exists()
}

// Get returns the top-level value under key. A dot in key descends into nested objects.
func (r RawRecord) Get(key string) gjson.Result {
	node := r.root
	for part := range strings.SplitSeq(key, ".") {
		if !node.IsObject() {
			return gjson.Result{}
		}

		node = member(node, part)
	}

	return node
}

// member looks a key up by exact name, without gjson path syntax.
// Duplicate keys resolve to the last occurrence, as encoding/json does.
func member(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result

	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}

		return true
	})

	return found
}

// present reports a non-null value.
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// usable reports a present value that is not empty: false, 0, blank strings,
// empty arrays and empty objects are all unusable.
func usable(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return strings.TrimSpace(v.Str) != ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}

		nonEmpty := false

		v.ForEach(func(_, _ gjson.Result) bool {
			nonEmpty = true
			return false
		})

		return nonEmpty
	}

	return false
}

// scalarString renders a scalar as trimmed text. Numbers keep their source literal.
func scalarString(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str), true
	case gjson.Number:
		return v.Raw, true
	case gjson.True:
		return "true", true
	case gjson.False:
		return "false", true
	}

	return "", false
}

// firstString returns the first usable scalar under keys of obj.
func firstString(obj gjson.Result, keys ...string) (string, bool) {
	for _, key := range keys {
		v := member(obj, key)
		if !usable(v) {
			continue
		}

		if s, ok := scalarString(v); ok && s != "" {
			return s, true
		}
	}

	return "", false
}

// optionalString is firstString as a nullable value.
func optionalString(obj gjson.Result, keys ...string) *string {
	if s, ok := firstString(obj, keys...); ok {
		return &s
	}

	return nil
}
