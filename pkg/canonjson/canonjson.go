// Package canonjson encodes values as deterministic JSON: object keys sorted, no HTML
// escaping, non-ASCII text kept as UTF-8.
package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const indent = "  "

// Marshal encodes v with two-space indentation and a single trailing newline.
func Marshal(v any) ([]byte, error) {
	return encode(v, indent)
}

// Compact encodes v on a single line without a trailing newline.
func Compact(v any) ([]byte, error) {
	data, err := encode(v, "")
	if err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(data, []byte("\n")), nil
}

// encode round-trips v through generic values so that struct fields are emitted in key
// order like map keys. Numbers keep their literal form.
func encode(v any, indent string) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return buf.Bytes(), nil
}

func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}

	return generic, nil
}
