// Package fingerprint computes content hashes of canonical show documents that ignore
// generation-time fields, so re-normalizing the same input yields the same fingerprint.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"showfmt/pkg/canonjson"
)

// Prefix marks the hash algorithm in rendered fingerprints.
const Prefix = "sha256:"

// Fingerprint errors.
var (
	ErrNotAnObject = errors.New("document is not a JSON object")
	ErrMismatch    = errors.New("fingerprint mismatch")
)

// Compute returns the fingerprint of a serialized canonical document. provenance.generated_at
// is blanked, as is any source retrieved_at equal to it, since both come from the clock.
func Compute(doc []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var generic map[string]any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to decode document: %w", err)
	}

	if generic == nil {
		return "", ErrNotAnObject
	}

	stripGenerationTime(generic)

	canonical, err := canonjson.Compact(generic)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(canonical)

	return Prefix + hex.EncodeToString(hash[:]), nil
}

// Verify checks that doc has the expected fingerprint.
func Verify(doc []byte, expected string) error {
	actual, err := Compute(doc)
	if err != nil {
		return err
	}

	if actual != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrMismatch, expected, actual)
	}

	return nil
}

func stripGenerationTime(doc map[string]any) {
	provenance, ok := doc["provenance"].(map[string]any)
	if !ok {
		return
	}

	generatedAt, _ := provenance["generated_at"].(string)
	if _, ok := provenance["generated_at"]; ok {
		provenance["generated_at"] = ""
	}

	if generatedAt == "" {
		return
	}

	sources, _ := doc["sources"].([]any)
	for _, item := range sources {
		source, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if retrievedAt, _ := source["retrieved_at"].(string); retrievedAt == generatedAt {
			source["retrieved_at"] = ""
		}
	}
}
