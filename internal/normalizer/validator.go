package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"showfmt/internal/models"
)

// ErrNotADocument is returned when validated input does not decode to a JSON object.
var ErrNotADocument = errors.New("document is not a JSON object")

// RequiredTopLevelKeys must all be present in a canonical document.
var RequiredTopLevelKeys = []string{"schema_version", "show", "setlist", "notes", "facts", "sources", "provenance"}

var requiredShowKeys = []string{"id", "date", "venue"}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator checks canonical documents. It stops at the first failed check.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateShow validates an assembled document through its JSON form, exactly as a
// document read back from disk would be validated.
func (v *Validator) ValidateShow(doc *models.CanonicalShow) error {
	if doc == nil {
		return ErrNotADocument
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return v.ValidateJSON(data)
}

// ValidateJSON decodes and validates a serialized canonical document.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return ErrNotADocument
	}

	return v.Validate(doc)
}

// Validate runs, in order: top-level keys, show fields, date, venue, provenance.
func (v *Validator) Validate(doc map[string]any) error {
	for _, key := range RequiredTopLevelKeys {
		if _, ok := doc[key]; !ok {
			return violation(CheckTopLevelKeys, "missing required top-level key: %s", key)
		}
	}

	show, ok := doc["show"].(map[string]any)
	if !ok {
		return violation(CheckShowFields, "show is not an object")
	}

	for _, key := range requiredShowKeys {
		if _, ok := show[key]; !ok {
			return violation(CheckShowFields, "missing required show field: %s", key)
		}
	}

	if id, ok := show["id"].(string); !ok || id == "" {
		return violation(CheckShowFields, "show.id must be a non-empty string")
	}

	date, _ := show["date"].(string)
	if !isCalendarDate(date) {
		return violation(CheckDate, "invalid date format: %v", show["date"])
	}

	venue, ok := show["venue"].(map[string]any)
	if !ok {
		return violation(CheckVenue, "show.venue is not an object")
	}

	if name, ok := venue["name"].(string); !ok || name == "" {
		return violation(CheckVenue, "missing required venue.name")
	}

	if city, ok := venue["city"].(string); !ok || city == "" {
		return violation(CheckVenue, "missing required venue.city")
	}

	provenance, ok := doc["provenance"].(map[string]any)
	if !ok {
		return violation(CheckProvenance, "provenance is not an object")
	}

	if _, ok := provenance["raw_input"].(map[string]any); !ok {
		return violation(CheckProvenance, "missing provenance.raw_input")
	}

	return nil
}

// isCalendarDate requires the exact YYYY-MM-DD shape and a real calendar day.
func isCalendarDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}
