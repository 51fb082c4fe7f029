package normalizer

import (
	"strings"

	"github.com/tidwall/gjson"

	"showfmt/internal/models"
)

// Annotation keys. Unlike scalar fields, every key contributes: values are concatenated
// in key order.
var (
	curatedNoteKeys = []string{"notes", "curated_notes", "curatedNotes", "facts", "setlist_notes"}
	fanCommentKeys  = []string{"fan_comments", "fanComments", "comments", "reviews"}
	factKeys        = []string{"facts", "trivia", "notable_moments"}
)

const (
	unknownCommentSource = "unknown"
	otherSourceType      = "other"
	apiSourceType        = "api"
)

// ExtractNotes collects curated notes and fan comments. List items are trimmed and kept
// as-is; a single string is treated as HTML and sanitized. Malformed fan comments are skipped.
func ExtractNotes(rec RawRecord) models.Notes {
	notes := models.Notes{
		Curated:     []string{},
		FanComments: []models.FanComment{},
	}

	for _, key := range curatedNoteKeys {
		v := rec.Get(key)
		if !usable(v) {
			continue
		}

		switch {
		case v.IsArray():
			for _, item := range v.Array() {
				if !usable(item) {
					continue
				}

				if s, ok := scalarString(item); ok && s != "" {
					notes.Curated = append(notes.Curated, s)
				}
			}
		case v.Type == gjson.String:
			if text := SanitizeText(v.Str); text != "" {
				notes.Curated = append(notes.Curated, text)
			}
		}
	}

	for _, key := range fanCommentKeys {
		v := rec.Get(key)
		if !v.IsArray() {
			continue
		}

		for _, item := range v.Array() {
			if !item.IsObject() {
				continue
			}

			notes.FanComments = append(notes.FanComments, fanComment(item))
		}
	}

	return notes
}

func fanComment(item gjson.Result) models.FanComment {
	source, ok := firstString(item, "source")
	if !ok {
		source = unknownCommentSource
	}

	text, _ := firstString(item, "text", "comment")

	return models.FanComment{
		Source: source,
		Author: optionalString(item, "author", "name"),
		Date:   optionalString(item, "date"),
		Text:   text,
		URL:    optionalString(item, "url"),
	}
}

// ExtractFacts accepts plain string labels and structured fact objects.
func ExtractFacts(rec RawRecord) []models.Fact {
	facts := []models.Fact{}

	for _, key := range factKeys {
		v := rec.Get(key)
		if !v.IsArray() {
			continue
		}

		for _, item := range v.Array() {
			switch {
			case item.IsObject():
				label, _ := firstString(item, "label", "title")
				facts = append(facts, models.Fact{
					Label:     label,
					Detail:    optionalString(item, "detail", "description"),
					SourceURL: optionalString(item, "source_url", "sourceUrl"),
				})
			case item.Type == gjson.String:
				if label := strings.TrimSpace(item.Str); label != "" {
					facts = append(facts, models.Fact{Label: label})
				}
			}
		}
	}

	return facts
}

// ExtractSources copies the record's explicit sources and appends an "api" source when the
// record carries an API URL marker. That source is stamped with the record's download time,
// or with fallbackRetrievedAt when the record has none.
func ExtractSources(rec RawRecord, fields *FieldExtractor, fallbackRetrievedAt string) []models.Source {
	sources := []models.Source{}

	if list := rec.Get("sources"); list.IsArray() {
		for _, item := range list.Array() {
			if !item.IsObject() {
				continue
			}

			sourceType, ok := firstString(item, "type")
			if !ok {
				sourceType = otherSourceType
			}

			sources = append(sources, models.Source{
				Type:        sourceType,
				URL:         optionalString(item, "url"),
				RetrievedAt: optionalString(item, "retrieved_at", "retrievedAt"),
			})
		}
	}

	if hasAnyKey(rec, CandidateKeys[FieldAPIURL]) {
		retrievedAt, ok := fields.Extract(rec, FieldDownloadedAt)
		if !ok {
			retrievedAt = fallbackRetrievedAt
		}

		sources = append(sources, models.Source{
			Type:        apiSourceType,
			URL:         fields.Optional(rec, FieldAPIURL),
			RetrievedAt: models.StringPtr(retrievedAt),
		})
	}

	return sources
}

func hasAnyKey(rec RawRecord, keys []string) bool {
	for _, key := range keys {
		if rec.Has(key) {
			return true
		}
	}

	return false
}
