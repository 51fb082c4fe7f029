package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"showfmt/internal/models"
)

const (
	unknownSlug = "unknown"
	unknownAPI  = "unknown"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text and collapses every run of characters outside [a-z0-9] into one
// hyphen, trimming hyphens at both ends. Text with nothing left slugifies to "unknown".
func Slugify(text string) string {
	slug := strings.Trim(nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "-"), "-")
	if slug == "" {
		return unknownSlug
	}

	return slug
}

// FallbackID derives a stable show ID from its date and location.
func FallbackID(date, venueName, city, state string) string {
	return fmt.Sprintf("%s_%s_%s", date, Slugify(venueName), Slugify(city+state))
}

// BuildID prefers the record's upstream identifier and falls back to fallback.
func BuildID(rec RawRecord, fields *FieldExtractor, fallback string) string {
	if id, ok := fields.Extract(rec, FieldID); ok {
		return id
	}

	return fallback
}

// BuildRawInput records which raw file and upstream API a document came from.
func BuildRawInput(rec RawRecord, fields *FieldExtractor, filename string) models.RawInput {
	api, ok := fields.Extract(rec, FieldAPI)
	if !ok {
		api = unknownAPI
	}

	return models.RawInput{
		Filename:     filename,
		API:          api,
		DownloadedAt: fields.Optional(rec, FieldDownloadedAt),
	}
}
