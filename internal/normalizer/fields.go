package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"showfmt/pkg/utils"
)

// Field is a logical field the extractor knows how to find in a raw record.
type Field string

// Logical fields.
const (
	FieldDate         Field = "date"
	FieldVenueName    Field = "venue name"
	FieldCity         Field = "city"
	FieldState        Field = "state"
	FieldCountry      Field = "country"
	FieldLatitude     Field = "latitude"
	FieldLongitude    Field = "longitude"
	FieldTour         Field = "tour"
	FieldID           Field = "id"
	FieldAPI          Field = "api"
	FieldAPIURL       Field = "api url"
	FieldDownloadedAt Field = "downloaded at"
)

// DefaultCountry is used when a record names no country.
const DefaultCountry = "USA"

// CandidateKeys lists, per logical field, the raw keys tried in order. The first key
// holding a usable value wins and later keys are never consulted, so the order decides
// precedence between synonymous sources. A dot denotes a key inside a nested object;
// nested candidates always come after the top-level ones.
var CandidateKeys = map[Field][]string{
	FieldDate:         {"date", "showDate", "show_date", "event_date", "eventDate", "showdate"},
	FieldVenueName:    {"venue", "venueName", "venue_name", "location"},
	FieldCity:         {"city", "venue_city", "venueCity", "venue.city"},
	FieldState:        {"state", "province", "venue_state", "venueState", "venue.state"},
	FieldCountry:      {"country", "venue_country", "venueCountry", "venue.country"},
	FieldLatitude:     {"lat", "latitude", "venue_lat", "venueLat", "venue.lat", "venue.latitude"},
	FieldLongitude:    {"lon", "longitude", "lng", "venue_lon", "venueLon", "venue.lon", "venue.longitude"},
	FieldTour:         {"tour", "tour_name", "tourName"},
	FieldID:           {"id", "show_id", "showId", "api_id", "apiId"},
	FieldAPI:          {"api", "source"},
	FieldAPIURL:       {"api_url", "apiUrl"},
	FieldDownloadedAt: {"downloaded_at", "downloadedAt"},
}

// FieldExtractor pulls logical fields out of raw records. It holds no per-record state.
type FieldExtractor struct {
	defaultCountry string
	strictDates    bool
}

// NewFieldExtractor creates an extractor. An empty defaultCountry means DefaultCountry.
func NewFieldExtractor(defaultCountry string, strictDates bool) *FieldExtractor {
	if defaultCountry == "" {
		defaultCountry = DefaultCountry
	}

	return &FieldExtractor{
		defaultCountry: defaultCountry,
		strictDates:    strictDates,
	}
}

// Extract returns the coerced text value of field, or false when no candidate key
// holds one. Country never reports absence: it falls back to the default country.
func (e *FieldExtractor) Extract(rec RawRecord, field Field) (string, bool) {
	for _, key := range CandidateKeys[field] {
		v := rec.Get(key)
		if !usable(v) {
			continue
		}

		var (
			s  string
			ok bool
		)

		switch field {
		case FieldDate:
			s, ok = e.coerceDate(v)
		case FieldVenueName:
			s, ok = coerceVenueName(v)
		default:
			s, ok = scalarString(v)
		}

		if ok && s != "" {
			return s, true
		}
	}

	if field == FieldCountry {
		return e.defaultCountry, true
	}

	return "", false
}

// Optional is Extract as a nullable value.
func (e *FieldExtractor) Optional(rec RawRecord, field Field) *string {
	if s, ok := e.Extract(rec, field); ok {
		return &s
	}

	return nil
}

// Coordinate returns the latitude or longitude of a record. The first non-null candidate
// decides: when it does not parse as a finite number the coordinate is absent.
func (e *FieldExtractor) Coordinate(rec RawRecord, field Field) *float64 {
	for _, key := range CandidateKeys[field] {
		v := rec.Get(key)
		if !present(v) {
			continue
		}

		f, ok := parseFloat(v)
		if !ok {
			return nil
		}

		return &f
	}

	return nil
}

// coerceDate returns YYYY-MM-DD values verbatim. Anything else is cut to its first ten
// characters unless strict dates are enabled, in which case it is passed through for the
// validator to reject.
func (e *FieldExtractor) coerceDate(v gjson.Result) (string, bool) {
	s, ok := scalarString(v)
	if !ok {
		return "", false
	}

	if looksLikeDate(s) || e.strictDates {
		return s, true
	}

	return utils.FirstRunes(s, 10), true
}

// looksLikeDate checks the shape only: ten characters with hyphens at positions 4 and 7.
func looksLikeDate(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}

// coerceVenueName accepts a plain value or a venue object carrying a name.
func coerceVenueName(v gjson.Result) (string, bool) {
	if v.IsObject() {
		return firstString(v, "name", "venueName", "venue_name")
	}

	return scalarString(v)
}

func parseFloat(v gjson.Result) (float64, bool) {
	var text string

	switch v.Type {
	case gjson.Number:
		text = v.Raw
	case gjson.String:
		text = strings.TrimSpace(v.Str)
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
