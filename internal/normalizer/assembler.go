package normalizer

import (
	"time"

	"showfmt/internal/models"
)

// TimestampLayout formats generation times: ISO-8601 in UTC with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DefaultGenerator names this engine in provenance records.
const DefaultGenerator = "showfmt"

// Extracted holds everything pulled out of one raw record, ready for assembly.
type Extracted struct {
	Show     models.Show
	Setlist  []models.Set
	Notes    models.Notes
	Facts    []models.Fact
	Sources  []models.Source
	RawInput models.RawInput
}

// Extractor runs every extraction stage over a raw record.
type Extractor struct {
	fields *FieldExtractor
}

// NewExtractor creates an extractor using fields for scalar lookups.
func NewExtractor(fields *FieldExtractor) *Extractor {
	return &Extractor{fields: fields}
}

// Extract reads the required fields (date, venue name, city, in that order), then the
// optional ones and the sub-documents. now stamps the implicit API source when the
// record has no download time.
func (e *Extractor) Extract(rec RawRecord, filename string, now time.Time) (*Extracted, error) {
	date, ok := e.fields.Extract(rec, FieldDate)
	if !ok {
		return nil, &MissingFieldError{Field: FieldDate}
	}

	venueName, ok := e.fields.Extract(rec, FieldVenueName)
	if !ok {
		return nil, &MissingFieldError{Field: FieldVenueName}
	}

	city, ok := e.fields.Extract(rec, FieldCity)
	if !ok {
		return nil, &MissingFieldError{Field: FieldCity}
	}

	state := e.fields.Optional(rec, FieldState)
	country, _ := e.fields.Extract(rec, FieldCountry)

	stateText := ""
	if state != nil {
		stateText = *state
	}

	return &Extracted{
		Show: models.Show{
			ID:   BuildID(rec, e.fields, FallbackID(date, venueName, city, stateText)),
			Date: date,
			Tour: e.fields.Optional(rec, FieldTour),
			Venue: models.Venue{
				Name:    venueName,
				City:    city,
				State:   state,
				Country: country,
				Lat:     e.fields.Coordinate(rec, FieldLatitude),
				Lon:     e.fields.Coordinate(rec, FieldLongitude),
			},
		},
		Setlist:  NormalizeSetlist(rec),
		Notes:    ExtractNotes(rec),
		Facts:    ExtractFacts(rec),
		Sources:  ExtractSources(rec, e.fields, FormatTimestamp(now)),
		RawInput: BuildRawInput(rec, e.fields, filename),
	}, nil
}

// Assembler composes extracted parts into a canonical document. It never fails:
// missing optional values become null or empty lists.
type Assembler struct {
	generator string
}

// NewAssembler creates an assembler that signs documents as generator.
func NewAssembler(generator string) *Assembler {
	if generator == "" {
		generator = DefaultGenerator
	}

	return &Assembler{generator: generator}
}

// Assemble builds the document and stamps it with the schema version and generatedAt.
func (a *Assembler) Assemble(ex *Extracted, generatedAt time.Time) *models.CanonicalShow {
	return &models.CanonicalShow{
		SchemaVersion: models.SchemaVersion,
		Show:          ex.Show,
		Setlist:       nonNil(ex.Setlist),
		Notes: models.Notes{
			Curated:     nonNil(ex.Notes.Curated),
			FanComments: nonNil(ex.Notes.FanComments),
		},
		Facts:   nonNil(ex.Facts),
		Sources: nonNil(ex.Sources),
		Provenance: models.Provenance{
			RawInput:    ex.RawInput,
			GeneratedAt: FormatTimestamp(generatedAt),
			Generator:   a.generator,
		},
	}
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
