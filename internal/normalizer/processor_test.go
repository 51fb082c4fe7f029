package normalizer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"showfmt/internal/models"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC)

func testProcessor() *Processor {
	return NewProcessor(Options{Clock: func() time.Time { return testTime }})
}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(Options{})
	if p == nil || p.Validator() == nil {
		t.Fatal("NewProcessor returned an incomplete processor")
	}
}

func TestProcessor_Normalize(t *testing.T) {
	rec := mustParse(t, `{"date":"1997-12-31","venueName":"Madison Square Garden","city":"New York","state":"NY","setlist":[{"name":"Set 1","songs":["Simple","Ghost"]}]}`)

	doc, err := testProcessor().Normalize(rec, "1997-12-31.json")
	if err != nil {
		t.Fatalf("Normalize returned unexpected error: %v", err)
	}

	want := &models.CanonicalShow{
		SchemaVersion: "2.0",
		Show: models.Show{
			ID:   "1997-12-31_madison-square-garden_new-yorkny",
			Date: "1997-12-31",
			Venue: models.Venue{
				Name:    "Madison Square Garden",
				City:    "New York",
				State:   models.StringPtr("NY"),
				Country: "USA",
			},
		},
		Setlist: []models.Set{
			{Name: "Set 1", Songs: []models.Song{
				{Title: "Simple", Notes: []string{}},
				{Title: "Ghost", Notes: []string{}},
			}},
		},
		Notes:   models.Notes{Curated: []string{}, FanComments: []models.FanComment{}},
		Facts:   []models.Fact{},
		Sources: []models.Source{},
		Provenance: models.Provenance{
			RawInput:    models.RawInput{Filename: "1997-12-31.json", API: "unknown"},
			GeneratedAt: "2024-01-02T03:04:05.123456Z",
			Generator:   "showfmt",
		},
	}

	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	setlist, err := json.Marshal(doc.Setlist)
	if err != nil {
		t.Fatalf("Failed to marshal setlist: %v", err)
	}

	wantSetlist := `[{"set":"Set 1","songs":[{"notes":[],"title":"Simple","transition":null},{"notes":[],"title":"Ghost","transition":null}]}]`
	if string(setlist) != wantSetlist {
		t.Errorf("Setlist JSON = %s, want %s", setlist, wantSetlist)
	}
}

func TestProcessor_Normalize_MissingRequired(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField Field
	}{
		{"missing date", `{"venueName": "Madison Square Garden", "city": "New York"}`, FieldDate},
		{"missing venue", `{"date": "1997-12-31", "city": "New York"}`, FieldVenueName},
		{"missing city", `{"date": "1997-12-31", "venue": "Madison Square Garden"}`, FieldCity},
		{"date checked first", `{}`, FieldDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := testProcessor().Normalize(mustParse(t, tt.input), "show.json")
			if doc != nil {
				t.Error("Expected no document on failure")
			}

			if !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("Expected ErrMissingRequiredField, got %v", err)
			}

			var missing *MissingFieldError
			if !errors.As(err, &missing) || missing.Field != tt.wantField {
				t.Errorf("Expected missing %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestProcessor_Normalize_ValidationError(t *testing.T) {
	rec := mustParse(t, `{"date": "1997-13-45", "venue": "MSG", "city": "New York"}`)

	_, err := testProcessor().Normalize(rec, "show.json")
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("Expected ErrSchemaViolation, got %v", err)
	}

	strict := NewProcessor(Options{StrictDates: true})

	_, err = strict.Normalize(mustParse(t, `{"date": "1997-12-31 20:00", "venue": "MSG", "city": "New York"}`), "show.json")
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("Expected strict dates to reject a timestamp, got %v", err)
	}
}

func TestProcessor_Normalize_Idempotent(t *testing.T) {
	raw := `{
		"show_id": 1252691618, "showdate": "1997-11-22", "venue": {"name": "Hampton Coliseum", "city": "Hampton", "state": "VA", "lat": 37.03, "lon": -76.39},
		"tour_name": "Fall Tour", "api_url": "https://api.phish.net", "downloaded_at": "2023-05-01T10:00:00Z",
		"sets": {"1": [{"title": "Mike's Song", "transition": ">"}, "Weekapaug Groove"], "e": ["Bold As Love"]},
		"setlist_notes": "<p>Huge <b>jam</b></p>", "facts": ["Famous show"],
		"fan_comments": [{"text": "wow"}]
	}`

	first, err := testProcessor().Normalize(mustParse(t, raw), "hampton.json")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	later := NewProcessor(Options{Clock: func() time.Time { return testTime.Add(time.Hour) }})

	second, err := later.Normalize(mustParse(t, raw), "hampton.json")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if first.Provenance.GeneratedAt == second.Provenance.GeneratedAt {
		t.Error("Expected generation times to differ")
	}

	second.Provenance.GeneratedAt = first.Provenance.GeneratedAt
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Normalize() is not deterministic (-first +second):\n%s", diff)
	}

	if first.Show.ID != "1252691618" || first.Show.Venue.Name != "Hampton Coliseum" {
		t.Errorf("Unexpected show: %+v", first.Show)
	}

	if first.SongCount() != 3 {
		t.Errorf("Expected 3 songs, got %d", first.SongCount())
	}
}

func TestProcessor_RoundTripValidation(t *testing.T) {
	inputs := []string{
		`{"date": "2023-07-04", "venue": "Fenway Park", "city": "Boston"}`,
		`{"eventDate": "2023-07-04T19:30:00-04:00", "location": "Fenway Park", "venue_city": "Boston", "setlist": [["Sand"]]}`,
		`{"date": "2023-07-04", "venue": {"name": "Fenway Park", "city": "Boston"}, "setlist": "none", "notes": 5}`,
		`{"date": "2023-07-04", "venue": "Fenway Park", "city": "Boston", "sources": [1, {"url": "x"}], "apiUrl": null}`,
		`{"date": "2023-07-04", "venue": "Fenway Park", "city": "Boston", "lat": "n/a", "id": "custom/id"}`,
	}

	p := testProcessor()

	for _, input := range inputs {
		doc, err := p.Normalize(mustParse(t, input), "show.json")
		if err != nil {
			t.Errorf("Normalize(%s) failed: %v", input, err)
			continue
		}

		if err := p.Validator().ValidateShow(doc); err != nil {
			t.Errorf("Assembled document does not validate: %v", err)
		}
	}
}

func TestAssembler_Assemble_NilSlices(t *testing.T) {
	doc := NewAssembler("").Assemble(&Extracted{}, testTime)

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"setlist", "facts", "sources"} {
		if _, ok := generic[key].([]any); !ok {
			t.Errorf("Expected %s to encode as a list, got %v", key, generic[key])
		}
	}

	if doc.Provenance.Generator != DefaultGenerator {
		t.Errorf("Expected default generator, got %q", doc.Provenance.Generator)
	}
}
