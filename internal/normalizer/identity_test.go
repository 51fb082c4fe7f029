package normalizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"showfmt/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Madison Square Garden", "madison-square-garden"},
		{"  Red Rocks Amphitheatre!! ", "red-rocks-amphitheatre"},
		{"Nectar's", "nectar-s"},
		{"Café Wha?", "caf-wha"},
		{"New YorkNY", "new-yorkny"},
		{"---", "unknown"},
		{"日本武道館", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFallbackID_Stable(t *testing.T) {
	first := FallbackID("1997-12-31", "Madison Square Garden", "New York", "NY")
	second := FallbackID("1997-12-31", "Madison Square Garden", "New York", "NY")

	if first != second {
		t.Errorf("FallbackID is not stable: %q vs %q", first, second)
	}

	if first != "1997-12-31_madison-square-garden_new-yorkny" {
		t.Errorf("Unexpected fallback ID: %q", first)
	}

	if got := FallbackID("1997-12-31", "Venue", "", ""); got != "1997-12-31_venue_unknown" {
		t.Errorf("Unexpected fallback ID without location: %q", got)
	}
}

func TestBuildID(t *testing.T) {
	fields := NewFieldExtractor("", false)

	if got := BuildID(mustParse(t, `{"showId": "abc-123"}`), fields, "fallback"); got != "abc-123" {
		t.Errorf("Expected upstream ID, got %q", got)
	}

	if got := BuildID(mustParse(t, `{"id": ""}`), fields, "fallback"); got != "fallback" {
		t.Errorf("Expected fallback ID, got %q", got)
	}
}

func TestBuildRawInput(t *testing.T) {
	fields := NewFieldExtractor("", false)

	tests := []struct {
		name  string
		input string
		want  models.RawInput
	}{
		{
			name:  "defaults",
			input: `{}`,
			want:  models.RawInput{Filename: "show.json", API: "unknown"},
		},
		{
			name:  "api and download time",
			input: `{"source": "phish.net", "downloadedAt": "2023-05-01T10:00:00Z"}`,
			want:  models.RawInput{Filename: "show.json", API: "phish.net", DownloadedAt: models.StringPtr("2023-05-01T10:00:00Z")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRawInput(mustParse(t, tt.input), fields, "show.json")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildRawInput() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
