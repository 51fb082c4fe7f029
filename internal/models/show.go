// Package models defines the canonical show document produced by the normalizer.
package models

// SchemaVersion identifies the output contract. Consumers treat it as the compatibility marker.
const SchemaVersion = "2.0"

// TransitionSegue is the only transition marker emitted in canonical documents.
const TransitionSegue = "->"

// CanonicalShow is the normalized, schema-versioned document for one show.
// Optional values are pointers so that absence serializes as null instead of being omitted.
type CanonicalShow struct {
	Facts         []Fact     `json:"facts"`
	Notes         Notes      `json:"notes"`
	Provenance    Provenance `json:"provenance"`
	SchemaVersion string     `json:"schema_version"`
	Setlist       []Set      `json:"setlist"`
	Show          Show       `json:"show"`
	Sources       []Source   `json:"sources"`
}

// Show holds the identifying fields of a performance.
type Show struct {
	Date  string  `json:"date"`
	ID    string  `json:"id"`
	Tour  *string `json:"tour"`
	Venue Venue   `json:"venue"`
}

// Venue describes where the show took place.
type Venue struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Name    string   `json:"name"`
	State   *string  `json:"state"`
}

// Set is a named group of songs. Sets without songs are never emitted.
type Set struct {
	Name  string `json:"set"`
	Songs []Song `json:"songs"`
}

// Song is a single performed song.
type Song struct {
	Notes      []string `json:"notes"`
	Title      string   `json:"title"`
	Transition *string  `json:"transition"`
}

// Notes groups curated notes and fan comments.
type Notes struct {
	Curated     []string     `json:"curated"`
	FanComments []FanComment `json:"fan_comments"`
}

// FanComment is a comment or review attached to a show.
type FanComment struct {
	Author *string `json:"author"`
	Date   *string `json:"date"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
	URL    *string `json:"url"`
}

// Fact is a labelled piece of trivia about a show.
type Fact struct {
	Detail    *string `json:"detail"`
	Label     string  `json:"label"`
	SourceURL *string `json:"source_url"`
}

// Source records where show data was retrieved from.
type Source struct {
	RetrievedAt *string `json:"retrieved_at"`
	Type        string  `json:"type"`
	URL         *string `json:"url"`
}

// Provenance traces a canonical document back to its raw input.
type Provenance struct {
	GeneratedAt string   `json:"generated_at"`
	Generator   string   `json:"generator"`
	RawInput    RawInput `json:"raw_input"`
}

// RawInput identifies the raw document a canonical document was built from.
type RawInput struct {
	API          string  `json:"api"`
	DownloadedAt *string `json:"downloaded_at"`
	Filename     string  `json:"filename"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// SongCount returns the total number of songs across all sets.
func (c *CanonicalShow) SongCount() int {
	total := 0
	for _, set := range c.Setlist {
		total += len(set.Songs)
	}

	return total
}
