package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"showfmt/internal/export"
	"showfmt/internal/normalizer"
	"showfmt/pkg/canonjson"
)

func writeCanonical(t *testing.T, fs afero.Fs, path, raw string) {
	t.Helper()

	rec, err := normalizer.ParseRecord([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}

	p := normalizer.NewProcessor(normalizer.Options{
		Clock: func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) },
	})

	doc, err := p.Normalize(rec, "show.json")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	data, err := canonjson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestRun(t *testing.T) {
	t.Chdir(t.TempDir())

	fs := afero.NewMemMapFs()
	writeCanonical(t, fs, "/canonical/1997/a.json", `{"date": "1997-12-31", "venue": "Madison Square Garden", "setlist": ["Tweezer"]}`)
	writeCanonical(t, fs, "/canonical/b.json", `{"date": "2023-07-04", "venue": "Fenway Park"}`)
	_ = afero.WriteFile(fs, "/canonical/broken.json", []byte(`{"show": `), 0644)

	var stdout, stderr bytes.Buffer
	if err := run(fs, options{in: "/canonical", out: "/out/shows.jsonl"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	expected := "[OK] Converted 2 shows to JSONL\n[OK] Output: /out/shows.jsonl\n"
	if got := stdout.String(); got != expected {
		t.Errorf("Unexpected output:\nExpected: %q\nGot: %q", expected, got)
	}

	data, err := afero.ReadFile(fs, "/out/shows.jsonl")
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}

	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("Expected 2 lines, got %d:\n%s", lines, data)
	}

	if !strings.Contains(string(data), `"venue_name":"Madison Square Garden"`) {
		t.Errorf("Expected flattened venue name:\n%s", data)
	}

	if !strings.Contains(stderr.String(), "Skipping document") {
		t.Errorf("Expected broken document to be logged, got: %s", stderr.String())
	}
}

func TestRun_NoShows(t *testing.T) {
	t.Chdir(t.TempDir())

	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/empty", 0755)

	var stdout, stderr bytes.Buffer
	if err := run(fs, options{in: "/empty", out: "/out.jsonl"}, &stdout, &stderr); !errors.Is(err, export.ErrNoShows) {
		t.Errorf("Expected ErrNoShows, got %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("Expected no status lines, got %q", stdout.String())
	}
}
