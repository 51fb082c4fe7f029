package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"showfmt/internal/cli"
	"showfmt/internal/normalizer"
	"showfmt/pkg/canonjson"
	"showfmt/pkg/fingerprint"
)

func canonicalDoc(t *testing.T) []byte {
	t.Helper()

	rec, err := normalizer.ParseRecord([]byte(`{"date": "2023-07-04", "venue": "Fenway Park", "city": "Boston"}`))
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

	return data
}

func TestRun(t *testing.T) {
	t.Chdir(t.TempDir())

	doc := canonicalDoc(t)

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/docs/good.json", doc, 0644)
	_ = afero.WriteFile(fs, "/docs/readme.md", []byte("ignored"), 0644)

	var stdout, stderr bytes.Buffer
	if err := run(fs, options{fingerprint: true}, []string{"/docs"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	fp, _ := fingerprint.Compute(doc)
	if got := stdout.String(); got != "[OK] /docs/good.json "+fp+"\n" {
		t.Errorf("Unexpected output: %q", got)
	}

	_ = afero.WriteFile(fs, "/docs/bad.json", []byte(`{"schema_version": "2.0"}`), 0644)
	stdout.Reset()

	err := run(fs, options{}, []string{"/docs"}, &stdout, &stderr)
	if !errors.Is(err, cli.ErrReported) {
		t.Fatalf("Expected reported failure, got %v", err)
	}

	if !strings.Contains(stdout.String(), "[ERROR] /docs/bad.json: schema violation (top-level keys): missing required top-level key: show") {
		t.Errorf("Unexpected output: %q", stdout.String())
	}

	if !strings.Contains(stdout.String(), "[OK] /docs/good.json\n") {
		t.Errorf("Expected the valid document to pass: %q", stdout.String())
	}
}

func TestRun_MissingPath(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer

	err := run(afero.NewMemMapFs(), options{}, []string{"/missing"}, &stdout, &stderr)
	if !errors.Is(err, cli.ErrReported) {
		t.Fatalf("Expected reported failure, got %v", err)
	}

	if !strings.Contains(stderr.String(), "Input path does not exist: /missing") {
		t.Errorf("Unexpected stderr: %q", stderr.String())
	}
}
