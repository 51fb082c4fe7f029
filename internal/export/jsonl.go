// Package export converts canonical show documents into flat JSON Lines records for
// bulk analytics and model training pipelines.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"showfmt/internal/batch"
	"showfmt/internal/logger"
	"showfmt/internal/models"
	"showfmt/internal/normalizer"
	"showfmt/pkg/canonjson"
)

// Export errors.
var (
	ErrNoShows = errors.New("no shows found to convert")
)

// SongEntry is one song in the flattened setlist_with_sets field.
type SongEntry struct {
	Title string   `json:"title"`
	Set   string   `json:"set"`
	Notes []string `json:"notes"`
}

// Flatten maps a canonical document onto a single-level record. Absent optional
// values are left out rather than written as null.
func Flatten(doc *models.CanonicalShow) (map[string]any, error) {
	var (
		songs    []SongEntry
		titles   []string
		setNames []string
	)

	flat := map[string]any{}

	for _, set := range doc.Setlist {
		setNames = append(setNames, set.Name)
		flat["songs_in_set_"+set.Name] = len(set.Songs)

		for _, song := range set.Songs {
			notes := song.Notes
			if notes == nil {
				notes = []string{}
			}

			songs = append(songs, SongEntry{Title: song.Title, Set: set.Name, Notes: notes})
			titles = append(titles, song.Title)
		}
	}

	if titles == nil {
		titles = []string{}
		songs = []SongEntry{}
	}

	songsJSON, err := canonjson.Compact(titles)
	if err != nil {
		return nil, err
	}

	setlistJSON, err := canonjson.Compact(songs)
	if err != nil {
		return nil, err
	}

	show := doc.Show
	year, _, _ := strings.Cut(show.Date, "-")

	flat["date"] = show.Date
	flat["year"] = year
	flat["show_id"] = show.ID
	flat["venue_name"] = show.Venue.Name
	flat["city"] = show.Venue.City
	flat["country"] = show.Venue.Country
	flat["total_songs"] = doc.SongCount()
	flat["num_sets"] = len(setNames)
	flat["set_names"] = strings.Join(setNames, ",")
	flat["songs"] = string(songsJSON)
	flat["setlist_with_sets"] = string(setlistJSON)
	flat["notes"] = strings.Join(doc.Notes.Curated, " | ")
	flat["num_curated_notes"] = len(doc.Notes.Curated)
	flat["api"] = doc.Provenance.RawInput.API

	setIfPresent(flat, "state", show.Venue.State)
	setIfPresent(flat, "tour", show.Tour)
	setIfPresent(flat, "downloaded_at", doc.Provenance.RawInput.DownloadedAt)

	if show.Venue.Lat != nil {
		flat["latitude"] = *show.Venue.Lat
	}

	if show.Venue.Lon != nil {
		flat["longitude"] = *show.Venue.Lon
	}

	return flat, nil
}

func setIfPresent(flat map[string]any, key string, value *string) {
	if value != nil {
		flat[key] = *value
	}
}

// LoadDocument reads and validates one canonical document.
func LoadDocument(fs afero.Fs, path string, v *normalizer.Validator) (*models.CanonicalShow, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &batch.FileSystemError{Op: "read", Path: path, Err: err}
	}

	if err := v.ValidateJSON(data); err != nil {
		return nil, err
	}

	var doc models.CanonicalShow
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &batch.DecodeError{Path: path, Err: err}
	}

	return &doc, nil
}

// WriteJSONL flattens every canonical document under inputDir, in path order, into
// outputFile, one record per line. Documents that fail to load are logged and skipped.
// It returns the number of records written.
func WriteJSONL(fs afero.Fs, inputDir, outputFile string, log *logger.Logger) (int, error) {
	if log == nil {
		log = logger.Discard()
	}

	info, err := fs.Stat(inputDir)
	if err != nil {
		return 0, &batch.FileSystemError{Op: "stat", Path: inputDir, Err: err}
	}

	if !info.IsDir() {
		return 0, &batch.FileSystemError{Op: "read directory", Path: inputDir, Err: batch.ErrNotADirectory}
	}

	validator := normalizer.NewValidator()
	outAbs, _ := filepath.Abs(outputFile)

	var (
		buf   bytes.Buffer
		count int
	)

	err = afero.Walk(fs, inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn("Failed to read path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || strings.ToLower(filepath.Ext(path)) != ".json" {
			return nil
		}

		if abs, _ := filepath.Abs(path); abs == outAbs {
			return nil
		}

		doc, err := LoadDocument(fs, path, validator)
		if err != nil {
			log.Warn("Skipping document", "file", path, "kind", string(batch.Classify(err)), "error", err)
			return nil
		}

		flat, err := Flatten(doc)
		if err != nil {
			log.Error("Failed to convert show", "file", path, "error", err)
			return nil
		}

		line, err := canonjson.Compact(flat)
		if err != nil {
			log.Error("Failed to encode show", "file", path, "error", err)
			return nil
		}

		buf.Write(line)
		buf.WriteByte('\n')

		count++

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", inputDir, err)
	}

	if count == 0 {
		return 0, ErrNoShows
	}

	if err := fs.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return 0, &batch.FileSystemError{Op: "create directory", Path: filepath.Dir(outputFile), Err: err}
	}

	if err := batch.WriteFileAtomic(fs, outputFile, buf.Bytes()); err != nil {
		return 0, &batch.FileSystemError{Op: "write", Path: outputFile, Err: err}
	}

	log.Info("Exported shows", "count", count, "output", outputFile, "bytes", buf.Len())

	return count, nil
}
