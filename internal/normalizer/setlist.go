package normalizer

import (
	"strings"

	"github.com/tidwall/gjson"

	"showfmt/internal/models"
)

// Setlist lookup keys and per-set/per-song synonyms, in precedence order.
var (
	setlistKeys       = []string{"setlist", "sets", "song_sets", "songSets"}
	setNameKeys       = []string{"name", "setName"}
	setSongsKeys      = []string{"songs", "tracks"}
	songTitleKeys     = []string{"title", "name", "song"}
	songNoteKeys      = []string{"notes", "note", "comment", "footnote"}
	jamToNextKeys     = []string{"jam_to_next", "jamToNext"}
	transitionMarkers = map[string]bool{"->": true, ">": true, "jam": true}
)

// defaultSetName names sets that carry no name of their own.
const defaultSetName = "Set"

// setlistShape is the container shape a raw setlist arrives in.
type setlistShape int

const (
	shapeAbsent setlistShape = iota
	shapeList                // list of set objects and/or bare song lists
	shapeMap                 // set name -> song list
)

// setShape is the shape of one entry in a list-shaped setlist.
type setShape int

const (
	setInvalid setShape = iota
	setObject           // {"name": ..., "songs": [...]}
	setBareList         // [song, song, ...]
)

func inspectSetlist(v gjson.Result) setlistShape {
	switch {
	case v.IsArray():
		return shapeList
	case v.IsObject():
		return shapeMap
	default:
		return shapeAbsent
	}
}

func inspectSet(v gjson.Result) setShape {
	switch {
	case v.IsObject():
		return setObject
	case v.IsArray():
		return setBareList
	default:
		return setInvalid
	}
}

// NormalizeSetlist returns the record's sets in source order. Sets whose songs all fail
// to normalize are left out.
func NormalizeSetlist(rec RawRecord) []models.Set {
	sets := []models.Set{}

	var raw gjson.Result

	for _, key := range setlistKeys {
		if v := rec.Get(key); usable(v) {
			raw = v
			break
		}
	}

	switch inspectSetlist(raw) {
	case shapeList:
		for _, entry := range raw.Array() {
			if set, ok := normalizeSetEntry(entry); ok {
				sets = append(sets, set)
			}
		}
	case shapeMap:
		raw.ForEach(func(key, songs gjson.Result) bool {
			name := strings.TrimSpace(key.Str)
			if name == "" {
				name = defaultSetName
			}

			if set, ok := buildSet(name, songs); ok {
				sets = append(sets, set)
			}

			return true
		})
	case shapeAbsent:
	}

	return sets
}

func normalizeSetEntry(entry gjson.Result) (models.Set, bool) {
	switch inspectSet(entry) {
	case setObject:
		name, ok := firstString(entry, setNameKeys...)
		if !ok {
			name = defaultSetName
		}

		var songs gjson.Result

		for _, key := range setSongsKeys {
			if v := member(entry, key); usable(v) {
				songs = v
				break
			}
		}

		return buildSet(name, songs)
	case setBareList:
		return buildSet(defaultSetName, entry)
	case setInvalid:
	}

	return models.Set{}, false
}

// buildSet normalizes a raw song list. Non-list values count as empty.
func buildSet(name string, raw gjson.Result) (models.Set, bool) {
	if !raw.IsArray() {
		return models.Set{}, false
	}

	songs := []models.Song{}

	for _, item := range raw.Array() {
		if song, ok := NormalizeSong(item); ok {
			songs = append(songs, song)
		}
	}

	if len(songs) == 0 {
		return models.Set{}, false
	}

	return models.Set{Name: name, Songs: songs}, true
}

// NormalizeSong converts a bare title or a song object. Entries without a title are rejected.
func NormalizeSong(item gjson.Result) (models.Song, bool) {
	song := models.Song{Notes: []string{}}

	switch {
	case item.Type == gjson.String:
		song.Title = strings.TrimSpace(item.Str)
	case item.IsObject():
		song.Title, _ = firstString(item, songTitleKeys...)
		song.Transition = songTransition(item)
		song.Notes = songNotes(item)
	}

	if song.Title == "" {
		return models.Song{}, false
	}

	return song, true
}

// songTransition recognizes only the literal markers and the explicit jam/transition flags.
// Every recognized form becomes "->".
func songTransition(item gjson.Result) *string {
	segue := models.TransitionSegue

	t := member(item, "transition")
	if t.Type == gjson.String && transitionMarkers[strings.TrimSpace(t.Str)] {
		return &segue
	}

	if t.Type == gjson.True {
		return &segue
	}

	for _, key := range jamToNextKeys {
		if usable(member(item, key)) {
			return &segue
		}
	}

	return nil
}

// songNotes merges every note key, flattening lists and scalars alike.
func songNotes(item gjson.Result) []string {
	notes := []string{}

	for _, key := range songNoteKeys {
		v := member(item, key)
		if !usable(v) {
			continue
		}

		values := []gjson.Result{v}
		if v.IsArray() {
			values = v.Array()
		}

		for _, n := range values {
			if !usable(n) {
				continue
			}

			if s, ok := scalarString(n); ok && s != "" {
				notes = append(notes, s)
			}
		}
	}

	return notes
}
