package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks data that could not be read into the expected shape.
var ErrMalformed = errors.New("malformed data")

// SpreadsheetEntry is one row of the input sheet. Every field may be blank.
type SpreadsheetEntry struct {
	Row          int
	SubmittedBy  string
	Category     string
	ComposerHint string
	LyricistHint string
	Artist       string
	Title        string
	Album        string
	Label        string
}

// String identifies the entry in log lines.
func (e SpreadsheetEntry) String() string {
	return fmt.Sprintf("%s - %s", e.Artist, e.Title)
}

// TrackMatch is the first catalog search result for a query.
type TrackMatch struct {
	ArtistName string
	TrackName  string
	AlbumName  string
	AlbumID    string
	AlbumYear  string
}

// NewTrackMatch validates the fields credit resolution depends on.
func NewTrackMatch(artist, track, album, albumID, year string) (TrackMatch, error) {
	m := TrackMatch{
		ArtistName: strings.TrimSpace(artist),
		TrackName:  strings.TrimSpace(track),
		AlbumName:  strings.TrimSpace(album),
		AlbumID:    strings.TrimSpace(albumID),
		AlbumYear:  strings.TrimSpace(year),
	}
	switch {
	case m.ArtistName == "":
		return TrackMatch{}, fmt.Errorf("track match: missing artist name: %w", ErrMalformed)
	case m.TrackName == "":
		return TrackMatch{}, fmt.Errorf("track match: missing track name: %w", ErrMalformed)
	case m.AlbumName == "":
		return TrackMatch{}, fmt.Errorf("track match %q: missing album name: %w", m.TrackName, ErrMalformed)
	case m.AlbumID == "":
		return TrackMatch{}, fmt.Errorf("track match %q: missing album id: %w", m.TrackName, ErrMalformed)
	}
	return m, nil
}

// Contributor is a named person attached to a credit.
type Contributor struct {
	Name string `json:"name"`
}

// Credit groups the contributors credited under one role label.
type Credit struct {
	Role         string        `json:"type"`
	Contributors []Contributor `json:"contributors"`
}

// TrackCredits holds the credits listed for one track of an album.
type TrackCredits struct {
	TrackTitle string
	Credits    []Credit
}

// AlbumCredits is the per-track credit list of one album as the catalog returns it.
type AlbumCredits []TrackCredits

// Track returns the credits of the track with the given title. Surrounding
// whitespace is ignored on both sides.
func (a AlbumCredits) Track(title string) (TrackCredits, bool) {
	title = strings.TrimSpace(title)
	for _, t := range a {
		if strings.TrimSpace(t.TrackTitle) == title {
			return t, true
		}
	}
	return TrackCredits{}, false
}

// AlbumInfo is the album metadata the resolver reads besides credits.
type AlbumInfo struct {
	ID        string
	Title     string
	Copyright string
}

// Credits is the resolved metadata for one track.
type Credits struct {
	Artist   string
	Title    string
	Album    string
	Composer string
	Lyricist string
	// Label is empty when the album credits were served from the cache.
	Label string
	Year  string

	UnclassifiedRoles []string
}

// NewCredits builds a Credits record and rejects records missing required fields.
func NewCredits(artist, title, album, composer, lyricist, label, year string) (Credits, error) {
	c := Credits{
		Artist:   artist,
		Title:    title,
		Album:    album,
		Composer: composer,
		Lyricist: lyricist,
		Label:    label,
		Year:     year,
	}
	for name, v := range map[string]string{
		"artist":   artist,
		"title":    title,
		"album":    album,
		"composer": composer,
		"lyricist": lyricist,
	} {
		if strings.TrimSpace(v) == "" {
			return Credits{}, fmt.Errorf("credits: missing %s: %w", name, ErrMalformed)
		}
	}
	return c, nil
}

// HasLabel reports whether label enrichment is available.
func (c Credits) HasLabel() bool {
	return strings.TrimSpace(c.Label) != ""
}
