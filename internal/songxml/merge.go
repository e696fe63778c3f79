package songxml

import (
	"strings"

	"github.com/beevik/etree"

	"credit-sync/internal/model"
)

// Placeholder is the traffic system's marker for an unset value.
const Placeholder = "-"

// DefaultParticipantMaxLength bounds composer and lyricist names.
const DefaultParticipantMaxLength = 100

// Merger fills blank song fields from resolved credits.
type Merger struct {
	// ParticipantMaxLength truncates composer and lyricist values, in runes.
	ParticipantMaxLength int
}

// NewMerger returns a Merger with the default participant length bound.
func NewMerger() *Merger {
	return &Merger{ParticipantMaxLength: DefaultParticipantMaxLength}
}

// Merge writes credits into every blank album, label, composer and lyricist
// field of the record's songs and returns the record. Fields holding a value
// other than the placeholder are never changed. A record carrying an error
// element is left untouched and a *RemoteError is returned.
func (m *Merger) Merge(r *Record, c model.Credits) (*Record, error) {
	if remote := r.RemoteErr(); remote != nil {
		return r, remote
	}

	r.updates = nil
	composer := m.truncate(c.Composer)
	lyricist := m.truncate(c.Lyricist)

	for _, song := range r.Songs() {
		for _, album := range children(song, NamespaceSong, "Album") {
			r.fill(album, "name", c.Album, "album")
		}
		if c.HasLabel() {
			for _, additional := range children(song, NamespaceSLContent, "Additional") {
				r.fill(additional, "label", c.Label, "label")
			}
		}
		for _, participants := range participantBlocks(song) {
			r.fillParticipant(participants, "Composers", composer, "composer")
			r.fillParticipant(participants, "Lyricist", lyricist, "lyricist")
		}
	}
	return r, nil
}

func (m *Merger) truncate(v string) string {
	limit := m.ParticipantMaxLength
	if limit <= 0 {
		limit = DefaultParticipantMaxLength
	}
	runes := []rune(v)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return v
}

// participantBlocks returns the song's participants blocks, creating the
// song-codes and participants structure where it is missing.
func participantBlocks(song *etree.Element) []*etree.Element {
	songCodes := children(song, NamespaceSong, "SongCodes")
	if len(songCodes) == 0 {
		songCodes = append(songCodes, createChild(song, "SongCodes"))
	}

	var blocks []*etree.Element
	for _, sc := range songCodes {
		found := children(sc, NamespaceSong, "Participants")
		if len(found) == 0 {
			found = append(found, createChild(sc, "Participants"))
		}
		blocks = append(blocks, found...)
	}
	return blocks
}

func (r *Record) fillParticipant(participants *etree.Element, local, value, field string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	nodes := children(participants, NamespaceSong, local)
	if len(nodes) == 0 {
		node := createChild(participants, local)
		node.CreateAttr("name", value)
		r.updates = append(r.updates, field)
		return
	}
	for _, node := range nodes {
		r.fill(node, "name", value, field)
	}
}

func (r *Record) fill(el *etree.Element, attr, value, field string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if !IsBlank(el.SelectAttrValue(attr, "")) {
		return
	}
	el.CreateAttr(attr, value)
	r.updates = append(r.updates, field)
}

// IsBlank reports whether v counts as unset.
func IsBlank(v string) bool {
	return v == "" || v == Placeholder
}
