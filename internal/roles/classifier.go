// Package roles maps catalog contributor role labels onto the two
// attribution buckets the traffic system stores.
package roles

import "sort"

// Role is the attribution bucket of a contributor role label.
type Role int

const (
	Unclassified Role = iota
	Composer
	Lyricist
)

func (r Role) String() string {
	switch r {
	case Composer:
		return "composer"
	case Lyricist:
		return "lyricist"
	default:
		return "unclassified"
	}
}

var composerLabels = set(
	"Composer", "Producer", "Co-Producer", "Misc. Prod.",
	"Featured Artist", "Vocals", "Associated Performer",
	"Beat Boxing", "Background Vocal",
	"Drums", "Electric Guitar", "Lead Guitar", "Percussion", "Piano", "Guitar", "Synthesizer", "Bass",
	"Saxophone", "Upright Bass", "Viola da Gamba", "Keyboards", "Additional Synthesizer",
	"Bass guitar", "Backing Vocals", "Drum Programming", "Violin", "Viola", "Bass Trombone",
	"Trombone", "Trumpet", "Cello", "All Instruments", "Drum Programmer", "Programmer",
	"Instrumentation", "Drum Machine", "Organ", "Mellotron", "Flute", "Clavichord", "Clarinet",
	"Wurlitzer Electric Piano", "Saxophones", "Horn",
)

var lyricistLabels = set(
	"Lyricist", "Writer", "Lead Vocalist", "Co-Writer", "Lead Vocals", "Arranger", "Vocal",
	"Songwriter", "Vocalist", "Author",
)

// Classify returns the bucket of a role label. Matching is exact.
func Classify(label string) Role {
	if _, ok := composerLabels[label]; ok {
		return Composer
	}
	if _, ok := lyricistLabels[label]; ok {
		return Lyricist
	}
	return Unclassified
}

// ComposerLabels returns the composer-type labels, sorted.
func ComposerLabels() []string { return keys(composerLabels) }

// LyricistLabels returns the lyricist-type labels, sorted.
func LyricistLabels() []string { return keys(lyricistLabels) }

func set(labels ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		m[l] = struct{}{}
	}
	return m
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
