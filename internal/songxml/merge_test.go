package songxml

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"credit-sync/internal/model"
)

const header = `<GSelector xmlns="GSelectorSchemaGS" xmlns:gs_s="SongSchemaGS" xmlns:gs_pe="PEContentSchemaGS" xmlns:gs_sl="SLContentSchemaGS" xmlns:gs_err="OperationStatusSchemaGS">`

func doc(body string) string {
	return header + body + `</GSelector>`
}

func testCredits() model.Credits {
	return model.Credits{
		Artist:   "Daft Punk",
		Title:    "Get Lucky",
		Album:    "Random Access Memories",
		Composer: "Thomas Bangalter",
		Lyricist: "Pharrell Williams",
		Label:    "Columbia",
		Year:     "2013",
	}
}

func mustParse(t *testing.T, data string) *Record {
	t.Helper()
	r, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return r
}

func mustString(t *testing.T, r *Record) string {
	t.Helper()
	s, err := r.String()
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	return s
}

func attrs(r *Record, ns, path string) []string {
	var out []string
	for _, song := range r.Songs() {
		parts := strings.Split(path, "/")
		nodes := children(song, ns, parts[0])
		for _, p := range parts[1:] {
			var next []*etree.Element
			for _, n := range nodes {
				next = append(next, children(n, NamespaceSong, p)...)
			}
			nodes = next
		}
		for _, n := range nodes {
			attr := "name"
			if parts[0] == "Additional" {
				attr = "label"
			}
			out = append(out, n.SelectAttrValue(attr, "<absent>"))
		}
	}
	return out
}

func TestMergeFillsBlankFields(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song title="Get Lucky">
		<gs_s:Album name="-"/>
		<gs_s:Album/>
		<gs_sl:Additional label=""/>
		<gs_s:SongCodes><gs_s:Participants>
			<gs_s:Composers name="-"/>
			<gs_s:Lyricist name=""/>
		</gs_s:Participants></gs_s:SongCodes>
	</gs_s:Song>`))

	if _, err := NewMerger().Merge(r, testCredits()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	albums := attrs(r, NamespaceSong, "Album")
	if len(albums) != 2 || albums[0] != "Random Access Memories" || albums[1] != "Random Access Memories" {
		t.Fatalf("unexpected albums: %v", albums)
	}
	if labels := attrs(r, NamespaceSLContent, "Additional"); len(labels) != 1 || labels[0] != "Columbia" {
		t.Fatalf("unexpected labels: %v", labels)
	}
	if c := attrs(r, NamespaceSong, "SongCodes/Participants/Composers"); len(c) != 1 || c[0] != "Thomas Bangalter" {
		t.Fatalf("unexpected composers: %v", c)
	}
	if l := attrs(r, NamespaceSong, "SongCodes/Participants/Lyricist"); len(l) != 1 || l[0] != "Pharrell Williams" {
		t.Fatalf("unexpected lyricists: %v", l)
	}
	if len(r.Updates()) != 5 {
		t.Fatalf("expected 5 updates, got %v", r.Updates())
	}
}

func TestMergeKeepsExistingValues(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song>
		<gs_s:Album name="Homework"/>
		<gs_sl:Additional label="Virgin"/>
		<gs_s:SongCodes><gs_s:Participants>
			<gs_s:Composers name="Daft Punk"/>
			<gs_s:Lyricist name="Nile Rodgers"/>
		</gs_s:Participants></gs_s:SongCodes>
	</gs_s:Song>`))
	before := mustString(t, r)

	if _, err := NewMerger().Merge(r, testCredits()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if after := mustString(t, r); after != before {
		t.Fatalf("existing values changed:\nbefore: %s\nafter:  %s", before, after)
	}
	if len(r.Updates()) != 0 {
		t.Fatalf("expected no updates, got %v", r.Updates())
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song><gs_s:Album name="-"/><gs_sl:Additional/></gs_s:Song>`))
	m := NewMerger()

	if _, err := m.Merge(r, testCredits()); err != nil {
		t.Fatalf("first Merge failed: %v", err)
	}
	once := mustString(t, r)
	if _, err := m.Merge(r, testCredits()); err != nil {
		t.Fatalf("second Merge failed: %v", err)
	}
	if twice := mustString(t, r); twice != once {
		t.Fatalf("merge not idempotent:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestMergeCreatesParticipants(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song><gs_s:Album name="A"/></gs_s:Song>`))
	c := testCredits()
	c.Composer = strings.Repeat("x", 130)

	if _, err := NewMerger().Merge(r, c); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	composers := attrs(r, NamespaceSong, "SongCodes/Participants/Composers")
	if len(composers) != 1 || composers[0] != strings.Repeat("x", 100) {
		t.Fatalf("expected one truncated composer, got %v", composers)
	}
	lyricists := attrs(r, NamespaceSong, "SongCodes/Participants/Lyricist")
	if len(lyricists) != 1 || lyricists[0] != "Pharrell Williams" {
		t.Fatalf("expected one lyricist, got %v", lyricists)
	}

	out := mustString(t, r)
	if !strings.Contains(out, "<gs_s:SongCodes>") || !strings.Contains(out, "<gs_s:Participants>") {
		t.Fatalf("created nodes must use the song namespace prefix: %s", out)
	}

	reparsed := mustParse(t, out)
	if got := attrs(reparsed, NamespaceSong, "SongCodes/Participants/Lyricist"); len(got) != 1 {
		t.Fatalf("created nodes not found after reparse: %s", out)
	}
}

func TestMergeCreatesParticipantsInsideExistingSongCodes(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song><gs_s:SongCodes code="1"/></gs_s:Song>`))

	if _, err := NewMerger().Merge(r, testCredits()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if c := attrs(r, NamespaceSong, "SongCodes/Participants/Composers"); len(c) != 1 {
		t.Fatalf("expected a composer node, got %v", c)
	}
	if sc := attrs(r, NamespaceSong, "SongCodes"); len(sc) != 1 {
		t.Fatalf("expected existing song codes block to be reused, got %d", len(sc))
	}
}

func TestMergeTruncatesExistingBlankParticipants(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song><gs_s:SongCodes><gs_s:Participants>
		<gs_s:Composers name="-"/><gs_s:Lyricist name="-"/>
	</gs_s:Participants></gs_s:SongCodes></gs_s:Song>`))
	c := testCredits()
	c.Lyricist = strings.Repeat("ł", 120)

	if _, err := NewMerger().Merge(r, c); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	l := attrs(r, NamespaceSong, "SongCodes/Participants/Lyricist")
	if len(l) != 1 || l[0] != strings.Repeat("ł", 100) {
		t.Fatalf("expected lyricist truncated to 100 runes, got %q", l)
	}
}

func TestMergeSkipsLabelWithoutCredits(t *testing.T) {
	r := mustParse(t, doc(`<gs_s:Song><gs_sl:Additional label="-"/></gs_s:Song>`))
	c := testCredits()
	c.Label = ""

	if _, err := NewMerger().Merge(r, c); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if labels := attrs(r, NamespaceSLContent, "Additional"); labels[0] != "-" {
		t.Fatalf("label must stay untouched, got %v", labels)
	}
}

func TestMergeRemoteError(t *testing.T) {
	r := mustParse(t, doc(`<gs_err:SongError>Song not found</gs_err:SongError>`))
	before := mustString(t, r)

	_, err := NewMerger().Merge(r, testCredits())
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Message != "Song not found" {
		t.Fatalf("unexpected remote error: %v", err)
	}
	if after := mustString(t, r); after != before {
		t.Fatalf("document changed despite error element")
	}
}

func TestMergeMatchesNamespaceNotPrefix(t *testing.T) {
	r := mustParse(t, `<GSelector xmlns:s="SongSchemaGS" xmlns:x="OtherSchema"><s:Song><s:Album name=""/><x:Album name=""/></s:Song></GSelector>`)

	if _, err := NewMerger().Merge(r, testCredits()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	out := mustString(t, r)
	if !strings.Contains(out, `<s:Album name="Random Access Memories"/>`) || !strings.Contains(out, `<x:Album name=""/>`) {
		t.Fatalf("unexpected document: %s", out)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("<GSelector><unclosed></GSelector>")
	if !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	_, err = Parse("   ")
	if !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for empty document, got %v", err)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") || !IsBlank("-") || IsBlank(" x ") || IsBlank("--") {
		t.Fatalf("unexpected IsBlank results")
	}
}
