package sheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"credit-sync/internal/model"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "songs.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReadMapsHeadersByName(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Title", "Artist", "Autor_wpisu", "Label", "Writer/Lyricist", "Composer", "Album", "Category"},
		{"Get Lucky", "Daft Punk", "anna", "Columbia", "Pharrell", "Bangalter", "RAM", "A"},
		{"  "},
		{"One More Time", "Daft Punk", "piotr"},
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	want := model.SpreadsheetEntry{
		Row: 2, SubmittedBy: "anna", Category: "A", ComposerHint: "Bangalter", LyricistHint: "Pharrell",
		Artist: "Daft Punk", Title: "Get Lucky", Album: "RAM", Label: "Columbia",
	}
	if entries[0] != want {
		t.Fatalf("unexpected first entry:\n got %+v\nwant %+v", entries[0], want)
	}
	if entries[1].Row != 4 || entries[1].Title != "One More Time" || entries[1].Label != "" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestReadToleratesMissingColumns(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Artist", "Title"},
		{"Daft Punk", "Get Lucky"},
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 1 || entries[0].SubmittedBy != "" || entries[0].Album != "" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestReadKeepsRowsWithoutArtistAndTitle(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Autor_wpisu", "Artist", "Title"},
		{"anna", "", ""},
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 1 || entries[0].SubmittedBy != "anna" {
		t.Fatalf("expected the row to be kept: %+v", entries)
	}
}

func TestReadEmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)
	if _, err := Read(path); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}

func TestFilterByAuthor(t *testing.T) {
	entries := []model.SpreadsheetEntry{
		{Row: 2, SubmittedBy: "anna"},
		{Row: 3, SubmittedBy: "piotr"},
		{Row: 4, SubmittedBy: "anna"},
	}

	got := FilterByAuthor(entries, "anna")
	if len(got) != 2 || got[0].Row != 2 || got[1].Row != 4 {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if len(FilterByAuthor(entries, " ")) != 3 {
		t.Fatal("blank filter must keep every entry")
	}
	if len(FilterByAuthor(entries, "Anna")) != 0 {
		t.Fatal("filter must match exactly")
	}
}

func TestAuthors(t *testing.T) {
	got := Authors([]model.SpreadsheetEntry{
		{SubmittedBy: "piotr"}, {SubmittedBy: ""}, {SubmittedBy: "anna"}, {SubmittedBy: "piotr"},
	})
	if len(got) != 2 || got[0] != "anna" || got[1] != "piotr" {
		t.Fatalf("unexpected authors: %v", got)
	}
}
