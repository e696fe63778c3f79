// Package sheet reads song submissions from an xlsx workbook.
package sheet

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"credit-sync/internal/model"
)

// Column headers of the submission sheet.
const (
	ColumnAuthor   = "Autor_wpisu"
	ColumnCategory = "Category"
	ColumnComposer = "Composer"
	ColumnLyricist = "Writer/Lyricist"
	ColumnArtist   = "Artist"
	ColumnTitle    = "Title"
	ColumnAlbum    = "Album"
	ColumnLabel    = "Label"
)

// ErrNoHeader is returned for a sheet without a header row.
var ErrNoHeader = errors.New("sheet has no header row")

// Read loads the entries of the workbook's active sheet. Row 1 holds the
// headers, matched by exact name in any order; a missing column leaves its
// field blank. Rows with no content are skipped.
func Read(path string) ([]model.SpreadsheetEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]model.SpreadsheetEntry, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if _, dup := columns[header]; header != "" && !dup {
			columns[header] = i
		}
	}

	var entries []model.SpreadsheetEntry
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		cell := func(column string) string {
			idx, ok := columns[column]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		entries = append(entries, model.SpreadsheetEntry{
			Row:          i + 2,
			SubmittedBy:  cell(ColumnAuthor),
			Category:     cell(ColumnCategory),
			ComposerHint: cell(ColumnComposer),
			LyricistHint: cell(ColumnLyricist),
			Artist:       cell(ColumnArtist),
			Title:        cell(ColumnTitle),
			Album:        cell(ColumnAlbum),
			Label:        cell(ColumnLabel),
		})
	}
	return entries, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// FilterByAuthor keeps the entries submitted by author. A blank author keeps
// every entry.
func FilterByAuthor(entries []model.SpreadsheetEntry, author string) []model.SpreadsheetEntry {
	author = strings.TrimSpace(author)
	if author == "" {
		return entries
	}
	var out []model.SpreadsheetEntry
	for _, e := range entries {
		if e.SubmittedBy == author {
			out = append(out, e)
		}
	}
	return out
}

// Authors returns the distinct non-blank submitters, sorted.
func Authors(entries []model.SpreadsheetEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.SubmittedBy == "" {
			continue
		}
		if _, ok := seen[e.SubmittedBy]; ok {
			continue
		}
		seen[e.SubmittedBy] = struct{}{}
		out = append(out, e.SubmittedBy)
	}
	sort.Strings(out)
	return out
}
