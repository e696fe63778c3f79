package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"credit-sync/internal/model"
	"credit-sync/internal/sheet"
)

// allAuthors is the picker value that keeps every row.
const allAuthors = ""

var errNoTerminal = errors.New("interactive selection requires a terminal; use --filter instead")

func chooseAuthorInteractively(entries []model.SpreadsheetEntry) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errNoTerminal
	}

	options := authorOptions(entries)
	for {
		var author string
		err := huh.NewSelect[string]().
			Title("Select the author whose rows should be processed").
			Description("Press / to search. Rows are matched on the Autor_wpisu column.").
			Options(options...).
			Value(&author).
			Run()
		if err != nil {
			return "", fmt.Errorf("run interactive author selector: %w", err)
		}

		start, err := confirmAuthor(entries, author)
		if err != nil {
			return "", fmt.Errorf("review selected rows: %w", err)
		}
		if start {
			return author, nil
		}
	}
}

func authorOptions(entries []model.SpreadsheetEntry) []huh.Option[string] {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.SubmittedBy]++
	}

	options := []huh.Option[string]{
		huh.NewOption(fmt.Sprintf("All authors (%d rows)", len(entries)), allAuthors),
	}
	for _, author := range sheet.Authors(entries) {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d rows)", author, counts[author]), author))
	}
	return options
}

func confirmAuthor(entries []model.SpreadsheetEntry, author string) (bool, error) {
	selected := sheet.FilterByAuthor(entries, author)

	options := []huh.Option[string]{
		huh.NewOption("Back to selection", "back"),
	}
	if len(selected) > 0 {
		options = append([]huh.Option[string]{huh.NewOption("Start run", "start")}, options...)
	}

	var action string
	err := huh.NewSelect[string]().
		Title("Review selected rows").
		Description(buildEntriesPreview(selected, 16)).
		Options(options...).
		Value(&action).
		Run()
	if err != nil {
		return false, err
	}

	return action == "start", nil
}

func buildEntriesPreview(entries []model.SpreadsheetEntry, maxItems int) string {
	if len(entries) == 0 {
		return "No rows selected."
	}
	if maxItems < 1 {
		maxItems = 1
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Selected %d row(s):", len(entries)))

	shown := 0
	for _, e := range entries {
		shown++
		b.WriteString(fmt.Sprintf("\n%d. %s (row %d)", shown, e, e.Row))
		if shown >= maxItems {
			break
		}
	}

	if len(entries) > shown {
		b.WriteString(fmt.Sprintf("\n... and %d more", len(entries)-shown))
	}

	return b.String()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
