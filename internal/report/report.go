// Package report renders the outcome of a run as a console table or a CSV file.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"credit-sync/internal/pipeline"
)

var headers = table.Row{"Row", "Artist", "Title", "State", "Kind", "Attempts", "Composer", "Lyricist", "Album", "Label", "Error"}

// summaryOrder lists final states in the order the summary prints them.
var summaryOrder = []pipeline.State{
	pipeline.StateDone,
	pipeline.StateNoMatch,
	pipeline.StateSkipped,
	pipeline.StateFailed,
}

// Table renders one line per outcome.
func Table(outcomes []pipeline.Outcome) string {
	tw := newWriter(outcomes)
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 11, WidthMax: 60},
	})
	return tw.Render()
}

// CSV renders the outcomes as comma separated values with a header line.
func CSV(outcomes []pipeline.Outcome) string {
	return newWriter(outcomes).RenderCSV()
}

// Summary renders the number of entries per final state.
func Summary(outcomes []pipeline.Outcome) string {
	counts := make(map[pipeline.State]int, len(summaryOrder))
	for _, o := range outcomes {
		counts[o.State]++
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"State", "Count"})
	for _, state := range summaryOrder {
		tw.AppendRow(table.Row{string(state), counts[state]})
	}
	tw.AppendFooter(table.Row{"Total", len(outcomes)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// WriteCSV writes the CSV report to path atomically.
func WriteCSV(path string, outcomes []pipeline.Outcome) error {
	b := []byte(CSV(outcomes) + "\n")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report parent dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temporary report file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temporary report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary report file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("atomic replace report file: %w", err)
	}
	return nil
}

func newWriter(outcomes []pipeline.Outcome) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(headers)
	for _, o := range outcomes {
		tw.AppendRow(row(o))
	}
	return tw
}

func row(o pipeline.Outcome) table.Row {
	errText := ""
	if o.Err != nil {
		errText = o.Err.Error()
	}
	return table.Row{
		strconv.Itoa(o.Entry.Row),
		o.Entry.Artist,
		o.Entry.Title,
		string(o.State),
		string(o.Kind()),
		strconv.Itoa(o.Attempts),
		o.Credits.Composer,
		o.Credits.Lyricist,
		o.Credits.Album,
		o.Credits.Label,
		errText,
	}
}
