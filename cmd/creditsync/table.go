package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// field is one labeled line of command output.
type field struct {
	name  string
	value string
}

// renderFields draws fields as a two-column table. Blank values print as "-"
// so a missing label reads differently from a wrapped line.
func renderFields(fields []field) string {
	if len(fields) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			value = "-"
		}
		tw.AppendRow(table.Row{f.name, value})
	}
	return tw.Render()
}
