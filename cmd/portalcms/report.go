package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"portalcms/internal/seed"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// renderReport prints a seed report as a table followed by the skipped
// records.
func renderReport(w io.Writer, r *seed.Report) {
	if r.ClearedPressReleases > 0 || r.ClearedCategories > 0 {
		warnColor.Fprintf(w, "Cleared %d press releases and %d categories\n\n",
			r.ClearedPressReleases, r.ClearedCategories)
	}

	rows := r.Rows()
	if len(rows) == 0 {
		dimColor.Fprintln(w, "Nothing to seed.")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header([]string{"Kind", "Created", "Updated", "Skipped"})
	if err := table.Bulk(rows); err != nil {
		fmt.Fprintf(w, "render report: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(w, "render report: %v\n", err)
		return
	}

	fmt.Fprintln(w)
	okColor.Fprintf(w, "Images attached: %s\n", strconv.Itoa(r.Images))

	if len(r.Problems) > 0 {
		warnColor.Fprintf(w, "\nSkipped %d records:\n", len(r.Problems))
		for _, p := range r.Problems {
			fmt.Fprintf(w, "  %s %s: %s\n", p.Kind, p.Key, dimColor.Sprint(p.Reason))
		}
	}
}
