package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tradelens/tradelens/internal/export"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(line string) {
	fmt.Println(line)
}

// output renders a sheet in the selected format. JSON output is v when given,
// else the sheet rows keyed by header. Quiet prints the row count.
func output(s export.Sheet, v any) {
	switch flagFmt {
	case "quiet":
		formatQuiet(fmt.Sprint(len(s.Rows)))
	case "json":
		if v == nil {
			v = sheetRecords(s)
		}
		formatJSON(v)
	default:
		formatTable(s.Header, s.Rows)
	}
}

func sheetRecords(s export.Sheet) []map[string]string {
	out := make([]map[string]string, len(s.Rows))
	for i, row := range s.Rows {
		rec := make(map[string]string, len(s.Header))
		for j, h := range s.Header {
			if j < len(row) {
				rec[h] = row[j]
			}
		}
		out[i] = rec
	}
	return out
}
