package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// formatTable lays out headers and rows in aligned columns measured in
// terminal cells. Columns listed in rightAlign are padded on the left.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	all := rows
	if len(headers) > 0 {
		all = append([][]string{headers}, rows...)
	}
	widths := columnWidths(all)
	if len(widths) == 0 {
		return nil
	}

	lines := make([]string, len(all))
	cells := make([]string, len(widths))
	for i, row := range all {
		for col, w := range widths {
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			if rightAlign[col] {
				cells[col] = runewidth.FillLeft(cell, w)
			} else {
				cells[col] = runewidth.FillRight(cell, w)
			}
		}
		lines[i] = strings.TrimRight(strings.Join(cells, columnGap), " ")
	}
	return lines
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, cell := range row {
			if col == len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], runewidth.StringWidth(cell))
		}
	}
	return widths
}
