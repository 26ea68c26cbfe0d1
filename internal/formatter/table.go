// Package formatter renders aligned markdown tables for terminal reports.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// RenderTable renders header and rows as a markdown table whose columns are
// padded by display width, so wide and combining characters stay aligned.
// Short rows are padded with empty cells.
func RenderTable(header []string, rows [][]string) string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)
	table = append(table, rows...)

	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	// Max display width per column
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	lines := make([]string, 0, len(table)+1)
	lines = append(lines, renderRow(table[0], colWidths))
	lines = append(lines, renderSeparator(colWidths))

	for _, row := range table[1:] {
		lines = append(lines, renderRow(row, colWidths))
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}
