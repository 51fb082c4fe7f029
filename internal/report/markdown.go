// Package report renders batch summaries as markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"showfmt/internal/batch"
	"showfmt/pkg/utils"
)

// maxDetailWidth bounds the Detail column so long error chains stay readable.
const maxDetailWidth = 120

var header = []string{"File", "Status", "Show ID", "Detail"}

// Markdown renders s as a markdown document with one table row per file, aligned by
// display width so venue names in wide scripts line up.
func Markdown(s *batch.Summary) string {
	var sb strings.Builder

	sb.WriteString("# Normalization report\n\n")
	fmt.Fprintf(&sb, "- Input: `%s`\n", s.InputDir)
	fmt.Fprintf(&sb, "- Output: `%s`\n", s.OutputDir)
	fmt.Fprintf(&sb, "- Succeeded: %d\n", s.Succeeded())
	fmt.Fprintf(&sb, "- Failed: %d\n", s.Failed())

	if n := s.Unchanged(); n > 0 {
		fmt.Fprintf(&sb, "- Unchanged: %d\n", n)
	}

	if len(s.Results) == 0 {
		sb.WriteString("\nNo input files found.\n")
		return sb.String()
	}

	rows := make([][]string, 0, len(s.Results))
	for _, r := range s.Results {
		rows = append(rows, []string{r.Rel, string(r.Status), r.ShowID, detail(r)})
	}

	sb.WriteString("\n")

	for _, line := range Table(header, rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

func detail(r batch.Result) string {
	if r.Err == nil {
		return ""
	}

	msg := fmt.Sprintf("%s: %s", r.Kind(), utils.CollapseWhitespace(r.Err.Error()))

	return runewidth.Truncate(msg, maxDetailWidth, "...")
}

// Table renders a header and rows as an aligned markdown table. Cells are trimmed and
// pipes escaped; columns are padded to the widest cell, with a minimum of three.
func Table(header []string, rows [][]string) []string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, cleanRow(header))

	for _, row := range rows {
		table = append(table, cleanRow(row))
	}

	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)
	result = append(result, renderRow(table[0], colWidths, false))
	result = append(result, renderRow(nil, colWidths, true))

	for _, row := range table[1:] {
		result = append(result, renderRow(row, colWidths, false))
	}

	return result
}

func cleanRow(row []string) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(cell), "|", `\|`)
	}

	return cells
}

func renderRow(row []string, colWidths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			// Pad with spaces based on display width
			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
