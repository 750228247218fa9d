package query

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// formatRows renders a result set as a markdown table. NULLs render as
// "NULL", pipe characters are escaped so they cannot break the table, and at
// most maxRows data rows are emitted with a truncation marker after that.
func formatRows(rows pgx.Rows, maxRows int) (string, int, error) {
	descs := rows.FieldDescriptions()
	columns := make([]string, len(descs))
	for i, d := range descs {
		columns[i] = d.Name
	}

	var lines []string
	rowCount := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return "", rowCount, err
		}
		if rowCount == 0 {
			lines = append(lines, markdownRow(columns), markdownSeparator(len(columns)))
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		lines = append(lines, markdownRow(cells))
		rowCount++

		if rowCount >= maxRows {
			if rows.Next() {
				lines = append(lines, fmt.Sprintf("| ... | (showing first %d rows) | ... |", maxRows))
			}
			break
		}
	}
	if err := rows.Err(); err != nil {
		return "", rowCount, err
	}

	if rowCount == 0 {
		lines = append(lines, "| No Data | Query returned no results |", "| --- | --- |")
	}
	return strings.Join(lines, "\n"), rowCount, nil
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return strings.ReplaceAll(fmt.Sprint(v), "|", "\\|")
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func markdownSeparator(n int) string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}
	return markdownRow(cells)
}
