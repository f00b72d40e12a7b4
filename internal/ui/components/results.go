package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

const (
	maxColumnWidth = 40
	columnGap      = 2
)

// RenderResults renders a relational result set as an aligned table.
// Column widths fit the content up to a cap; cells wider than their column
// are truncated with an ellipsis.
func RenderResults(columns []string, rows []map[string]any, width int) string {
	if len(columns) == 0 {
		return styles.StatusBarStyle.Render("(no rows)")
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			text := formatCell(row[col])
			cells[r][i] = text
			if w := runewidth.StringWidth(text); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}

	var b strings.Builder
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = pad(col, widths[i])
	}
	b.WriteString(styles.TableHeaderStyle.Render(strings.Join(header, strings.Repeat(" ", columnGap))))
	b.WriteByte('\n')

	for _, row := range cells {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = pad(cell, widths[i])
		}
		b.WriteString(strings.Join(line, strings.Repeat(" ", columnGap)))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderReply renders an opaque key-value backend reply, one element per
// line for array replies.
func RenderReply(reply any) string {
	switch v := reply.(type) {
	case []any:
		if len(v) == 0 {
			return "(empty list)"
		}
		lines := make([]string, len(v))
		for i, item := range v {
			lines[i] = fmt.Sprintf("%d) %s", i+1, RenderReply(item))
		}
		return strings.Join(lines, "\n")
	case nil:
		return "(nil)"
	default:
		return fmt.Sprint(v)
	}
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprint(value)
}

func pad(text string, width int) string {
	if runewidth.StringWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-runewidth.StringWidth(text))
}
