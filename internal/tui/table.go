package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table provides styled table rendering for fixed-column listings such as
// the TIFF tag dump.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	cells := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		cells = append(cells, pad(col.Name, col))
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(strings.TrimRight(strings.Join(cells, "  "), " ")))
}

// WriteRow writes a data row to the table. Values beyond the column count are
// ignored; missing values render empty.
func (t *Table) WriteRow(values ...string) {
	cells := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if col.Width > 1 && runewidth.StringWidth(value) > col.Width {
			value = runewidth.Truncate(value, col.Width, "…")
		}
		cells = append(cells, pad(value, col))
	}
	_, _ = fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, "  "), " "))
}

// pad aligns a value inside its column width using display width, so CJK and
// symbol values line up.
func pad(value string, col TableColumn) string {
	if col.Align == AlignRight {
		return runewidth.FillLeft(value, col.Width)
	}
	return runewidth.FillRight(value, col.Width)
}
