package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table formats accepted by Table.Render.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// TableFormats lists the accepted --format values.
var TableFormats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

// Table is a rectangular result set with a header row.
type Table struct {
	Columns []string
	Rows    [][]any
	// Footer is printed after table output when set, e.g. "(3 rows)".
	Footer string
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. Missing cells render as NULL.
func (t *Table) Append(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// TableFormat maps the renderer's effective mode onto a table format.
// An explicit format wins.
func (r *Renderer) TableFormat(explicit string) string {
	if explicit != "" {
		return explicit
	}
	switch r.EffectiveMode() {
	case ModeJSON:
		return FormatJSON
	case ModeMarkdown:
		return FormatMarkdown
	default:
		return FormatTable
	}
}

// Table renders t in the format resolved by TableFormat.
func (r *Renderer) Table(t *Table, format string) error {
	return t.Render(r.out, r.TableFormat(format))
}

// Render writes t to w in the given format.
func (t *Table) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return t.renderJSON(w)
	case FormatCSV:
		t.writer(w).RenderCSV()
		return nil
	case FormatMarkdown, "markdown":
		if len(t.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		t.writer(w).RenderMarkdown()
		return nil
	case FormatTable, "":
		if len(t.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		tw := t.writer(w)
		tw.SetStyle(table.StyleLight)
		tw.Render()
		if t.Footer != "" {
			_, _ = fmt.Fprintln(w, t.Footer)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(TableFormats, ", "))
	}
}

func (t *Table) writer(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)

	for _, cells := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i := range t.Columns {
			var v any
			if i < len(cells) {
				v = cells[i]
			}
			row[i] = FormatValue(v)
		}
		tw.AppendRow(row)
	}
	return tw
}

func (t *Table) renderJSON(w io.Writer) error {
	records := make([]map[string]any, 0, len(t.Rows))
	for _, cells := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			var v any
			if i < len(cells) {
				v = cells[i]
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FormatValue renders a single cell for text formats.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
