package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&out, &errOut, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&out, &errOut, true, ModeJSON).EffectiveMode())
	assert.Equal(t, ModeText, NewRendererWithTTY(&out, &errOut, false, ModeText).EffectiveMode())
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_NoANSIWhenPiped(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Header(1, "Companies")
	r.StatusLine("seed", "success", "3 companies")
	r.Muted("quiet")
	r.Warning("careful")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.NotContains(t, errOut.String(), "\x1b[")
	assert.Contains(t, out.String(), "Companies")
	assert.Contains(t, out.String(), "seed")
	assert.Contains(t, out.String(), "3 companies")
	assert.Contains(t, errOut.String(), "warning: careful")
}

func TestRenderer_MarkdownHeaderAndStatus(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeMarkdown)

	r.Header(2, "Seed")
	r.StatusLine("companies", "success", "3 rows")

	got := out.String()
	assert.Contains(t, got, "## Seed\n")
	assert.Contains(t, got, "- **companies**: success (3 rows)")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &out, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"companies": 3}))
	assert.JSONEq(t, `{"companies": 3}`, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "###### Deep", FormatHeader(9, "Deep"))
	assert.Equal(t, "- **Path**: freebies.db", FormatKeyValue("Path", "freebies.db"))
	assert.Equal(t, "```sql\nSELECT 1\n```", FormatCodeBlock("sql", "SELECT 1\n"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "KSh 0", Money(0))
	assert.Equal(t, "KSh 500", Money(500))
	assert.Equal(t, "KSh 2,500,000", Money(2_500_000))
	assert.Equal(t, "KSh 9,800,000", Money(9_800_000))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Dev Totals", Title("dev_totals"))
	assert.Equal(t, "Company Summary", Title("company summary"))
	assert.Equal(t, "High Value", Title("high-value"))
}

func TestTable_Render(t *testing.T) {
	tbl := NewTable("item_name", "value")
	tbl.Append("Laptop", int64(2500000))
	tbl.Append("Mug, large", nil)
	tbl.Footer = "(2 rows)"

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tbl.Render(&buf, FormatTable))
		got := buf.String()
		assert.Contains(t, got, "ITEM_NAME")
		assert.Contains(t, got, "Laptop")
		assert.Contains(t, got, "NULL")
		assert.True(t, strings.HasSuffix(got, "(2 rows)\n"))
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tbl.Render(&buf, FormatCSV))
		got := buf.String()
		assert.Contains(t, got, "item_name,value")
		assert.Contains(t, got, "Laptop,2500000")
		assert.Contains(t, got, `"Mug, large"`)
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tbl.Render(&buf, FormatMarkdown))
		got := buf.String()
		assert.Contains(t, got, "| item_name |")
		assert.Contains(t, got, "Laptop")
		assert.NotContains(t, got, "(2 rows)")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tbl.Render(&buf, FormatJSON))
		assert.JSONEq(t, `[{"item_name":"Laptop","value":2500000},{"item_name":"Mug, large","value":null}]`, buf.String())
	})

	t.Run("unknown", func(t *testing.T) {
		var buf bytes.Buffer
		err := tbl.Render(&buf, "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}

func TestTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable("name").Render(&buf, FormatTable))
	assert.Equal(t, "(0 rows)\n", buf.String())

	buf.Reset()
	require.NoError(t, NewTable("name").Render(&buf, FormatJSON))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestRenderer_TableFormat(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, FormatTable, NewRendererWithTTY(&out, &out, true, ModeAuto).TableFormat(""))
	assert.Equal(t, FormatMarkdown, NewRendererWithTTY(&out, &out, false, ModeAuto).TableFormat(""))
	assert.Equal(t, FormatJSON, NewRendererWithTTY(&out, &out, false, ModeJSON).TableFormat(""))
	assert.Equal(t, FormatCSV, NewRendererWithTTY(&out, &out, false, ModeJSON).TableFormat(FormatCSV))
}
