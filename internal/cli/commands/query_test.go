package commands

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/testutil"
	"github.com/leapstack-labs/freebies/pkg/core"
)

// seededDB returns the handle of a seeded in-memory store.
func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.NewSeededEngine(t).Store().DB()
}

func TestQueryCommand_Tables(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := listTablesFromDB(context.Background(), buf, db, "table", false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "companies")
	assert.Contains(t, out, "devs")
	assert.Contains(t, out, "freebies")
	assert.Contains(t, out, "v_freebies")
	assert.NotContains(t, out, "goose_db_version")
}

func TestQueryCommand_ViewsOnly(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := listTablesFromDB(context.Background(), buf, db, "csv", true)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "v_freebies,view", lines[1])
}

func TestQueryCommand_Schema(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := showSchemaFromDB(context.Background(), buf, db, "freebies", "table")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Table: freebies")
	assert.Contains(t, out, "item_name")
	assert.Contains(t, out, "(primary key)")
	assert.Contains(t, out, "Indexes:")
	assert.Contains(t, out, "idx_freebies_dev_id")
	assert.Contains(t, out, "idx_freebies_company_id")
}

func TestQueryCommand_ViewSchema(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := showSchemaFromDB(context.Background(), buf, db, "v_freebies", "table")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "View: v_freebies")
	assert.Contains(t, out, "company_name")
	assert.NotContains(t, out, "Indexes:")
}

func TestQueryCommand_SchemaJSON(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := showSchemaFromDB(context.Background(), buf, db, "companies", output.FormatJSON)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"name": "companies"`)
	assert.Contains(t, out, `"type": "table"`)
	assert.Contains(t, out, `"founding_year"`)
}

func TestQueryCommand_SchemaNotFound(t *testing.T) {
	db := seededDB(t)

	err := showSchemaFromDB(context.Background(), new(bytes.Buffer), db, "nonexistent_table", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExecuteAndRender(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	const q = "SELECT item_name, dev_name FROM v_freebies WHERE company_name = 'UDA' ORDER BY id;"

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"ITEM_NAME", "CDF funds", "Wheelbarrow", "(2 rows)"}},
		{"csv", []string{"item_name,dev_name\nCDF funds,Raila\nWheelbarrow,Ruto"}},
		{"md", []string{"| item_name | dev_name |", "| --- | --- |", "| CDF funds | Raila |"}},
		{"json", []string{`"item_name": "Wheelbarrow"`, `"dev_name": "Ruto"`}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, executeAndRender(ctx, buf, db, q, tt.format))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestExecuteAndRender_EmptyResults(t *testing.T) {
	db := seededDB(t)
	buf := new(bytes.Buffer)

	err := executeAndRender(context.Background(), buf, db, "SELECT * FROM devs WHERE 1=0", "table")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestExecuteAndRender_Errors(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	err := executeAndRender(ctx, new(bytes.Buffer), db, " ; ", "table")
	require.EqualError(t, err, "empty query")

	err = executeAndRender(ctx, new(bytes.Buffer), db, "SELECT * FROM nope", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestExecuteAndRender_NeverWrites(t *testing.T) {
	eng := testutil.NewSeededEngine(t)
	db := eng.Store().DB()
	ctx := context.Background()

	for _, q := range []string{
		"DELETE FROM freebies RETURNING id",
		"DELETE FROM freebies; COMMIT; SELECT 1",
		"COMMIT; DELETE FROM freebies",
		"INSERT INTO devs (name) VALUES ('Kalonzo') RETURNING id",
	} {
		t.Run(q, func(t *testing.T) {
			_ = executeAndRender(ctx, new(bytes.Buffer), db, q, "csv")

			var freebies, devs int
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM freebies").Scan(&freebies))
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM devs").Scan(&devs))
			assert.Equal(t, 5, freebies)
			assert.Equal(t, 3, devs)
		})
	}

	err := executeAndRender(ctx, new(bytes.Buffer), db, "DELETE FROM freebies RETURNING id", "csv")
	require.Error(t, err)

	// the shared connection is writable again for dot-commands
	require.NoError(t, eng.Store().CreateDev(ctx, &core.Dev{Name: "Kalonzo"}))
}

func TestQueryCommand_Args(t *testing.T) {
	useSeededDB(t)

	out, err := execute(t, NewQueryCommand(), "SELECT name FROM companies ORDER BY founding_year", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "name\nODM\nUDA\nDCP")
}

func TestQueryCommand_InputFile(t *testing.T) {
	useSeededDB(t)
	path := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT SUM(value) AS total FROM freebies;\n"), 0o600))

	out, err := execute(t, NewQueryCommand(), "--input", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "total\n9800000")
}

func TestQueryCommand_Subcommands(t *testing.T) {
	useSeededDB(t)

	out, err := execute(t, NewQueryCommand(), "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "| freebies | table |")

	out, err = execute(t, NewQueryCommand(), "schema", "devs")
	require.NoError(t, err)
	assert.Contains(t, out, "Table: devs")
}

func TestQueryCommand_NoDB(t *testing.T) {
	useDB(t, filepath.Join(t.TempDir(), "nonexistent", "freebies.db"))

	_, err := execute(t, NewQueryCommand(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, "NULL"},
		{"hello", "hello"},
		{[]byte("bytes"), "bytes"},
		{42, "42"},
		{int64(2_500_000), "2500000"},
		{3.14, "3.14"},
		{true, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, output.FormatValue(tt.input))
	}
}
