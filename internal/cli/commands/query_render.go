package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/freebies/internal/cli/output"
)

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	tbl := output.NewTable(cols...)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		// Convert []byte to string for readability
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		tbl.Append(values...)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	tbl.Footer = rowsFooter(len(tbl.Rows))
	return tbl.Render(w, format)
}

func listTablesFromDB(ctx context.Context, w io.Writer, db *sql.DB, format string, viewsOnly bool) error {
	query := `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE 'goose_%'
	`
	if viewsOnly {
		query += ` AND type = 'view'`
	}
	query += ` ORDER BY type, name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

func showSchemaFromDB(ctx context.Context, w io.Writer, db *sql.DB, tableName, format string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, tableName)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var columns []columnInfo

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return err
		}

		nullable := "YES"
		if notNull == 1 {
			nullable = "NO"
		}

		defaultVal := ""
		if dflt.Valid {
			defaultVal = dflt.String
		}
		if pk == 1 {
			if defaultVal != "" {
				defaultVal += " "
			}
			defaultVal += "(primary key)"
		}

		columns = append(columns, columnInfo{
			Name:     name,
			Type:     colType,
			Nullable: nullable,
			Default:  defaultVal,
			PK:       pk == 1,
		})
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if len(columns) == 0 {
		return fmt.Errorf("table or view '%s' not found", tableName)
	}

	var objType string
	err = db.QueryRowContext(ctx, `
		SELECT type FROM sqlite_master
		WHERE name = ? AND type IN ('table', 'view')
	`, tableName).Scan(&objType)
	if err != nil {
		objType = "table"
	}

	if format == output.FormatJSON {
		return renderSchemaJSON(w, tableName, objType, columns)
	}

	title := "Table"
	if objType == "view" {
		title = "View"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", title, tableName)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 60))

	tbl := output.NewTable("Column", "Type", "Nullable", "Default")
	for _, col := range columns {
		tbl.Append(col.Name, col.Type, col.Nullable, col.Default)
	}
	if err := tbl.Render(w, format); err != nil {
		return err
	}

	// Show indexes for tables
	if objType == "table" {
		indexes, err := tableIndexes(ctx, db, tableName)
		if err == nil && len(indexes) > 0 {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "Indexes:")
			for _, idx := range indexes {
				_, _ = fmt.Fprintf(w, "  %s\n", idx)
			}
		}
	}

	return nil
}

func tableIndexes(ctx context.Context, db *sql.DB, tableName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND tbl_name = ?
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		indexes = append(indexes, name)
	}
	return indexes, rows.Err()
}

// columnInfo represents schema column information.
type columnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
	Default  string `json:"default"`
	PK       bool   `json:"pk"`
}

type schemaOutput struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Columns []columnInfo `json:"columns"`
}

func renderSchemaJSON(w io.Writer, tableName, objType string, columns []columnInfo) error {
	schema := schemaOutput{
		Name:    tableName,
		Type:    objType,
		Columns: columns,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(schema)
}
