package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the freebies database",
		Long: `Query the freebies database directly.

Statements run read-only inside a transaction that is always rolled back,
so queries never change data. Useful tables and views: companies, devs, freebies and
v_freebies (freebies joined with dev and company names).

When invoked without arguments on a terminal, enters an interactive shell
whose dot-commands also call the relationship operations (.help lists them).`,
		Example: `  # Execute SQL directly
  freebies query "SELECT * FROM v_freebies"

  # List available tables
  freebies query tables

  # Show schema for a table
  freebies query schema freebies

  # Output as JSON
  freebies query "SELECT name FROM devs" --format json

  # Interactive shell
  freebies query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	addFormatFlag(cmd, &opts.Format)
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQueryViewsCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !term.IsTerminal(int(os.Stdin.Fd())): //nolint:gosec // fd fits in int
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, opts)
	}

	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format := cmdCtx.Renderer.TableFormat(opts.Format)
	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), cmdCtx.Engine.Store().DB(), sqlQuery, format)
}

// executeAndRender runs query on a connection held in query_only mode,
// inside a transaction that is always rolled back, and renders its rows.
// query_only also covers input that ends the transaction itself.
func executeAndRender(ctx context.Context, w io.Writer, db *sql.DB, query, format string) (err error) {
	query = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if query == "" {
		return fmt.Errorf("empty query")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return fmt.Errorf("failed to enter query-only mode: %w", err)
	}
	defer func() {
		// The connection goes back to a pool that may be writable.
		if _, resetErr := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF"); resetErr != nil && err == nil {
			err = fmt.Errorf("failed to leave query-only mode: %w", resetErr)
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

// withQueryDB opens the database read-only and hands its handle to fn.
func withQueryDB(cmd *cobra.Command, opts *QueryOptions, fn func(ctx context.Context, w io.Writer, db *sql.DB, format string) error) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format := cmdCtx.Renderer.TableFormat(opts.Format)
	return fn(cmd.Context(), cmd.OutOrStdout(), cmdCtx.Engine.Store().DB(), format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List all tables and views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withQueryDB(cmd, opts, func(ctx context.Context, w io.Writer, db *sql.DB, format string) error {
				return listTablesFromDB(ctx, w, db, format, false)
			})
		},
	}
}

// newQueryViewsCommand creates the views subcommand.
func newQueryViewsCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List views only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withQueryDB(cmd, opts, func(ctx context.Context, w io.Writer, db *sql.DB, format string) error {
				return listTablesFromDB(ctx, w, db, format, true)
			})
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueryDB(cmd, opts, func(ctx context.Context, w io.Writer, db *sql.DB, format string) error {
				return showSchemaFromDB(ctx, w, db, args[0], format)
			})
		},
	}
}
