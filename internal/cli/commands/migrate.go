package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/spf13/cobra"
)

// MigrateOutput is the JSON output for the migrate command.
type MigrateOutput struct {
	DBPath  string `json:"db_path"`
	Action  string `json:"action"`
	Version int64  `json:"version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back the embedded schema migrations.

Without a subcommand, migrate applies every pending migration (same as
'migrate up'). Most commands migrate automatically; this command exists for
inspecting and rolling back the schema.`,
		Example: `  # Apply pending migrations
  freebies migrate

  # Roll back the most recent migration
  freebies migrate down

  # Show migration status
  freebies migrate status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, "up")
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, "up")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, "down")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, "status")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, "version")
		},
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, action string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if cfg.DBPath != state.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(cfg.DBPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	switch action {
	case "up":
		if err := store.Migrate(); err != nil {
			return err
		}
	case "down":
		if err := store.MigrateDown(); err != nil {
			return err
		}
	case "status":
		if r.EffectiveMode() != output.ModeJSON {
			r.Header(1, "Migrations")
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println("")
				r.Println("```")
				defer r.Println("```")
			}
			return store.MigrationStatus(r.Writer())
		}
	}

	version, err := store.MigrationVersion()
	if err != nil {
		return err
	}

	out := MigrateOutput{DBPath: cfg.DBPath, Action: action, Version: version}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Migrate"))
		r.Println("")
		r.Println(output.FormatKeyValue("Database", cfg.DBPath))
		r.Println(output.FormatKeyValue("Action", action))
		r.Println(output.FormatKeyValue("Version", fmt.Sprintf("%d", version)))
	default:
		if action == "version" {
			r.Printf("%d\n", version)
			return nil
		}
		r.StatusLine("migrate "+action, "success", fmt.Sprintf("schema version %d", version))
		r.Muted(cfg.DBPath)
	}
	return nil
}
