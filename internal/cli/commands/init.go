package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/freebies/internal/cli/config"
	"github.com/leapstack-labs/freebies/internal/engine"
	"github.com/leapstack-labs/freebies/internal/seed"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force   bool
	Example bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new freebies workspace",
		Long: `Initialize a new freebies workspace with a configuration file and an
empty, migrated database.

This creates:
  - freebies.yaml configuration file
  - .gitignore for the database and REPL history
  - freebies.db with the current schema

Use --example to also write seed.yaml, point seed_file at it and load it.`,
		Example: `  # Initialize in current directory
  freebies init

  # Initialize with sample data
  freebies init --example

  # Initialize in a new directory
  freebies init ./campaign --example

  # Force overwrite existing config
  freebies init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&opts.Example, "example", false, "Write and load a sample seed file")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "freebies.yaml")
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	templateName := "minimal"
	if opts.Example {
		templateName = "example"
	}
	if err := copyTemplate(templateName, dir, opts.Force); err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	files, err := listTemplateFiles(templateName)
	if err != nil {
		return err
	}

	dbPath := filepath.Join(dir, config.DefaultDBPath)
	eng, err := engine.New(engine.Config{DBPath: dbPath, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	version, err := eng.Store().MigrationVersion()
	if err != nil {
		return err
	}

	var loaded *engine.SeedResult
	if opts.Example {
		file, err := seed.LoadFile(filepath.Join(dir, "seed.yaml"))
		if err != nil {
			return err
		}
		loaded, err = eng.LoadSeeds(cmd.Context(), file, false)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
	}

	r.Header(2, "Files")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}
	r.Println("")
	r.Header(2, "Database")
	r.StatusLine(config.DefaultDBPath, "success", fmt.Sprintf("schema version %d", version))
	if loaded != nil {
		r.StatusLine("seed.yaml", "success",
			fmt.Sprintf("%d companies, %d devs, %d freebies", loaded.Companies, loaded.Devs, loaded.Freebies))
	}

	r.Println("")
	r.Success("freebies workspace initialized!")
	r.Println("")
	r.Println("Next steps:")
	if loaded == nil {
		r.Println("  freebies seed              Load the built-in sample data")
	}
	r.Println("  freebies company list      List companies")
	r.Println("  freebies report            Run every report")
	r.Println("  freebies query             Explore the data in the SQL REPL")

	return nil
}
