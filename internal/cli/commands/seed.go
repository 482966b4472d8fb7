package commands

import (
	"fmt"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/seed"
	"github.com/spf13/cobra"
)

// SeedOptions holds options for the seed command.
type SeedOptions struct {
	File string
	Keep bool
}

// SeedOutput is the JSON output for the seed command.
type SeedOutput struct {
	Source    string `json:"source"`
	DBPath    string `json:"db_path"`
	Kept      bool   `json:"kept"`
	Companies int    `json:"companies"`
	Devs      int    `json:"devs"`
	Freebies  int    `json:"freebies"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	opts := &SeedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample companies, devs and freebies",
		Long: `Clear the database and load a seed file in a single transaction.

Without --file, the seed_file from configuration is used, and without that the
built-in sample dataset. Freebies reference companies and devs by name.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Load the built-in sample data
  freebies seed

  # Load a custom file
  freebies seed --file ./data/seed.yaml

  # Add to existing rows instead of clearing them
  freebies seed --file extra.yaml --keep`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Seed file to load (YAML)")
	cmd.Flags().BoolVar(&opts.Keep, "keep", false, "Keep existing rows instead of clearing the database")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	source := opts.File
	if source == "" {
		source = cmdCtx.Cfg.SeedFile
	}

	var file *seed.File
	if source == "" {
		source = "built-in sample data"
		file, err = seed.Default()
	} else {
		file, err = seed.LoadFile(source)
	}
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("seeding", "source", source, "keep", opts.Keep)

	result, err := cmdCtx.Engine.LoadSeeds(cmd.Context(), file, opts.Keep)
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}

	return renderSeedResult(r, SeedOutput{
		Source:    source,
		DBPath:    cmdCtx.Engine.DBPath(),
		Kept:      opts.Keep,
		Companies: result.Companies,
		Devs:      result.Devs,
		Freebies:  result.Freebies,
	})
}

func renderSeedResult(r *output.Renderer, out SeedOutput) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Seed"))
		r.Println("")
		r.Println(output.FormatKeyValue("Source", out.Source))
		r.Println(output.FormatKeyValue("Database", out.DBPath))
		r.Println("")
		r.Println(output.FormatHeader(2, "Loaded"))
		r.Println("")
		r.StatusLine("companies", "success", fmt.Sprintf("%d rows", out.Companies))
		r.StatusLine("devs", "success", fmt.Sprintf("%d rows", out.Devs))
		r.StatusLine("freebies", "success", fmt.Sprintf("%d rows", out.Freebies))
	default:
		r.Header(1, "Seed")
		r.Muted(out.Source)
		r.Println("")
		r.StatusLine("companies", "success", fmt.Sprintf("%d rows", out.Companies))
		r.StatusLine("devs", "success", fmt.Sprintf("%d rows", out.Devs))
		r.StatusLine("freebies", "success", fmt.Sprintf("%d rows", out.Freebies))
	}
	return nil
}
