package commands

import (
	"runtime"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/spf13/cobra"
)

// VersionOutput is the JSON output for the version command.
type VersionOutput struct {
	Version       string `json:"version"`
	GoVersion     string `json:"go_version"`
	SchemaVersion int64  `json:"schema_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the freebies version, the Go runtime it was built with and the
database schema version it migrates to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := state.SchemaVersion()
			if err != nil {
				return err
			}
			return renderVersion(NewCommandContextWithoutEngine(cmd).Renderer, VersionOutput{
				Version:       version,
				GoVersion:     runtime.Version(),
				SchemaVersion: schema,
			})
		},
	}
}

func renderVersion(r *output.Renderer, v VersionOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(v)
	}
	r.Printf("freebies v%s\n", v.Version)
	r.Printf("Company/dev freebie tracker built with %s and SQLite (schema %d)\n", v.GoVersion, v.SchemaVersion)
	return nil
}
