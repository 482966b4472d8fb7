package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/leapstack-labs/freebies/internal/cli/config"
	"github.com/leapstack-labs/freebies/internal/testutil"
	"github.com/spf13/cobra"
)

// useSeededDB points commands at a fresh seeded database file.
func useSeededDB(t *testing.T) string {
	t.Helper()
	path := testutil.NewSeededDB(t)
	useDB(t, path)
	return path
}

// useDB points commands at path via the environment fallback.
func useDB(t *testing.T, path string) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Setenv(config.EnvPrefix+"DB_PATH", path)
}

// useOutput selects the renderer mode for commands run in this test.
func useOutput(t *testing.T, mode string) {
	t.Helper()
	t.Setenv(config.EnvPrefix+"OUTPUT", mode)
}

// execute runs cmd with args and returns everything it wrote.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}
