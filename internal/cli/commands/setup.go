package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/freebies/internal/cli/config"
	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/internal/engine"
	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a writable engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	return newCommandContext(cmd, false)
}

// NewReadOnlyCommandContext is NewCommandContext for commands that only read.
// The database must already exist.
func NewReadOnlyCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	return newCommandContext(cmd, true)
}

func newCommandContext(cmd *cobra.Command, readOnly bool) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger, readOnly)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		_ = eng.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need database access.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	threshold := core.DefaultHighValueThreshold
	if v, err := strconv.ParseInt(os.Getenv(config.EnvPrefix+"HIGH_VALUE_THRESHOLD"), 10, 64); err == nil {
		threshold = v
	}

	return &config.Config{
		DBPath:             getEnvOrDefault(config.EnvPrefix+"DB_PATH", config.DefaultDBPath),
		SeedFile:           os.Getenv(config.EnvPrefix + "SEED_FILE"),
		Verbose:            os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		OutputFormat:       getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
		HistoryFile:        getEnvOrDefault(config.EnvPrefix+"HISTORY_FILE", config.DefaultHistoryFile),
		HighValueThreshold: threshold,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger, readOnly bool) (*engine.Engine, error) {
	// An in-memory database has nothing to read; open it writable.
	if cfg.DBPath == state.MemoryPath {
		readOnly = false
	}

	eng, err := engine.New(engine.Config{
		DBPath:   cfg.DBPath,
		ReadOnly: readOnly,
		Logger:   logger,
	})
	if err != nil && readOnly {
		if _, statErr := os.Stat(cfg.DBPath); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("database not found at %s (run 'freebies seed' first)", cfg.DBPath)
		}
	}
	return eng, err
}

// resolveCompany looks a company up by numeric id or exact name.
func resolveCompany(ctx context.Context, repo core.Repository, arg string) (*core.Company, error) {
	var (
		c   *core.Company
		err error
	)
	if id, ok := parseID(arg); ok {
		c, err = repo.GetCompany(ctx, id)
	} else {
		c, err = repo.FindCompanyByName(ctx, arg)
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("company %q: %w", arg, core.ErrNotFound)
	}
	return c, nil
}

// resolveDev looks a dev up by numeric id or exact name.
func resolveDev(ctx context.Context, repo core.Repository, arg string) (*core.Dev, error) {
	var (
		d   *core.Dev
		err error
	)
	if id, ok := parseID(arg); ok {
		d, err = repo.GetDev(ctx, id)
	} else {
		d, err = repo.FindDevByName(ctx, arg)
	}
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("dev %q: %w", arg, core.ErrNotFound)
	}
	return d, nil
}

// resolveFreebie looks a freebie up by numeric id or exact item name.
func resolveFreebie(ctx context.Context, repo core.Repository, arg string) (*core.Freebie, error) {
	var (
		f   *core.Freebie
		err error
	)
	if id, ok := parseID(arg); ok {
		f, err = repo.GetFreebie(ctx, id)
	} else {
		f, err = repo.FindFreebieByItem(ctx, arg)
	}
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("freebie %q: %w", arg, core.ErrNotFound)
	}
	return f, nil
}

func parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
