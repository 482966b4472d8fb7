// Package config provides configuration management for the freebies CLI.
//
// Values are layered with koanf: defaults, then freebies.yaml, then
// FREEBIES_* environment variables, then explicitly set flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	DBPath             string `koanf:"db_path" validate:"required"`
	SeedFile           string `koanf:"seed_file"`
	Verbose            bool   `koanf:"verbose"`
	OutputFormat       string `koanf:"output" validate:"oneof=auto text markdown json"`
	HistoryFile        string `koanf:"history_file"`
	HighValueThreshold int64  `koanf:"high_value_threshold" validate:"min=0"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultDBPath      = "freebies.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHistoryFile = ".freebies_history"
	EnvPrefix          = "FREEBIES_"
)

// configFileNames are searched in order.
var configFileNames = []string{"freebies.yaml", "freebies.yml"}
