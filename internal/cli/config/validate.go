package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "DBPath":
			msgs = append(msgs, "db_path is required")
		case "OutputFormat":
			msgs = append(msgs, fmt.Sprintf("output must be one of auto, text, markdown, json (got %q)", fe.Value()))
		case "HighValueThreshold":
			msgs = append(msgs, "high_value_threshold must not be negative")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
