// Package seed reads seed files describing companies, devs and the
// freebies between them. Freebies refer to devs and companies by name.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// File is a parsed seed file.
type File struct {
	Companies []Company `yaml:"companies" validate:"unique=Name,dive"`
	Devs      []Dev     `yaml:"devs" validate:"unique=Name,dive"`
	Freebies  []Freebie `yaml:"freebies" validate:"dive"`
}

// Company is a company entry.
type Company struct {
	Name         string `yaml:"name" validate:"required"`
	FoundingYear int    `yaml:"founding_year"`
}

// Dev is a dev entry.
type Dev struct {
	Name string `yaml:"name" validate:"required"`
}

// Freebie is a freebie entry. Dev and Company are names.
type Freebie struct {
	ItemName string `yaml:"item_name" validate:"required"`
	Value    int64  `yaml:"value" validate:"min=0"`
	Dev      string `yaml:"dev" validate:"required"`
	Company  string `yaml:"company" validate:"required"`
}

// ParseError reports a malformed seed file.
type ParseError struct {
	Source  string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("seed %s: %s", e.Source, e.Message)
}

// Default returns the built-in sample dataset.
func Default() (*File, error) {
	return Load(bytes.NewReader(defaultSeed), "default")
}

// LoadFile reads and validates the seed file at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f, path)
}

// Load decodes a seed file from r. Unknown keys are rejected. source names
// the input in error messages.
func Load(r io.Reader, source string) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	file := &File{}
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Source: source, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if err := file.Validate(); err != nil {
		return nil, &ParseError{Source: source, Message: err.Error()}
	}
	return file, nil
}

// Validate checks required fields, value bounds and that company and dev
// names are unique within the file. Names are resolved when the file is
// applied.
func (f *File) Validate() error {
	return validator.New().Struct(f)
}
