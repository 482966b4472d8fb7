package seed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	file, err := Default()
	require.NoError(t, err)

	assert.Len(t, file.Companies, 3)
	assert.Len(t, file.Devs, 3)
	assert.Len(t, file.Freebies, 5)

	assert.Equal(t, Company{Name: "ODM", FoundingYear: 2005}, file.Companies[0])
	assert.Equal(t, Freebie{ItemName: "CDF funds", Value: 5000000, Dev: "Raila", Company: "UDA"}, file.Freebies[1])
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "empty document",
			input: "",
		},
		{
			name: "valid",
			input: `
companies:
  - name: Acme
    founding_year: 1999
devs:
  - name: Sam
freebies:
  - item_name: Mug
    value: 10
    dev: Sam
    company: Acme
`,
		},
		{
			name:    "unknown field",
			input:   "companies:\n  - name: Acme\n    founded: 1999\n",
			wantErr: "invalid YAML",
		},
		{
			name:    "missing company name",
			input:   "companies:\n  - founding_year: 1999\n",
			wantErr: "Name",
		},
		{
			name:    "negative value",
			input:   "freebies:\n  - item_name: Debt\n    value: -1\n    dev: Sam\n    company: Acme\n",
			wantErr: "Value",
		},
		{
			name:    "freebie without dev",
			input:   "freebies:\n  - item_name: Mug\n    value: 1\n    company: Acme\n",
			wantErr: "Dev",
		},
		{
			name:    "duplicate company names",
			input:   "companies:\n  - name: Acme\n    founding_year: 1999\n  - name: Acme\n    founding_year: 2001\n",
			wantErr: "'Companies' failed on the 'unique' tag",
		},
		{
			name:    "duplicate dev names",
			input:   "devs:\n  - name: Sam\n  - name: Kim\n  - name: Sam\n",
			wantErr: "'Devs' failed on the 'unique' tag",
		},
		{
			name:  "same name for a company and a dev",
			input: "companies:\n  - name: Sam\ndevs:\n  - name: Sam\n",
		},
		{
			name:    "malformed yaml",
			input:   "companies: [",
			wantErr: "invalid YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Load(strings.NewReader(tt.input), "test.yaml")
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, file)
				return
			}

			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "test.yaml", perr.Source)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devs:\n  - name: Sam\n"), 0o600))

	file, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Dev{{Name: "Sam"}}, file.Devs)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
