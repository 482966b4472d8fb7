// Package testutil provides helpers for testing command output.
package testutil

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/freebies/internal/cli/output"
)

// TestRenderer is a Renderer writing into buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer with the given mode and TTY state.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText simulates a terminal.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a markdown test renderer.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a JSON test renderer.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns everything written to stdout.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails if s contains terminal escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiPattern.MatchString(s), "output contains ANSI escape codes: %q", s)
}

// AssertValidMarkdown checks for balanced code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fences := strings.Count(md, "```")
	assert.Zero(t, fences%2, "unbalanced code fences: found %d", fences)

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// DecodeJSON unmarshals command output into a T.
func DecodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output is not valid JSON: %q", s)
	return v
}

// MarkdownRows returns the cells of every markdown table row in s,
// header included, separator rows skipped.
func MarkdownRows(s string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			continue
		}
		parts := strings.Split(strings.Trim(line, "|"), "|")
		cells := make([]string, 0, len(parts))
		separator := true
		for _, p := range parts {
			cell := strings.TrimSpace(p)
			if strings.Trim(cell, "-:") != "" {
				separator = false
			}
			cells = append(cells, cell)
		}
		if !separator {
			rows = append(rows, cells)
		}
	}
	return rows
}
