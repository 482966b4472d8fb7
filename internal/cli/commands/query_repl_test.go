package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/freebies/internal/testutil"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	return &replSession{
		ctx:    context.Background(),
		eng:    testutil.NewSeededEngine(t),
		out:    out,
		errOut: errOut,
		format: "csv",
	}, out, errOut
}

func TestHandleDotCommand_Quit(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.True(t, s.handleDotCommand(".quit"))
	assert.True(t, s.handleDotCommand(".EXIT"))
	assert.False(t, s.handleDotCommand(".help"))
}

func TestHandleDotCommand_Relationships(t *testing.T) {
	tests := []struct {
		line string
		want []string
		not  []string
	}{
		{line: ".devs UDA", want: []string{"1,Raila", "2,Ruto"}, not: []string{"Rigachi"}},
		{line: ".companies Rigachi", want: []string{"3,DCP,2025"}, not: []string{"ODM"}},
		{line: ".oldest", want: []string{"Company(id=1, name=ODM, founding_year=2005)"}},
		{line: `.received Ruto "Hustler funds"`, want: []string{"true"}},
		{line: `.received Ruto "CDF funds"`, want: []string{"false"}},
		{line: `.received Raila 'CDF funds'`, want: []string{"true"}},
		{line: `.received Raila CDF\ funds`, want: []string{"true"}},
		{line: `.details "ODM T-shirts"`, want: []string{"Raila owns a ODM T-shirts from ODM"}},
		{line: ".tables", want: []string{"v_freebies,view"}},
		{line: ".schema companies", want: []string{"Table: companies"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, out, errOut := newTestSession(t)
			assert.False(t, s.handleDotCommand(tt.line))
			assert.Empty(t, errOut.String())
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out.String(), n)
			}
		})
	}
}

func TestHandleDotCommand_GiveAway(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.handleDotCommand(`.giveaway "DCP Tanks" Ruto Raila`)
	assert.Contains(t, out.String(), "rejected")

	out.Reset()
	s.handleDotCommand(`.giveaway "DCP Tanks" Rigachi Raila`)
	assert.Contains(t, out.String(), "applied")

	out.Reset()
	s.handleDotCommand(`.details "DCP Tanks"`)
	assert.Contains(t, out.String(), "Raila owns a DCP Tanks from DCP")
	assert.Empty(t, errOut.String())
}

func TestHandleDotCommand_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{".devs", "Usage: .devs <company>"},
		{".received Raila", "Usage: .received"},
		{".giveaway 1 2", "Usage: .giveaway"},
		{".devs KANU", `Error: company "KANU": not found`},
		{".bogus", "Unknown command: .bogus"},
		{`.received Raila "CDF funds`, "Error: invalid command line"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, _, errOut := newTestSession(t)
			require.False(t, s.handleDotCommand(tt.line))
			assert.Contains(t, errOut.String(), tt.want)
		})
	}
}

func TestPrintREPLHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	printREPLHelp(buf)
	for _, cmd := range []string{".devs", ".companies", ".oldest", ".received", ".details", ".giveaway"} {
		assert.Contains(t, buf.String(), cmd)
	}
}

func TestNewTableCompleter(t *testing.T) {
	db := testutil.NewSeededEngine(t).Store().DB()
	pc := newTableCompleter(context.Background(), db)

	var names []string
	for _, child := range pc.GetChildren() {
		names = append(names, string(child.GetName()))
	}
	assert.Contains(t, names, "freebies ")
	assert.Contains(t, names, ".giveaway ")
}
