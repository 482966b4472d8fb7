package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/freebies/internal/engine"
)

const (
	replPrompt     = "freebies> "
	replContPrompt = "     ...> "
)

// replSession carries what dot-commands need between lines.
type replSession struct {
	ctx    context.Context
	eng    *engine.Engine
	out    io.Writer
	errOut io.Writer
	format string
}

func runQueryREPL(cmd *cobra.Command, opts *QueryOptions) error {
	// Writable: .giveaway commits transfers. Plain SQL runs query_only.
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := &replSession{
		ctx:    cmd.Context(),
		eng:    cmdCtx.Engine,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		format: cmdCtx.Renderer.TableFormat(opts.Format),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cmdCtx.Cfg.HistoryFile,
		AutoComplete:    newTableCompleter(s.ctx, s.eng.Store().DB()),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "freebies shell (db: %s)\n", s.eng.DBPath())
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := s.handleDotCommand(line); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := multiLineBuffer.String()
		multiLineBuffer.Reset()

		s.report(executeAndRender(s.ctx, s.out, s.eng.Store().DB(), query, s.format))
		_, _ = fmt.Fprintln(s.out)
	}

	return nil
}

// handleDotCommand runs one dot-command and reports whether the shell should exit.
func (s *replSession) handleDotCommand(line string) bool {
	parts, err := shlex.Split(line)
	if err != nil {
		s.report(fmt.Errorf("invalid command line: %w", err))
		return false
	}
	if len(parts) == 0 {
		return false
	}
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".tables":
		s.report(listTablesFromDB(s.ctx, s.out, s.eng.Store().DB(), s.format, false))

	case ".views":
		s.report(listTablesFromDB(s.ctx, s.out, s.eng.Store().DB(), s.format, true))

	case ".schema":
		if len(args) != 1 {
			s.usage(".schema <table>")
			return false
		}
		s.report(showSchemaFromDB(s.ctx, s.out, s.eng.Store().DB(), args[0], s.format))

	case ".devs":
		if len(args) != 1 {
			s.usage(".devs <company>")
			return false
		}
		s.report(s.companyDevs(args[0]))

	case ".companies":
		if len(args) != 1 {
			s.usage(".companies <dev>")
			return false
		}
		s.report(s.devCompanies(args[0]))

	case ".oldest":
		s.report(s.oldest())

	case ".received":
		if len(args) != 2 {
			s.usage(`.received <dev> "<item>"`)
			return false
		}
		s.report(s.received(args[0], args[1]))

	case ".details":
		if len(args) != 1 {
			s.usage(".details <freebie>")
			return false
		}
		s.report(s.details(args[0]))

	case ".giveaway":
		if len(args) != 3 {
			s.usage(".giveaway <freebie> <from-dev> <to-dev>")
			return false
		}
		s.report(s.giveAway(args[0], args[1], args[2]))

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *replSession) report(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
}

func (s *replSession) usage(u string) {
	_, _ = fmt.Fprintln(s.errOut, "Usage: "+u)
}

func (s *replSession) companyDevs(arg string) error {
	c, err := resolveCompany(s.ctx, s.eng.Store(), arg)
	if err != nil {
		return err
	}
	devs, err := s.eng.CompanyDevs(s.ctx, c.ID)
	if err != nil {
		return err
	}
	return devTable(devs).Render(s.out, s.format)
}

func (s *replSession) devCompanies(arg string) error {
	d, err := resolveDev(s.ctx, s.eng.Store(), arg)
	if err != nil {
		return err
	}
	companies, err := s.eng.DevCompanies(s.ctx, d.ID)
	if err != nil {
		return err
	}
	return companyTable(companies).Render(s.out, s.format)
}

func (s *replSession) oldest() error {
	c, err := s.eng.OldestCompany(s.ctx)
	if err != nil {
		return err
	}
	if c == nil {
		_, _ = fmt.Fprintln(s.out, "no companies")
		return nil
	}
	_, _ = fmt.Fprintln(s.out, c.String())
	return nil
}

func (s *replSession) received(devArg, item string) error {
	d, err := resolveDev(s.ctx, s.eng.Store(), devArg)
	if err != nil {
		return err
	}
	ok, err := s.eng.ReceivedOne(s.ctx, d.ID, item)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, ok)
	return nil
}

func (s *replSession) details(arg string) error {
	f, err := resolveFreebie(s.ctx, s.eng.Store(), arg)
	if err != nil {
		return err
	}
	details, err := s.eng.FreebieDetails(s.ctx, f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, details)
	return nil
}

func (s *replSession) giveAway(freebieArg, fromArg, toArg string) error {
	store := s.eng.Store()
	f, err := resolveFreebie(s.ctx, store, freebieArg)
	if err != nil {
		return err
	}
	from, err := resolveDev(s.ctx, store, fromArg)
	if err != nil {
		return err
	}
	to, err := resolveDev(s.ctx, store, toArg)
	if err != nil {
		return err
	}
	outcome, err := s.eng.Transfer(s.ctx, from.ID, to.ID, f.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, outcome)
	return nil
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                                  Show this help message
  .tables                                List all tables and views
  .views                                 List views only
  .schema <name>                         Show schema for a table or view
  .devs <company>                        Devs a company has given freebies to
  .companies <dev>                       Companies a dev received freebies from
  .oldest                                Company with the earliest founding year
  .received <dev> "<item>"               Whether a dev holds a freebie by item name
  .details <freebie>                     Who owns a freebie and who gave it
  .giveaway <freebie> <from> <to>        Transfer a freebie (commits)
  .quit / .exit                          Exit the shell

Tips:
  - SQL statements must end with a semicolon (;) and never change data
  - Quote names containing spaces: .received Raila "CDF funds"
  - Tab completion works for table names and dot-commands
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, db *sql.DB) *readline.PrefixCompleter {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return readline.NewPrefixCompleter()
	}
	defer func() { _ = rows.Close() }()

	var items []readline.PrefixCompleterInterface
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			items = append(items, readline.PcItem(name))
		}
	}
	// Ignore rows.Err() as this is for autocomplete, not critical
	_ = rows.Err()

	for _, dot := range []string{
		".help", ".tables", ".views", ".schema", ".devs", ".companies",
		".oldest", ".received", ".details", ".giveaway", ".quit", ".exit",
	} {
		items = append(items, readline.PcItem(dot))
	}

	return readline.NewPrefixCompleter(items...)
}
