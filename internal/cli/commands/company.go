package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// CompanyOptions holds options shared by the company subcommands.
type CompanyOptions struct {
	Format  string
	Founded int
	Cascade bool
}

// CompanyDetail is the JSON output for company show.
type CompanyDetail struct {
	*core.Company
	Devs     []*core.Dev  `json:"devs"`
	Freebies []freebieRow `json:"freebies"`
}

// NewCompanyCommand creates the company command.
func NewCompanyCommand() *cobra.Command {
	opts := &CompanyOptions{}
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"companies"},
		Short:   "Inspect and manage companies",
		Long: `Inspect and manage companies.

Companies are referenced by numeric id or exact name.`,
		Example: `  freebies company list
  freebies company show ODM
  freebies company devs 2
  freebies company oldest
  freebies company delete DCP --cascade`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompanyList(cmd, opts)
		},
	}
	addFormatFlag(list, &opts.Format)

	show := &cobra.Command{
		Use:               "show <company>",
		Short:             "Show a company with its devs and freebies",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCompanies,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompanyShow(cmd, args[0])
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompanyAdd(cmd, args[0], opts)
		},
	}
	add.Flags().IntVar(&opts.Founded, "founded", 0, "Founding year")

	devs := &cobra.Command{
		Use:               "devs <company>",
		Short:             "List the distinct devs a company has given freebies to",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCompanies,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompanyDevs(cmd, args[0], opts)
		},
	}
	addFormatFlag(devs, &opts.Format)

	oldest := &cobra.Command{
		Use:   "oldest",
		Short: "Show the company with the earliest founding year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompanyOldest(cmd)
		},
	}

	del := &cobra.Command{
		Use:   "delete <company>",
		Short: "Delete a company",
		Long: `Delete a company.

A company that has given freebies is only deleted with --cascade, which also
deletes those freebies. Both happen in one transaction.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCompanies,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompanyDelete(cmd, args[0], opts)
		},
	}
	del.Flags().BoolVar(&opts.Cascade, "cascade", false, "Also delete the company's freebies")

	cmd.AddCommand(list, show, add, devs, oldest, del)
	return cmd
}

func runCompanyList(cmd *cobra.Command, opts *CompanyOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	companies, err := cmdCtx.Engine.Store().ListCompanies(cmd.Context())
	if err != nil {
		return err
	}
	return writeTable(cmdCtx.Renderer, opts.Format, companies, companyTable(companies))
}

func runCompanyShow(cmd *cobra.Command, arg string) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	c, err := resolveCompany(ctx, eng.Store(), arg)
	if err != nil {
		return err
	}
	devs, err := eng.CompanyDevs(ctx, c.ID)
	if err != nil {
		return err
	}
	freebies, err := eng.Store().FreebiesByCompanyID(ctx, c.ID)
	if err != nil {
		return err
	}
	rows, err := withNames(ctx, eng.Store(), freebies)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(CompanyDetail{Company: c, Devs: devs, Freebies: rows})
	}

	var total int64
	for _, f := range freebies {
		total += f.Value
	}
	renderDetails(r, c.Name, [][2]string{
		{"ID", strconv.FormatInt(c.ID, 10)},
		{"Founded", foundingYear(c)},
		{"Freebies", strconv.Itoa(len(freebies))},
		{"Total given", output.Money(total)},
	})
	if err := renderSection(r, "Devs", devTable(devs)); err != nil {
		return err
	}
	return renderSection(r, "Freebies", freebieTable(r, "", rows))
}

func runCompanyAdd(cmd *cobra.Command, name string, opts *CompanyOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	c := &core.Company{Name: name, FoundingYear: opts.Founded}
	if err := cmdCtx.Engine.WithTx(ctx, func(tx core.Tx) error {
		return tx.CreateCompany(ctx, c)
	}); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(c)
	}
	r.Success(fmt.Sprintf("Added company %s (id %d)", c.Name, c.ID))
	return nil
}

func runCompanyDevs(cmd *cobra.Command, arg string, opts *CompanyOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	c, err := resolveCompany(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}
	devs, err := cmdCtx.Engine.CompanyDevs(ctx, c.ID)
	if err != nil {
		return err
	}
	return writeTable(cmdCtx.Renderer, opts.Format, devs, devTable(devs))
}

func runCompanyOldest(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	c, err := cmdCtx.Engine.OldestCompany(cmd.Context())
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("no companies: %w", core.ErrNotFound)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(c)
	}
	renderDetails(r, "Oldest company", [][2]string{
		{"Name", c.Name},
		{"Founded", foundingYear(c)},
		{"ID", strconv.FormatInt(c.ID, 10)},
	})
	return nil
}

func runCompanyDelete(cmd *cobra.Command, arg string, opts *CompanyOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	c, err := resolveCompany(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}

	removed, err := cmdCtx.Engine.DeleteCompany(ctx, c.ID, opts.Cascade)
	if errors.Is(err, core.ErrHasFreebies) {
		return fmt.Errorf("%w (use --cascade to delete them too)", err)
	}
	if err != nil {
		return err
	}

	return renderDeleted(cmdCtx.Renderer, "company", c.Name, removed)
}

// DeleteOutput is the JSON output for delete commands.
type DeleteOutput struct {
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	FreebiesRemoved int64  `json:"freebies_removed"`
}

func renderDeleted(r *output.Renderer, kind, name string, removed int64) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(DeleteOutput{Kind: kind, Name: name, FreebiesRemoved: removed})
	}
	msg := fmt.Sprintf("Deleted %s %s", kind, name)
	if removed > 0 && kind != "freebie" {
		msg += fmt.Sprintf(" and %d freebie(s)", removed)
	}
	r.Success(msg)
	return nil
}

func foundingYear(c *core.Company) string {
	if c.FoundingYear == 0 {
		return "unknown"
	}
	return strconv.Itoa(c.FoundingYear)
}
