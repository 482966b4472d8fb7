package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// DevOptions holds options shared by the dev subcommands.
type DevOptions struct {
	Format  string
	Cascade bool
}

// DevDetail is the JSON output for dev show.
type DevDetail struct {
	*core.Dev
	Companies []*core.Company `json:"companies"`
	Freebies  []freebieRow    `json:"freebies"`
}

// ReceivedOutput is the JSON output for dev received.
type ReceivedOutput struct {
	Dev      string `json:"dev"`
	ItemName string `json:"item_name"`
	Received bool   `json:"received"`
}

// NewDevCommand creates the dev command.
func NewDevCommand() *cobra.Command {
	opts := &DevOptions{}
	cmd := &cobra.Command{
		Use:     "dev",
		Aliases: []string{"devs"},
		Short:   "Inspect and manage devs",
		Long: `Inspect and manage devs.

Devs are referenced by numeric id or exact name.`,
		Example: `  freebies dev list
  freebies dev show Raila
  freebies dev companies Ruto
  freebies dev received Raila "CDF funds"`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all devs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevList(cmd, opts)
		},
	}
	addFormatFlag(list, &opts.Format)

	show := &cobra.Command{
		Use:               "show <dev>",
		Short:             "Show a dev with their companies and freebies",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDevs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevShow(cmd, args[0])
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a dev",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevAdd(cmd, args[0])
		},
	}

	companies := &cobra.Command{
		Use:               "companies <dev>",
		Short:             "List the distinct companies a dev received freebies from",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDevs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevCompanies(cmd, args[0], opts)
		},
	}
	addFormatFlag(companies, &opts.Format)

	received := &cobra.Command{
		Use:   "received <dev> <item>",
		Short: "Check whether a dev holds a freebie with the given item name",
		Long: `Check whether a dev holds a freebie with the given item name.

The match is exact and case-sensitive. Exits non-zero only on errors; the
answer is printed as yes or no.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeDevs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevReceived(cmd, args[0], args[1])
		},
	}

	del := &cobra.Command{
		Use:   "delete <dev>",
		Short: "Delete a dev",
		Long: `Delete a dev.

A dev holding freebies is only deleted with --cascade, which also deletes
those freebies. Both happen in one transaction.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDevs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevDelete(cmd, args[0], opts)
		},
	}
	del.Flags().BoolVar(&opts.Cascade, "cascade", false, "Also delete the dev's freebies")

	cmd.AddCommand(list, show, add, companies, received, del)
	return cmd
}

func runDevList(cmd *cobra.Command, opts *DevOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	devs, err := cmdCtx.Engine.Store().ListDevs(cmd.Context())
	if err != nil {
		return err
	}
	return writeTable(cmdCtx.Renderer, opts.Format, devs, devTable(devs))
}

func runDevShow(cmd *cobra.Command, arg string) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	d, err := resolveDev(ctx, eng.Store(), arg)
	if err != nil {
		return err
	}
	companies, err := eng.DevCompanies(ctx, d.ID)
	if err != nil {
		return err
	}
	freebies, err := eng.Store().FreebiesByDevID(ctx, d.ID)
	if err != nil {
		return err
	}
	rows, err := withNames(ctx, eng.Store(), freebies)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(DevDetail{Dev: d, Companies: companies, Freebies: rows})
	}

	var total int64
	for _, f := range freebies {
		total += f.Value
	}
	renderDetails(r, d.Name, [][2]string{
		{"ID", strconv.FormatInt(d.ID, 10)},
		{"Freebies", strconv.Itoa(len(freebies))},
		{"Total value", output.Money(total)},
	})
	if err := renderSection(r, "Companies", companyTable(companies)); err != nil {
		return err
	}
	return renderSection(r, "Freebies", freebieTable(r, "", rows))
}

func runDevAdd(cmd *cobra.Command, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	d := &core.Dev{Name: name}
	if err := cmdCtx.Engine.WithTx(ctx, func(tx core.Tx) error {
		return tx.CreateDev(ctx, d)
	}); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(d)
	}
	r.Success(fmt.Sprintf("Added dev %s (id %d)", d.Name, d.ID))
	return nil
}

func runDevCompanies(cmd *cobra.Command, arg string, opts *DevOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	d, err := resolveDev(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}
	companies, err := cmdCtx.Engine.DevCompanies(ctx, d.ID)
	if err != nil {
		return err
	}
	return writeTable(cmdCtx.Renderer, opts.Format, companies, companyTable(companies))
}

func runDevReceived(cmd *cobra.Command, arg, item string) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	d, err := resolveDev(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}
	ok, err := cmdCtx.Engine.ReceivedOne(ctx, d.ID, item)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(ReceivedOutput{Dev: d.Name, ItemName: item, Received: ok})
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue(fmt.Sprintf("%s received %q", d.Name, item), yesNo(ok)))
	default:
		status := "rejected"
		if ok {
			status = "success"
		}
		r.StatusLine(d.Name, status, fmt.Sprintf("received %q: %s", item, yesNo(ok)))
	}
	return nil
}

func runDevDelete(cmd *cobra.Command, arg string, opts *DevOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	d, err := resolveDev(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}

	removed, err := cmdCtx.Engine.DeleteDev(ctx, d.ID, opts.Cascade)
	if errors.Is(err, core.ErrHasFreebies) {
		return fmt.Errorf("%w (use --cascade to delete them too)", err)
	}
	if err != nil {
		return err
	}

	return renderDeleted(cmdCtx.Renderer, "dev", d.Name, removed)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
