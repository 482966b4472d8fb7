package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// FreebieOptions holds options shared by the freebie subcommands.
type FreebieOptions struct {
	Format  string
	Dev     string
	Company string
}

// FreebieDetail is the JSON output for freebie show and give.
type FreebieDetail struct {
	freebieRow
	Details string `json:"details"`
}

// TransferOutput is the JSON output for freebie give-away.
type TransferOutput struct {
	FreebieID int64  `json:"freebie_id"`
	ItemName  string `json:"item_name"`
	From      string `json:"from"`
	To        string `json:"to"`
	Outcome   string `json:"outcome"`
}

// NewFreebieCommand creates the freebie command.
func NewFreebieCommand() *cobra.Command {
	opts := &FreebieOptions{}
	cmd := &cobra.Command{
		Use:     "freebie",
		Aliases: []string{"freebies"},
		Short:   "Give, transfer and inspect freebies",
		Long: `Give, transfer and inspect freebies.

Freebies are referenced by numeric id or exact item name; companies and devs
by id or name.`,
		Example: `  freebies freebie list --dev Raila
  freebies freebie show "CDF funds"
  freebies freebie give ODM Rigachi Umbrella 1200
  freebies freebie give-away "DCP Tanks" Rigachi Ruto`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List freebies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFreebieList(cmd, opts)
		},
	}
	addFormatFlag(list, &opts.Format)
	list.Flags().StringVar(&opts.Dev, "dev", "", "Only freebies held by this dev")
	list.Flags().StringVar(&opts.Company, "company", "", "Only freebies given by this company")
	_ = list.RegisterFlagCompletionFunc("dev", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return completeNames(cmd, nil, 0, devNames)
	})

	show := &cobra.Command{
		Use:               "show <freebie>",
		Short:             "Show a freebie and who holds it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFreebies,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreebieShow(cmd, args[0])
		},
	}

	give := &cobra.Command{
		Use:   "give <company> <dev> <item> <value>",
		Short: "Record a freebie a company gave to a dev",
		Long: `Record a freebie a company gave to a dev.

The value is a whole number and may contain thousands separators
(2,500,000 or 2_500_000). The item name must not be empty and the value must
not be negative.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreebieGive(cmd, args)
		},
	}

	giveAway := &cobra.Command{
		Use:   "give-away <freebie> <from-dev> <to-dev>",
		Short: "Transfer a freebie from the dev holding it to another dev",
		Long: `Transfer a freebie from the dev holding it to another dev.

The transfer is rejected, and nothing changes, when <from-dev> does not hold
the freebie. A rejection is reported but is not an error.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeGiveAway,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreebieGiveAway(cmd, args[0], args[1], args[2])
		},
	}

	del := &cobra.Command{
		Use:               "delete <freebie>",
		Short:             "Delete a freebie",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFreebies,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreebieDelete(cmd, args[0])
		},
	}

	cmd.AddCommand(list, show, give, giveAway, del)
	return cmd
}

func runFreebieList(cmd *cobra.Command, opts *FreebieOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	store := cmdCtx.Engine.Store()

	var freebies []*core.Freebie
	switch {
	case opts.Dev != "":
		d, err := resolveDev(ctx, store, opts.Dev)
		if err != nil {
			return err
		}
		freebies, err = store.FreebiesByDevID(ctx, d.ID)
		if err != nil {
			return err
		}
	case opts.Company != "":
		c, err := resolveCompany(ctx, store, opts.Company)
		if err != nil {
			return err
		}
		freebies, err = store.FreebiesByCompanyID(ctx, c.ID)
		if err != nil {
			return err
		}
	default:
		freebies, err = store.ListFreebies(ctx)
		if err != nil {
			return err
		}
	}

	// --dev and --company together narrow to their intersection.
	if opts.Dev != "" && opts.Company != "" {
		c, err := resolveCompany(ctx, store, opts.Company)
		if err != nil {
			return err
		}
		filtered := freebies[:0]
		for _, f := range freebies {
			if f.CompanyID == c.ID {
				filtered = append(filtered, f)
			}
		}
		freebies = filtered
	}

	rows, err := withNames(ctx, store, freebies)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	return writeTable(r, opts.Format, rows, freebieTable(r, opts.Format, rows))
}

func runFreebieShow(cmd *cobra.Command, arg string) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	f, err := resolveFreebie(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}
	return renderFreebie(cmd, cmdCtx, f)
}

func runFreebieGive(cmd *cobra.Command, args []string) error {
	value, err := parseValue(args[3])
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	store := cmdCtx.Engine.Store()

	c, err := resolveCompany(ctx, store, args[0])
	if err != nil {
		return err
	}
	d, err := resolveDev(ctx, store, args[1])
	if err != nil {
		return err
	}

	f, err := cmdCtx.Engine.Give(ctx, c.ID, d.ID, args[2], value)
	if err != nil {
		return err
	}
	return renderFreebie(cmd, cmdCtx, f)
}

func runFreebieGiveAway(cmd *cobra.Command, freebieArg, fromArg, toArg string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	store := cmdCtx.Engine.Store()

	f, err := resolveFreebie(ctx, store, freebieArg)
	if err != nil {
		return err
	}
	from, err := resolveDev(ctx, store, fromArg)
	if err != nil {
		return err
	}
	to, err := resolveDev(ctx, store, toArg)
	if err != nil {
		return err
	}

	outcome, err := cmdCtx.Engine.Transfer(ctx, from.ID, to.ID, f.ID)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	out := TransferOutput{
		FreebieID: f.ID,
		ItemName:  f.ItemName,
		From:      from.Name,
		To:        to.Name,
		Outcome:   outcome.String(),
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	status, detail := "success", fmt.Sprintf("%s -> %s", from.Name, to.Name)
	if !outcome.Applied() {
		status = "rejected"
		detail = fmt.Sprintf("%s does not hold it", from.Name)
	}
	r.StatusLine(fmt.Sprintf("give-away %q", f.ItemName), status, detail)
	return nil
}

func runFreebieDelete(cmd *cobra.Command, arg string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	f, err := resolveFreebie(ctx, cmdCtx.Engine.Store(), arg)
	if err != nil {
		return err
	}
	if err := cmdCtx.Engine.WithTx(ctx, func(tx core.Tx) error {
		return tx.DeleteFreebie(ctx, f.ID)
	}); err != nil {
		return err
	}
	return renderDeleted(cmdCtx.Renderer, "freebie", f.ItemName, 1)
}

func renderFreebie(cmd *cobra.Command, cmdCtx *CommandContext, f *core.Freebie) error {
	ctx := cmd.Context()
	store := cmdCtx.Engine.Store()
	r := cmdCtx.Renderer

	rows, err := withNames(ctx, store, []*core.Freebie{f})
	if err != nil {
		return err
	}
	details, err := cmdCtx.Engine.FreebieDetails(ctx, f)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(FreebieDetail{freebieRow: rows[0], Details: details})
	}

	renderDetails(r, f.ItemName, [][2]string{
		{"ID", strconv.FormatInt(f.ID, 10)},
		{"Value", output.Money(f.Value)},
		{"Dev", rows[0].DevName},
		{"Company", rows[0].CompanyName},
	})
	r.Println("")
	r.Println(details)
	return nil
}

// parseValue accepts whole numbers with optional "," or "_" separators.
func parseValue(s string) (int64, error) {
	clean := strings.NewReplacer(",", "", "_", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: must be a whole number", s)
	}
	return v, nil
}
