package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// ReportOptions holds options for the report command.
type ReportOptions struct {
	Format    string
	Threshold int64
}

// ReportOutput is the JSON output for the combined report.
type ReportOutput struct {
	Stats             *core.Stats            `json:"stats"`
	Listing           []*core.FreebieListing `json:"listing"`
	DevTotals         []*core.DevTotal       `json:"dev_totals"`
	CompanySummaries  []*core.CompanySummary `json:"company_summaries"`
	HighValueFreebies []*core.FreebieListing `json:"high_value_freebies"`
	Threshold         int64                  `json:"threshold"`
}

// report is one named section of the report command.
type report struct {
	name  string
	short string
	run   func(ctx context.Context, rc *reportContext) error
}

type reportContext struct {
	r         *output.Renderer
	store     core.Reporter
	format    string
	threshold int64
}

var reports = []report{
	{"stats", "Quick counts and total value", runStatsReport},
	{"listing", "Every freebie with its dev and company", runListingReport},
	{"dev-totals", "Freebie count and value per dev, including devs with none", runDevTotalsReport},
	{"company-summary", "Freebies given, total spent and devs reached per company", runCompanySummaryReport},
	{"high-value", "Freebies worth more than --threshold", runHighValueReport},
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize freebies with joined reports",
		Long: `Summarize freebies with joined reports.

Without a name, every report is printed. Reports open the database read-only.

Reports:
  stats            Quick counts and total value
  listing          Every freebie with its dev and company
  dev-totals       Freebie count and value per dev
  company-summary  Freebies given, total spent and devs reached per company
  high-value       Freebies worth more than --threshold`,
		Example: `  # All reports
  freebies report

  # One report as CSV
  freebies report dev-totals --format csv

  # Freebies over 2,000,000
  freebies report high-value --threshold 2000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAllReports(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md (default follows --output)")
	cmd.PersistentFlags().Int64Var(&opts.Threshold, "threshold", core.DefaultHighValueThreshold, "Minimum value for the high-value report (exclusive)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.TableFormats, cobra.ShellCompDirectiveNoFileComp
	})

	for _, rep := range reports {
		cmd.AddCommand(&cobra.Command{
			Use:   rep.name,
			Short: rep.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runReport(cmd, opts, rep.run)
			},
		})
	}

	return cmd
}

func newReportContext(cmd *cobra.Command, cmdCtx *CommandContext, opts *ReportOptions) *reportContext {
	threshold := cmdCtx.Cfg.HighValueThreshold
	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		threshold = opts.Threshold
	}
	return &reportContext{
		r:         cmdCtx.Renderer,
		store:     cmdCtx.Engine.Store(),
		format:    opts.Format,
		threshold: threshold,
	}
}

func runReport(cmd *cobra.Command, opts *ReportOptions, run func(context.Context, *reportContext) error) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return run(cmd.Context(), newReportContext(cmd, cmdCtx, opts))
}

func runAllReports(cmd *cobra.Command, opts *ReportOptions) error {
	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	rc := newReportContext(cmd, cmdCtx, opts)

	// JSON combines every report into one document.
	if rc.r.TableFormat(rc.format) == output.FormatJSON {
		out, err := collectReports(ctx, rc.store, rc.threshold)
		if err != nil {
			return err
		}
		return rc.r.JSON(out)
	}

	for i, rep := range reports {
		if i > 0 {
			rc.r.Println("")
		}
		rc.r.Header(2, output.Title(rep.name))
		if rc.r.EffectiveMode() == output.ModeMarkdown {
			rc.r.Println("")
		}
		if err := rep.run(ctx, rc); err != nil {
			return fmt.Errorf("report %s: %w", rep.name, err)
		}
	}
	return nil
}

func collectReports(ctx context.Context, store core.Reporter, threshold int64) (*ReportOutput, error) {
	var (
		out = &ReportOutput{Threshold: threshold}
		err error
	)
	if out.Stats, err = store.Stats(ctx); err != nil {
		return nil, err
	}
	if out.Listing, err = store.FreebieListing(ctx); err != nil {
		return nil, err
	}
	if out.DevTotals, err = store.DevTotals(ctx); err != nil {
		return nil, err
	}
	if out.CompanySummaries, err = store.CompanySummaries(ctx); err != nil {
		return nil, err
	}
	if out.HighValueFreebies, err = store.HighValueFreebies(ctx, threshold); err != nil {
		return nil, err
	}
	return out, nil
}

func runStatsReport(ctx context.Context, rc *reportContext) error {
	stats, err := rc.store.Stats(ctx)
	if err != nil {
		return err
	}
	tbl := output.NewTable("metric", "value")
	tbl.Append("companies", stats.Companies)
	tbl.Append("devs", stats.Devs)
	tbl.Append("freebies", stats.Freebies)
	tbl.Append("total_value", moneyCell(rc.r, rc.format, stats.TotalValue))
	return writeTable(rc.r, rc.format, stats, tbl)
}

func runListingReport(ctx context.Context, rc *reportContext) error {
	listing, err := rc.store.FreebieListing(ctx)
	if err != nil {
		return err
	}
	return writeTable(rc.r, rc.format, listing, listingTable(rc, listing))
}

func runHighValueReport(ctx context.Context, rc *reportContext) error {
	listing, err := rc.store.HighValueFreebies(ctx, rc.threshold)
	if err != nil {
		return err
	}
	tbl := listingTable(rc, listing)
	if rc.r.TableFormat(rc.format) == output.FormatTable {
		tbl.Footer = fmt.Sprintf("%s over %s", tbl.Footer, output.Money(rc.threshold))
	}
	return writeTable(rc.r, rc.format, listing, tbl)
}

func listingTable(rc *reportContext, listing []*core.FreebieListing) *output.Table {
	tbl := output.NewTable("item_name", "value", "dev", "company")
	for _, l := range listing {
		tbl.Append(l.ItemName, moneyCell(rc.r, rc.format, l.Value), l.DevName, l.CompanyName)
	}
	tbl.Footer = rowsFooter(len(listing))
	return tbl
}

func runDevTotalsReport(ctx context.Context, rc *reportContext) error {
	totals, err := rc.store.DevTotals(ctx)
	if err != nil {
		return err
	}
	tbl := output.NewTable("dev", "freebies", "total_value")
	for _, t := range totals {
		tbl.Append(t.DevName, t.FreebieCount, moneyCell(rc.r, rc.format, t.TotalValue))
	}
	tbl.Footer = rowsFooter(len(totals))
	return writeTable(rc.r, rc.format, totals, tbl)
}

func runCompanySummaryReport(ctx context.Context, rc *reportContext) error {
	summaries, err := rc.store.CompanySummaries(ctx)
	if err != nil {
		return err
	}
	tbl := output.NewTable("company", "freebies_given", "total_spent", "devs_reached")
	for _, s := range summaries {
		tbl.Append(s.CompanyName, s.FreebiesGiven, moneyCell(rc.r, rc.format, s.TotalSpent), s.DevsReached)
	}
	tbl.Footer = rowsFooter(len(summaries))
	return writeTable(rc.r, rc.format, summaries, tbl)
}
