package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/internal/cli/output"
	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// addFormatFlag registers the per-command --format flag used by tabular commands.
func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "", "Output format: table, json, csv, md (default follows --output)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.TableFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// writeTable renders data as JSON when the resolved format is json, and tbl otherwise.
func writeTable(r *output.Renderer, format string, data any, tbl *output.Table) error {
	if r.TableFormat(format) == output.FormatJSON {
		return r.JSON(data)
	}
	return r.Table(tbl, format)
}

// moneyCell keeps raw numbers for machine formats and humanizes the rest.
func moneyCell(r *output.Renderer, format string, v int64) any {
	switch r.TableFormat(format) {
	case output.FormatCSV, output.FormatJSON:
		return v
	default:
		return output.Money(v)
	}
}

func rowsFooter(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}

func companyTable(companies []*core.Company) *output.Table {
	tbl := output.NewTable("id", "name", "founding_year")
	for _, c := range companies {
		tbl.Append(c.ID, c.Name, c.FoundingYear)
	}
	tbl.Footer = rowsFooter(len(companies))
	return tbl
}

func devTable(devs []*core.Dev) *output.Table {
	tbl := output.NewTable("id", "name")
	for _, d := range devs {
		tbl.Append(d.ID, d.Name)
	}
	tbl.Footer = rowsFooter(len(devs))
	return tbl
}

// freebieRow is a freebie with its dev and company names resolved.
type freebieRow struct {
	*core.Freebie
	DevName     string `json:"dev_name"`
	CompanyName string `json:"company_name"`
}

// withNames resolves the dev and company names of each freebie.
func withNames(ctx context.Context, repo core.Repository, freebies []*core.Freebie) ([]freebieRow, error) {
	devs := make(map[int64]string)
	companies := make(map[int64]string)

	rows := make([]freebieRow, 0, len(freebies))
	for _, f := range freebies {
		if _, ok := devs[f.DevID]; !ok {
			d, err := repo.GetDev(ctx, f.DevID)
			if err != nil {
				return nil, err
			}
			if d != nil {
				devs[f.DevID] = d.Name
			}
		}
		if _, ok := companies[f.CompanyID]; !ok {
			c, err := repo.GetCompany(ctx, f.CompanyID)
			if err != nil {
				return nil, err
			}
			if c != nil {
				companies[f.CompanyID] = c.Name
			}
		}
		rows = append(rows, freebieRow{Freebie: f, DevName: devs[f.DevID], CompanyName: companies[f.CompanyID]})
	}
	return rows, nil
}

func freebieTable(r *output.Renderer, format string, rows []freebieRow) *output.Table {
	tbl := output.NewTable("id", "item_name", "value", "dev", "company")
	for _, row := range rows {
		tbl.Append(row.ID, row.ItemName, moneyCell(r, format, row.Value), row.DevName, row.CompanyName)
	}
	tbl.Footer = rowsFooter(len(rows))
	return tbl
}

// renderDetails writes a titled block of key/value pairs.
func renderDetails(r *output.Renderer, title string, pairs [][2]string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, title))
		r.Println("")
		for _, kv := range pairs {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
		}
		return
	}

	styles := r.Styles()
	r.Header(1, title)
	for _, kv := range pairs {
		r.Printf("  %s %s\n", styles.Muted.Render(fmt.Sprintf("%-14s", kv[0]+":")), kv[1])
	}
}

// renderSection writes a sub-heading followed by a table.
func renderSection(r *output.Renderer, title string, tbl *output.Table) error {
	r.Println("")
	r.Header(2, title)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("")
	}
	return r.Table(tbl, "")
}
