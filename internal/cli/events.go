package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vegasq/policycat/internal/client"
	"github.com/vegasq/policycat/internal/query"
)

// dateFlags holds the --from/--to pair shared by the fetching commands
type dateFlags struct {
	from string
	to   string
}

func addDateFlags(fs *pflag.FlagSet, d *dateFlags) {
	fs.StringVar(&d.from, "from", query.DefaultStartDate, "First date of the range (YYYY-MM-DD)")
	fs.StringVar(&d.to, "to", query.Today(), "Last date of the range (YYYY-MM-DD)")
}

func newEventsCmd(a *app) *cobra.Command {
	var (
		countries      []string
		types          []string
		subTypes       []string
		columns        []string
		addColumns     []string
		dates          dateFlags
		noOpenEnded    bool
		timeout        bool
		legacyOverride bool
		dryRun         bool
		outPath        string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Fetch policy event records",
		Long: `Fetch policy event records filtered by country, policy type and date.

Repeat --country, --type and --sub-type to match several values. Omitting a
filter, or passing "All", leaves it unconstrained.`,
		Example: `  policycat events --country Japan --country China --from 2020-01-01 --to 2020-01-05
  policycat events --type Lockdown --timeout -o csv --out lockdowns.csv
  policycat events --type "Social Distancing" --sub-type "Wearing Masks" --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := query.DefaultEventQuery()
			q.Countries = query.Select(countries...)
			q.Categories = query.Select(types...)
			q.Subcategories = query.Select(subTypes...)
			q.AdditionalColumns = addColumns
			q.Dates.From, q.Dates.To = dates.from, dates.to
			q.Dates.IncludeOpenEnded = !noOpenEnded
			q.LegacyCategoryOverwrite = legacyOverride
			if len(columns) > 0 {
				q.BaseColumns = columns
			}

			if dryRun {
				filter, err := q.Compile()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), client.BuildURL(a.client.BaseURL(), client.ResourceEvents, filter))
				return err
			}

			table, err := a.client.GetEvents(cmd.Context(), q, timeout)
			if err != nil {
				return err
			}
			return a.writeTable(cmd, a.settings.Output, outPath, table)
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&countries, "country", nil, "Country to include (repeatable, default All)")
	fs.StringArrayVar(&types, "type", nil, "Policy type to include (repeatable, default All)")
	fs.StringArrayVar(&subTypes, "sub-type", nil, "Policy sub-type to include (repeatable, default All)")
	fs.StringArrayVar(&columns, "column", nil, "Replace the default column selection (repeatable)")
	fs.StringArrayVar(&addColumns, "add-column", nil, "Column to select in addition to the defaults (repeatable)")
	addDateFlags(fs, &dates)
	fs.BoolVar(&noOpenEnded, "no-open-ended", false, "Exclude policies without an end date")
	fs.BoolVar(&timeout, "timeout", false, "Bound the request and return no rows if it times out")
	fs.BoolVar(&legacyOverride, "legacy-type-overwrite", false, "Let a multi-valued sub-type filter replace a multi-valued type filter")
	fs.BoolVar(&dryRun, "dry-run", false, "Print the request URL instead of sending it")
	fs.StringVar(&outPath, "out", "", "Write output to a file instead of stdout")

	return cmd
}
