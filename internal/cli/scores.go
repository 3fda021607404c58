package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/policycat/internal/client"
	"github.com/vegasq/policycat/internal/query"
)

func newScoresCmd(a *app) *cobra.Command {
	var (
		countries  []string
		indexTypes []string
		dates      dateFlags
		timeout    bool
		dryRun     bool
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Fetch policy intensity scores",
		Example: `  policycat scores --country Japan --index-type "Mask Policies"
  policycat scores --from 2020-03-01 --to 2020-06-30 -o parquet --out scores.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := query.DefaultScoreQuery()
			q.Countries = query.Select(countries...)
			q.IndexTypes = query.Select(indexTypes...)
			q.From, q.To = dates.from, dates.to

			if dryRun {
				filter, err := q.Compile()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), client.BuildURL(a.client.BaseURL(), client.ResourceScores, filter))
				return err
			}

			table, err := a.client.GetPolicyScores(cmd.Context(), q, timeout)
			if err != nil {
				return err
			}
			return a.writeTable(cmd, a.settings.Output, outPath, table)
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&countries, "country", nil, "Country to include (repeatable, default All)")
	fs.StringArrayVar(&indexTypes, "index-type", nil, "Index type to include (repeatable, default All)")
	addDateFlags(fs, &dates)
	fs.BoolVar(&timeout, "timeout", false, "Bound the request and return no rows if it times out")
	fs.BoolVar(&dryRun, "dry-run", false, "Print the request URL instead of sending it")
	fs.StringVar(&outPath, "out", "", "Write output to a file instead of stdout")

	return cmd
}
