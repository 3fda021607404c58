package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/policycat/internal/reader"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		limit      int
		outPath    string
		schemaOnly bool
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Render a saved .parquet or .csv snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}
			if schemaOnly {
				infos, err := reader.ExtractSchemaInfo(args[0])
				if err != nil {
					return err
				}
				return a.writeTable(cmd, a.settings.Output, outPath, reader.SchemaTable(infos))
			}

			table, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}
			if limit > 0 && len(table.Rows) > limit {
				table.Rows = table.Rows[:limit]
			}
			return a.writeTable(cmd, a.settings.Output, outPath, table)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Limit number of rows (0 = unlimited)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolVar(&schemaOnly, "schema", false, "Show the Parquet schema instead of the rows")

	return cmd
}
