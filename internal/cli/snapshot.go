package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/policycat/internal/query"
	"github.com/vegasq/policycat/internal/reader"
)

// Snapshot file names written by the snapshot command.
const (
	EventsSnapshot = "events.parquet"
	ScoresSnapshot = "scores.parquet"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		countries []string
		dates     dateFlags
		timeout   bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot DIR",
		Short: "Download events and intensity scores as Parquet files",
		Long: `Download policy events and intensity scores for the same countries and
date range into DIR/events.parquet and DIR/scores.parquet. Both requests run
concurrently. A resource that times out under --timeout is skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create snapshot dir: %w", err)
			}

			events := query.DefaultEventQuery()
			events.Countries = query.Select(countries...)
			events.Dates.From, events.Dates.To = dates.from, dates.to

			scores := query.DefaultScoreQuery()
			scores.Countries = query.Select(countries...)
			scores.From, scores.To = dates.from, dates.to

			var eventsTable, scoresTable *reader.Table
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				eventsTable, err = a.client.GetEvents(ctx, events, timeout)
				return err
			})
			g.Go(func() error {
				var err error
				scoresTable, err = a.client.GetPolicyScores(ctx, scores, timeout)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			snapshots := []struct {
				name  string
				table *reader.Table
			}{
				{EventsSnapshot, eventsTable},
				{ScoresSnapshot, scoresTable},
			}
			for _, s := range snapshots {
				name, table := s.name, s.table
				if table.IsEmpty() {
					a.logger.Warn().Str("file", name).Msg("no data received, snapshot skipped")
					continue
				}
				path := filepath.Join(dir, name)
				if err := a.writeTable(cmd, "parquet", path, table); err != nil {
					return err
				}
				a.logger.Info().Str("file", path).Int("rows", table.Len()).Msg("snapshot written")
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVar(&countries, "country", nil, "Country to include (repeatable, default All)")
	addDateFlags(fs, &dates)
	fs.BoolVar(&timeout, "timeout", false, "Bound each request and skip resources that time out")

	return cmd
}
