package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/ledger"
	"github.com/talgya/soyu/internal/persistence"
)

func scoresCmd() *cobra.Command {
	var limit int
	var gameID string
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the best finished games",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if gameID != "" {
				return showGame(cmd.OutOrStdout(), db, gameID, limit)
			}

			return listScores(cmd.OutOrStdout(), db, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of rows")
	cmd.Flags().StringVar(&gameID, "game", "", "show the result, ledger and events of one game instead")
	return cmd
}

func listScores(out io.Writer, db *persistence.DB, limit int) error {
	results, err := db.TopResults(limit)
	if err != nil {
		return err
	}
	if last, err := db.GetMeta("last_project"); err == nil {
		fmt.Fprintf(out, "Last project: %s\n", last)
	}
	printScores(out, results)
	return nil
}

// showGame prints one saved game: its result, its ledger journal and its
// most recent events. Games that never finished have no result row.
func showGame(out io.Writer, db *persistence.DB, gameID string, limit int) error {
	r, err := db.GetResult(gameID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		fmt.Fprintf(out, "No result recorded for %s\n", gameID)
	case err != nil:
		return fmt.Errorf("load result: %w", err)
	default:
		printResult(out, r)
	}

	transfers, err := db.Transfers(gameID)
	if err != nil {
		return fmt.Errorf("load transfers: %w", err)
	}
	if len(transfers) > 0 {
		printTransfers(out, transfers)
	}

	events, err := db.RecentEvents(gameID, limit)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	printEvents(out, events)
	return nil
}

func printResult(out io.Writer, r engine.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(r.Project)
	outcome := r.State
	if r.Reason != "" {
		outcome = fmt.Sprintf("%s (%s)", r.State, r.Reason)
	}
	tw.AppendRow(table.Row{"Result", outcome})
	tw.AppendRow(table.Row{"Turns", r.Turns})
	tw.AppendRow(table.Row{"Score", fmt.Sprintf("%.2f", r.Score)})
	tw.AppendRow(table.Row{"Budget left", "$" + humanize.CommafWithDigits(r.Final.Money, 2)})
	tw.AppendRow(table.Row{"Played", fmt.Sprintf("%s, for %s", humanize.Time(r.Started), r.FinishedAt.Sub(r.Started))})
	tw.AppendRow(table.Row{"Game", r.GameID})
	tw.Render()
}

func printTransfers(out io.Writer, transfers []ledger.Transfer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Turn", "From", "To", "Resource", "Amount"})
	for _, t := range transfers {
		tw.AppendRow(table.Row{t.Turn, t.From, t.To, t.Resource, humanize.FtoaWithDigits(t.Amount, 2)})
	}
	tw.Render()
}

func printScores(out io.Writer, results []engine.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"#", "Project", "Result", "Turns", "Score", "Finished", "Game"})
	for i, r := range results {
		outcome := r.State
		if r.Reason != "" {
			outcome = fmt.Sprintf("%s (%s)", r.State, r.Reason)
		}
		tw.AppendRow(table.Row{
			i + 1,
			r.Project,
			outcome,
			r.Turns,
			fmt.Sprintf("%.2f", r.Score),
			humanize.Time(r.FinishedAt),
			r.GameID,
		})
	}
	tw.Render()
}

func printEvents(out io.Writer, events []engine.Event) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Turn", "Category", "Event"})
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		tw.AppendRow(table.Row{e.Turn, e.Category, e.Description})
	}
	tw.Render()
}
