package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/progression"
	"github.com/talgya/soyu/internal/project"
	"github.com/talgya/soyu/internal/staff"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	hireColor    = color.New(color.FgCyan)
	mutedColor   = color.New(color.FgHiBlack)
)

func simulateCmd() *cobra.Command {
	var (
		name   string
		budget float64
		hires  []string
		turns  int
		save   bool
		quiet  bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a scripted game without the TUI",
		Example: `  soyu simulate --budget 2000 --hire student-developer@1 --hire senior-developer@3 --turns 50
  soyu simulate --hire genius-developer@1 --hire project-manager@12 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(os.Stderr, cfg.LogLevel)

			p, err := parsePlan(hires)
			if err != nil {
				return err
			}

			g := engine.New(cfg.Game)
			if save {
				db, err := openDB(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				journal(g, db)
			}
			if err := g.Setup(name, budget); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := runSimulation(g, p, turns, out, quiet); err != nil {
				return err
			}
			printFinal(out, g)
			printAccounts(out, g)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Simulation", "project name")
	cmd.Flags().Float64Var(&budget, "budget", 1000, "project budget taken from your wallet")
	cmd.Flags().StringArrayVar(&hires, "hire", nil, "schedule a hire as <archetype>@<turn> (repeatable)")
	cmd.Flags().IntVar(&turns, "turns", 100, "maximum number of turns")
	cmd.Flags().BoolVar(&save, "save", false, "record the result in the database")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final table")
	return cmd
}

// runSimulation plays up to maxTurns turns following the plan. A game whose
// features reach zero is declared won at the end of that turn.
func runSimulation(g *engine.Game, p plan, maxTurns int, out io.Writer, quiet bool) error {
	for turn := 1; turn <= maxTurns; turn++ {
		if id := p.choice(turn); id != nil {
			actor, r, err := g.Hire(*id)
			if err != nil {
				return err
			}
			switch {
			case r != progression.Accepted:
				if !quiet {
					failColor.Fprintf(out, "turn %d: cannot hire %s: %s\n", turn, *id, r)
				}
			case !quiet:
				hireColor.Fprintf(out, "turn %d: hired %s ($%s/turn)\n", turn, actor.Label(), humanize.Ftoa(actor.Cost()))
			}
		}

		o, err := g.Advance()
		if err != nil {
			return err
		}
		if !quiet {
			mutedColor.Fprintf(out, "%4d ", o.Turn)
			fmt.Fprintln(out, g.Project().String())
		}

		if o.State == engine.Over {
			failColor.Fprintf(out, "Game over after %d turns: %s\n", o.Turn, o.Err())
			return nil
		}
		if g.DeclareVictory() {
			successColor.Fprintf(out, "✓ %s shipped after %d turns\n", g.Project().Name, o.Turn)
			return nil
		}
	}
	slog.Info("simulation stopped", "turns", maxTurns, "state", g.State())
	return nil
}

func printFinal(out io.Writer, g *engine.Game) {
	p := g.Project()
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Metric", "Value"}),
	)
	table.Append([]string{"State", g.State().String()})
	table.Append([]string{"Turns", fmt.Sprintf("%d", g.Ledger.TurnCount())})
	table.Append([]string{"Wallet", "$" + humanize.CommafWithDigits(g.Boss().Money(), 2)})
	table.Append([]string{"Budget", "$" + humanize.CommafWithDigits(p.Money(), 2)})
	table.Append([]string{"Productivity", fmt.Sprintf("%.1f%%", p.Productivity()*100)})
	for _, m := range project.AllMetrics() {
		table.Append([]string{m.Label(), humanize.FtoaWithDigits(p.Get(m), 2)})
	}
	for _, h := range g.Gate.Holdings() {
		table.Append([]string{h.Label, fmt.Sprintf("%d", h.Amount)})
	}
	table.Append([]string{"Score", fmt.Sprintf("%.2f", p.Score())})
	table.Render()
}

// printAccounts lists every ledger account held by the boss and the staff,
// with who pays its upkeep.
func printAccounts(out io.Writer, g *engine.Game) {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Account", "Who", "Upkeep", "Paid from", "Balances"}),
	)
	actors := append([]*staff.Actor{g.Boss()}, g.Roster()...)
	for _, a := range actors {
		paidFrom := g.Project().Account().Name
		if a.FundsFromSelf() {
			paidFrom = a.Account.Name
		}
		var balances []string
		for _, r := range a.Account.Resources() {
			balances = append(balances, fmt.Sprintf("%s=%s", r, humanize.FtoaWithDigits(a.Account.Balance(r), 2)))
		}
		table.Append([]string{
			a.Account.Name,
			a.Label(),
			"$" + humanize.Ftoa(a.Cost()),
			paidFrom,
			strings.Join(balances, " "),
		})
	}
	table.Render()
}
