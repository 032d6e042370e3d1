package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/persistence"
	"github.com/talgya/soyu/internal/tui"
)

func playCmd() *cobra.Command {
	var name string
	var budget float64
	var noSave bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// The TUI owns the terminal, so logs go next to the database.
			logPath := filepath.Join(filepath.Dir(cfg.DBPath), "soyu.log")
			if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
				return err
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer logFile.Close()
			setupLogging(logFile, cfg.LogLevel)

			g := engine.New(cfg.Game)
			if !noSave {
				db, err := openDB(cfg.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				journal(g, db)
			}

			if cmd.Flags().Changed("name") || cmd.Flags().Changed("budget") {
				if err := g.Setup(name, budget); err != nil {
					return err
				}
			}

			final, err := tea.NewProgram(tui.New(g), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if m, ok := final.(tui.Model); ok {
				printOutcome(cmd.OutOrStdout(), m.Game())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (skips the setup screen)")
	cmd.Flags().Float64Var(&budget, "budget", 1000, "project budget taken from your wallet")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the result")
	return cmd
}

func printOutcome(out io.Writer, g *engine.Game) {
	if st := g.State(); st.Terminal() {
		o := g.Outcome()
		fmt.Fprintf(out, "%s after %d turns, score %.2f\n", st, o.Turn, o.Score)
	}
}

// journal wires a game's hooks to the results database.
func journal(g *engine.Game, db *persistence.DB) {
	g.OnTurn = func(o engine.Outcome, events []engine.Event) {
		if err := db.SaveEvents(g.ID, events); err != nil {
			slog.Error("failed to save events", "turn", o.Turn, "error", err)
		}
	}
	g.OnFinish = func(o engine.Outcome) {
		if err := db.SaveGame(g); err != nil {
			slog.Error("failed to save game", "game", g.ID, "error", err)
		}
	}
}
