// Package persistence provides SQLite-based storage for finished games and
// their turn journals.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/soyu/internal/engine"
	"github.com/talgya/soyu/internal/ledger"
	"github.com/talgya/soyu/internal/project"
)

// DB wraps a SQLite connection for results history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		game_id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		state TEXT NOT NULL,
		reason TEXT NOT NULL,
		turns INTEGER NOT NULL,
		score REAL NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		final_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		resource TEXT NOT NULL,
		amount REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_score ON results(score DESC);
	CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id, turn);
	CREATE INDEX IF NOT EXISTS idx_transfers_game ON transfers(game_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type resultRow struct {
	GameID     string  `db:"game_id"`
	Project    string  `db:"project"`
	State      string  `db:"state"`
	Reason     string  `db:"reason"`
	Turns      int     `db:"turns"`
	Score      float64 `db:"score"`
	StartedAt  int64   `db:"started_at"`
	FinishedAt int64   `db:"finished_at"`
	FinalJSON  string  `db:"final_json"`
}

func (r resultRow) result() engine.Result {
	out := engine.Result{
		GameID:     r.GameID,
		Project:    r.Project,
		State:      r.State,
		Reason:     r.Reason,
		Turns:      r.Turns,
		Score:      r.Score,
		Started:    time.Unix(r.StartedAt, 0),
		FinishedAt: time.Unix(r.FinishedAt, 0),
	}
	var final project.Snapshot
	if err := json.Unmarshal([]byte(r.FinalJSON), &final); err == nil {
		out.Final = final
	}
	return out
}

// SaveResult records a finished game. Saving the same game twice replaces
// the earlier row.
func (db *DB) SaveResult(r engine.Result) error {
	finalJSON, err := json.Marshal(r.Final)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = db.conn.NamedExec(`INSERT OR REPLACE INTO results
		(game_id, project, state, reason, turns, score, started_at, finished_at, final_json)
		VALUES (:game_id, :project, :state, :reason, :turns, :score, :started_at, :finished_at, :final_json)`,
		resultRow{
			GameID:     r.GameID,
			Project:    r.Project,
			State:      r.State,
			Reason:     r.Reason,
			Turns:      r.Turns,
			Score:      r.Score,
			StartedAt:  r.Started.Unix(),
			FinishedAt: r.FinishedAt.Unix(),
			FinalJSON:  string(finalJSON),
		})
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.GameID, err)
	}
	slog.Info("result saved", "game", r.GameID, "state", r.State, "score", r.Score)
	return nil
}

// TopResults returns the best-scoring finished games.
func (db *DB) TopResults(limit int) ([]engine.Result, error) {
	var rows []resultRow
	err := db.conn.Select(&rows,
		"SELECT * FROM results ORDER BY score DESC, finished_at ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]engine.Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.result())
	}
	return out, nil
}

// GetResult loads a single game's result.
func (db *DB) GetResult(gameID string) (engine.Result, error) {
	var row resultRow
	if err := db.conn.Get(&row, "SELECT * FROM results WHERE game_id = ?", gameID); err != nil {
		return engine.Result{}, err
	}
	return row.result(), nil
}

// SaveEvents appends a game's events to the journal.
func (db *DB) SaveEvents(gameID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (game_id, turn, description, category) VALUES (?, ?, ?, ?)",
			gameID, e.Turn, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns a game's most recent N events, newest first.
func (db *DB) RecentEvents(gameID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events WHERE game_id = ? ORDER BY id DESC LIMIT ?",
		gameID, limit,
	)
	return events, err
}

// SaveTransfers writes a game's ledger history. Transfers already stored are
// skipped, so the whole history can be saved again at the end of a game.
func (db *DB) SaveTransfers(gameID string, transfers []ledger.Transfer) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO transfers
		(id, game_id, turn, source, target, resource, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range transfers {
		if _, err := stmt.Exec(t.ID, gameID, t.Turn, t.From, t.To, t.Resource, t.Amount); err != nil {
			return fmt.Errorf("insert transfer %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// Transfers returns a game's ledger history in the order it happened.
func (db *DB) Transfers(gameID string) ([]ledger.Transfer, error) {
	var out []ledger.Transfer
	err := db.conn.Select(&out,
		"SELECT id, turn, source, target, resource, amount FROM transfers WHERE game_id = ? ORDER BY turn, id",
		gameID,
	)
	return out, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SaveGame performs a full save of a finished game: result, remaining
// events and the ledger history.
func (db *DB) SaveGame(g *engine.Game) error {
	r := g.Result()
	slog.Info("saving game", "game", r.GameID, "turns", r.Turns, "transfers", len(g.Ledger.Transfers()))

	if err := db.SaveResult(r); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if err := db.SaveTransfers(r.GameID, g.Ledger.Transfers()); err != nil {
		return fmt.Errorf("save transfers: %w", err)
	}
	if err := db.SaveMeta("last_project", r.Project); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}
