// Package persistence provides the SQLite production ledger: one row per run
// and periodic production stats rows. It records history only and is never
// used to restore a world.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/herbworks/internal/engine"
)

// DefaultHistoryLimit caps StatsHistory when no limit is given.
const DefaultHistoryLimit = 500

// DB wraps a SQLite connection for the production ledger.
type DB struct {
	conn *sqlx.DB
}

// Run describes one daemon run.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	Width     int    `db:"width" json:"width"`
	Height    int    `db:"height" json:"height"`
	StartedAt int64  `db:"started_at" json:"started_at"` // unix seconds
}

// StatsRow is one recorded production snapshot.
type StatsRow struct {
	RunID          string `db:"run_id" json:"run_id"`
	Tick           uint64 `db:"tick" json:"tick"`
	Nodes          int    `db:"nodes" json:"nodes"`
	DepletedNodes  int    `db:"depleted_nodes" json:"depleted_nodes"`
	TotalYield     int    `db:"total_yield" json:"total_yield"`
	Buildings      int    `db:"buildings" json:"buildings"`
	ItemsHeld      int    `db:"items_held" json:"items_held"`
	HarvestedTotal int    `db:"harvested_total" json:"harvested_total"`
	DriedTotal     int    `db:"dried_total" json:"dried_total"`
	ConveyorMoves  int    `db:"conveyor_moves" json:"conveyor_moves"`
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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS production_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		depleted_nodes INTEGER NOT NULL,
		total_yield INTEGER NOT NULL,
		buildings INTEGER NOT NULL,
		items_held INTEGER NOT NULL,
		harvested_total INTEGER NOT NULL,
		dried_total INTEGER NOT NULL,
		conveyor_moves INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stats_run_tick ON production_stats(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers a new run and returns its id.
func (db *DB) StartRun(seed int64, width, height int) (string, error) {
	run := Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		Width:     width,
		Height:    height,
		StartedAt: time.Now().Unix(),
	}
	_, err := db.conn.NamedExec(`INSERT INTO runs (id, seed, width, height, started_at)
		VALUES (:id, :seed, :width, :height, :started_at)`, run)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// GetRun loads a run by id.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT id, seed, width, height, started_at FROM runs WHERE id = ?", id)
	return run, err
}

// RecordStats appends a stats row for the run.
func (db *DB) RecordStats(runID string, st engine.SimStats) error {
	row := StatsRow{
		RunID:          runID,
		Tick:           st.Tick,
		Nodes:          st.Nodes,
		DepletedNodes:  st.DepletedNodes,
		TotalYield:     st.TotalYield,
		Buildings:      st.Buildings,
		ItemsHeld:      st.ItemsHeld,
		HarvestedTotal: st.Production.Harvested,
		DriedTotal:     st.Production.Dried,
		ConveyorMoves:  st.Production.ConveyorMoves,
	}
	_, err := db.conn.NamedExec(`INSERT INTO production_stats
		(run_id, tick, nodes, depleted_nodes, total_yield, buildings, items_held,
		 harvested_total, dried_total, conveyor_moves)
		VALUES (:run_id, :tick, :nodes, :depleted_nodes, :total_yield, :buildings, :items_held,
		 :harvested_total, :dried_total, :conveyor_moves)`, row)
	if err != nil {
		return fmt.Errorf("insert stats tick %d: %w", st.Tick, err)
	}
	return nil
}

// StatsHistory returns rows for a run with from <= tick <= to, oldest first.
// to == 0 means no upper bound.
func (db *DB) StatsHistory(runID string, from, to uint64, limit int) ([]StatsRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	query := `SELECT run_id, tick, nodes, depleted_nodes, total_yield, buildings, items_held,
		harvested_total, dried_total, conveyor_moves
		FROM production_stats WHERE run_id = ? AND tick >= ?`
	args := []any{runID, from}
	if to > 0 {
		query += " AND tick <= ?"
		args = append(args, to)
	}
	query += " ORDER BY tick ASC, id ASC LIMIT ?"
	args = append(args, limit)

	rows := []StatsRow{}
	if err := db.conn.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stats: %w", err)
	}
	return rows, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
