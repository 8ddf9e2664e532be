// Package persistence provides SQLite-based storage for generation
// statistics. Generated maps themselves are never stored.
package persistence

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexconquest/internal/mapgen"
)

// DB wraps a SQLite connection for generation statistics.
type DB struct {
	conn *sqlx.DB
}

// Generation is one recorded generation run.
type Generation struct {
	ID          string    `db:"id" json:"id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Size        string    `db:"size" json:"size"`
	Rows        int       `db:"grid_rows" json:"rows"`
	Columns     int       `db:"grid_columns" json:"columns"`
	Players     int       `db:"players" json:"players"`
	Holes       int       `db:"holes" json:"holes"`
	Pruned      int       `db:"pruned" json:"pruned"`
	LinksAdded  int       `db:"links_added" json:"links_added"`
	Repair      string    `db:"repair" json:"repair"`
	Seated      int       `db:"seated" json:"seated"`
	Amplified   int       `db:"amplified" json:"amplified"`
	FailedDraws int       `db:"failed_draws" json:"failed_draws"`
	ElapsedUS   int64     `db:"elapsed_us" json:"elapsed_us"`
}

// FromReport converts a generation report into a storable row.
func FromReport(size string, r mapgen.Report) Generation {
	return Generation{
		ID:          r.ID,
		CreatedAt:   time.Now().UTC(),
		Size:        size,
		Rows:        r.Rows,
		Columns:     r.Columns,
		Players:     r.Players,
		Holes:       r.Holes,
		Pruned:      r.Pruned,
		LinksAdded:  r.LinksAdded,
		Repair:      r.Repair.String(),
		Seated:      r.Seated,
		Amplified:   r.Amplified,
		FailedDraws: r.FailedDraws,
		ElapsedUS:   r.Duration.Microseconds(),
	}
}

// Summary aggregates all recorded generations.
type Summary struct {
	Total        int     `db:"total" json:"total"`
	AvgHoles     float64 `db:"avg_holes" json:"avg_holes"`
	AvgPruned    float64 `db:"avg_pruned" json:"avg_pruned"`
	RepairFailed int     `db:"repair_failed" json:"repair_failed"`
	Underseated  int     `db:"underseated" json:"underseated"`
	AvgElapsedUS float64 `db:"avg_elapsed_us" json:"avg_elapsed_us"`
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
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		size TEXT NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_columns INTEGER NOT NULL,
		players INTEGER NOT NULL,
		holes INTEGER NOT NULL,
		pruned INTEGER NOT NULL,
		links_added INTEGER NOT NULL,
		repair TEXT NOT NULL,
		seated INTEGER NOT NULL,
		amplified INTEGER NOT NULL,
		failed_draws INTEGER NOT NULL,
		elapsed_us INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS server_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordGeneration appends one generation run.
func (db *DB) RecordGeneration(g Generation) error {
	_, err := db.conn.NamedExec(`INSERT INTO generations
		(id, created_at, size, grid_rows, grid_columns, players, holes, pruned, links_added,
		 repair, seated, amplified, failed_draws, elapsed_us)
		VALUES (:id, :created_at, :size, :grid_rows, :grid_columns, :players, :holes, :pruned,
		 :links_added, :repair, :seated, :amplified, :failed_draws, :elapsed_us)`, g)
	if err != nil {
		return fmt.Errorf("insert generation %s: %w", g.ID, err)
	}
	return nil
}

// Recent returns the most recent N generations, newest first.
func (db *DB) Recent(limit int) ([]Generation, error) {
	var gens []Generation
	err := db.conn.Select(&gens,
		`SELECT id, created_at, size, grid_rows, grid_columns, players, holes, pruned, links_added,
		        repair, seated, amplified, failed_draws, elapsed_us
		 FROM generations ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	return gens, err
}

// Summary aggregates every recorded generation.
func (db *DB) Summary() (Summary, error) {
	var s Summary
	err := db.conn.Get(&s, `SELECT
		COUNT(*) AS total,
		COALESCE(AVG(holes), 0) AS avg_holes,
		COALESCE(AVG(pruned), 0) AS avg_pruned,
		COALESCE(SUM(CASE WHEN repair != 'ok' THEN 1 ELSE 0 END), 0) AS repair_failed,
		COALESCE(SUM(CASE WHEN seated < players THEN 1 ELSE 0 END), 0) AS underseated,
		COALESCE(AVG(elapsed_us), 0) AS avg_elapsed_us
		FROM generations`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize generations: %w", err)
	}
	return s, nil
}

// SaveMeta stores a key-value pair in server metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO server_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM server_meta WHERE key = ?", key)
	return value, err
}
