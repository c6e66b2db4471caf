package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FibScope/internal/model"
)

// SQLiteRecorder persists build history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP server read history while a rebuild writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			source     TEXT,
			active     TEXT,
			degraded   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_ts ON builds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS timeframe_reports (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			build_id         TEXT NOT NULL REFERENCES builds(id),
			timeframe        TEXT NOT NULL,
			bars             INTEGER,
			gaps             INTEGER,
			swing_high_index INTEGER,
			swing_high_price REAL,
			swing_low_index  INTEGER,
			swing_low_price  REAL,
			selectable       INTEGER,
			error            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tf_build ON timeframe_reports(build_id)`,

		`CREATE TABLE IF NOT EXISTS fibonacci_levels (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			build_id  TEXT NOT NULL REFERENCES builds(id),
			timeframe TEXT NOT NULL,
			ratio     REAL,
			price     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_build ON fibonacci_levels(build_id, timeframe)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBuild(rec *BuildRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	degraded := 0
	for _, tf := range rec.Timeframes {
		if tf.Error != "" {
			degraded++
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO builds
		(id, timestamp, symbol, source, active, degraded)
		VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.BuiltAt.Unix(), rec.Symbol, rec.Source, string(rec.Active), degraded,
	); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	for _, tf := range rec.Timeframes {
		hiIdx, hiPrice := swingColumns(tf.SwingHigh)
		loIdx, loPrice := swingColumns(tf.SwingLow)
		if _, err := tx.Exec(`INSERT INTO timeframe_reports
			(build_id, timeframe, bars, gaps,
			 swing_high_index, swing_high_price, swing_low_index, swing_low_price,
			 selectable, error)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, string(tf.Timeframe), tf.Bars, tf.Gaps,
			hiIdx, hiPrice, loIdx, loPrice,
			tf.Selectable, tf.Error,
		); err != nil {
			return fmt.Errorf("insert %s report: %w", tf.Timeframe, err)
		}
		for _, lv := range tf.Levels {
			if _, err := tx.Exec(`INSERT INTO fibonacci_levels
				(build_id, timeframe, ratio, price)
				VALUES (?,?,?,?)`,
				rec.ID, string(tf.Timeframe), lv.Ratio, lv.Price,
			); err != nil {
				return fmt.Errorf("insert %s level: %w", tf.Timeframe, err)
			}
		}
	}
	return tx.Commit()
}

// swingColumns maps an unset swing to NULL columns.
func swingColumns(p *model.SwingPoint) (sql.NullInt64, sql.NullFloat64) {
	if p == nil {
		return sql.NullInt64{}, sql.NullFloat64{}
	}
	return sql.NullInt64{Int64: int64(p.Index), Valid: true}, sql.NullFloat64{Float64: p.Price, Valid: true}
}

func (r *SQLiteRecorder) RecentBuilds(limit int) ([]BuildSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, source, active, degraded
		FROM builds ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []BuildSummary
	for rows.Next() {
		var (
			s      BuildSummary
			ts     int64
			active string
		)
		if err := rows.Scan(&s.ID, &ts, &s.Symbol, &s.Source, &active, &s.Degraded); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		s.BuiltAt = time.Unix(ts, 0)
		s.Active = model.Timeframe(active)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Levels returns the Fibonacci grid stored for one timeframe of a build.
func (r *SQLiteRecorder) Levels(buildID string, tf model.Timeframe) ([]model.FibonacciLevel, error) {
	rows, err := r.db.Query(`SELECT ratio, price FROM fibonacci_levels
		WHERE build_id = ? AND timeframe = ? ORDER BY ratio`, buildID, string(tf))
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	defer rows.Close()

	var out []model.FibonacciLevel
	for rows.Next() {
		var lv model.FibonacciLevel
		if err := rows.Scan(&lv.Ratio, &lv.Price); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		out = append(out, lv)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
