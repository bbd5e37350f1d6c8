package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists session history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives only as long as its single connection.
	db.SetMaxOpenConns(1)

	// WAL mode so reports can be read while the service writes.
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
		`CREATE TABLE IF NOT EXISTS analysis_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			range_start INTEGER,
			range_end   INTEGER,
			weekly      INTEGER,
			indicators  TEXT,
			row_count   INTEGER,
			last_close  REAL,
			change_pct  REAL,
			values_json TEXT,
			source      TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ts ON analysis_sessions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_symbol ON analysis_sessions(symbol)`,

		`CREATE TABLE IF NOT EXISTS session_failures (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT,
			range_start INTEGER,
			range_end   INTEGER,
			stage       TEXT,
			error       TEXT,
			source      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON session_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSession(rec *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// JSON has no NaN; undefined readings are simply left out.
	values := make(map[string]float64, len(rec.Values))
	for k, v := range rec.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			values[k] = v
		}
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO analysis_sessions
		(timestamp, symbol, range_start, range_end, weekly, indicators,
		 row_count, last_close, change_pct, values_json, source, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		stamp(rec.RecordedAt), rec.Symbol, rec.Start.Unix(), rec.End.Unix(), rec.Weekly,
		strings.Join(rec.Indicators, ","), rec.Rows, rec.LastClose, rec.ChangePct,
		string(valuesJSON), rec.Trigger, rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(rec *FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO session_failures
		(timestamp, symbol, range_start, range_end, stage, error, source)
		VALUES (?,?,?,?,?,?,?)`,
		stamp(rec.RecordedAt), rec.Symbol, rec.Start.Unix(), rec.End.Unix(),
		rec.Stage, rec.Error, rec.Trigger,
	)
	return err
}

// RecentSessions returns the latest sessions, newest first.
func (r *SQLiteRecorder) RecentSessions(limit int) ([]SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT timestamp, symbol, range_start, range_end, weekly, indicators,
		row_count, last_close, change_pct, values_json, source, duration_ms
		FROM analysis_sessions ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec                  SessionRecord
			ts, start, end, ms   int64
			indicators, valuesJS string
		)
		if err := rows.Scan(&ts, &rec.Symbol, &start, &end, &rec.Weekly, &indicators,
			&rec.Rows, &rec.LastClose, &rec.ChangePct, &valuesJS, &rec.Trigger, &ms); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.RecordedAt = time.Unix(ts, 0)
		rec.Start = time.Unix(start, 0)
		rec.End = time.Unix(end, 0)
		rec.Duration = time.Duration(ms) * time.Millisecond
		if indicators != "" {
			rec.Indicators = strings.Split(indicators, ",")
		}
		if err := json.Unmarshal([]byte(valuesJS), &rec.Values); err != nil {
			return nil, fmt.Errorf("decode values: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}
