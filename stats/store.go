package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/markotdel/adguardvpn-gui/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily (
	day      TEXT PRIMARY KEY,
	rx_bytes INTEGER NOT NULL DEFAULT 0,
	tx_bytes INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	location     TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	ended_at     INTEGER,
	rx_bytes     INTEGER NOT NULL DEFAULT 0,
	tx_bytes     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS sessions_started_at ON sessions(started_at);
`

// DayTotal is the accumulated traffic for one calendar day.
type DayTotal struct {
	Day string // YYYY-MM-DD, local time
	RX  int64
	TX  int64
}

// Session is one connect/disconnect cycle.
type Session struct {
	ID        string
	Location  string
	StartedAt time.Time
	EndedAt   time.Time // zero while the session is open
	RX        int64
	TX        int64
}

// Store persists traffic totals to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the stats database at path. An empty
// path means the default location in the user's data directory.
func Open(path string) (*Store, error) {
	if path == "" {
		dir, err := common.GetDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, common.StatsFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating stats directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening stats database: %w", err)
	}
	// The GUI is the only writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating stats schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddTraffic adds a traffic delta to the given day's totals.
func (s *Store) AddTraffic(day string, rx, tx int64) error {
	_, err := s.db.Exec(`
		INSERT INTO daily (day, rx_bytes, tx_bytes) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			rx_bytes = rx_bytes + excluded.rx_bytes,
			tx_bytes = tx_bytes + excluded.tx_bytes`,
		day, rx, tx)
	if err != nil {
		return fmt.Errorf("recording traffic: %w", err)
	}
	return nil
}

// DayTotal returns the totals for one day. A day with no traffic returns
// zeros, not an error.
func (s *Store) DayTotal(day string) (DayTotal, error) {
	t := DayTotal{Day: day}
	err := s.db.QueryRow(
		`SELECT rx_bytes, tx_bytes FROM daily WHERE day = ?`, day).
		Scan(&t.RX, &t.TX)
	if err == sql.ErrNoRows {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("reading day total: %w", err)
	}
	return t, nil
}

// History returns up to n days of totals, newest first.
func (s *Store) History(n int) ([]DayTotal, error) {
	rows, err := s.db.Query(
		`SELECT day, rx_bytes, tx_bytes FROM daily ORDER BY day DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var out []DayTotal
	for rows.Next() {
		var t DayTotal
		if err := rows.Scan(&t.Day, &t.RX, &t.TX); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// BeginSession records the start of a connection and returns its id.
func (s *Store) BeginSession(location string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, location, started_at) VALUES (?, ?, ?)`,
		id, location, startedAt.Unix())
	if err != nil {
		return "", fmt.Errorf("recording session start: %w", err)
	}
	return id, nil
}

// EndSession closes a session with its final traffic totals.
func (s *Store) EndSession(id string, endedAt time.Time, rx, tx int64) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ?, rx_bytes = ?, tx_bytes = ? WHERE id = ?`,
		endedAt.Unix(), rx, tx, id)
	if err != nil {
		return fmt.Errorf("recording session end: %w", err)
	}
	return nil
}

// RecentSessions returns up to n sessions, newest first.
func (s *Store) RecentSessions(n int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, location, started_at, ended_at, rx_bytes, tx_bytes
		FROM sessions ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess    Session
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &sess.Location, &started, &ended, &sess.RX, &sess.TX); err != nil {
			return nil, err
		}
		sess.StartedAt = time.Unix(started, 0)
		if ended.Valid {
			sess.EndedAt = time.Unix(ended.Int64, 0)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Today returns the current day key in local time.
func Today() string {
	return time.Now().Format("2006-01-02")
}
