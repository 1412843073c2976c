package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/skillgate/skillgate/internal/engine"
	"github.com/skillgate/skillgate/internal/logger"
)

// Journal is an optional durability aid for the session log. The tracker
// works identically without one; a journal only enables post-session
// audit and state carry-over for per-invocation hosts.
type Journal interface {
	AppendEdit(sessionID string, e Edit) error
	RecordCheck(sessionID, name string) error
	MarkSurfaced(sessionID string) error
	Close() error
}

// SessionInfo summarizes one journaled session
type SessionInfo struct {
	SessionID  string
	StartedAt  time.Time
	LastEditAt time.Time
	Edits      int
}

// SQLiteJournal implements Journal backed by a local SQLite database
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenJournal opens (creating if needed) the journal database. An empty
// path defaults to ~/.skillgate/journal.db.
func OpenJournal(dbPath string) (*SQLiteJournal, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ".skillgate", "journal.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	logger.Debug().Str("path", dbPath).Msg("Opened session journal")
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		last_edit_at INTEGER NOT NULL,
		surfaced_through INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS edits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		path TEXT NOT NULL,
		operation TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS checks (
		session_id TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (session_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_edits_session ON edits(session_id, timestamp);
	`

	_, err := j.db.Exec(schema)
	return err
}

// AppendEdit records one edit, creating the session row on first use
func (j *SQLiteJournal) AppendEdit(sessionID string, e Edit) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := e.At.Unix()

	_, err := j.db.Exec(
		`INSERT INTO sessions (session_id, started_at, last_edit_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET last_edit_at = excluded.last_edit_at`,
		sessionID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	_, err = j.db.Exec(
		`INSERT INTO edits (session_id, path, operation, timestamp) VALUES (?, ?, ?, ?)`,
		sessionID, e.Path, string(e.Op), now,
	)
	if err != nil {
		return fmt.Errorf("failed to append edit: %w", err)
	}

	return nil
}

// RecordCheck records a pending check category for a session
func (j *SQLiteJournal) RecordCheck(sessionID, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(
		`INSERT OR IGNORE INTO checks (session_id, name) VALUES (?, ?)`,
		sessionID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}
	return nil
}

// MarkSurfaced records that every edit journaled so far has had its
// checks surfaced, resetting the restored throttle count to zero
func (j *SQLiteJournal) MarkSurfaced(sessionID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(
		`UPDATE sessions
		 SET surfaced_through = (SELECT COUNT(*) FROM edits WHERE session_id = ?)
		 WHERE session_id = ?`,
		sessionID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark surfaced: %w", err)
	}
	return nil
}

// LoadLog rebuilds a session log from the journal
func (j *SQLiteJournal) LoadLog(sessionID string) (Log, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	log := Log{SessionID: sessionID}

	rows, err := j.db.Query(
		`SELECT path, operation, timestamp FROM edits
		 WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return Log{}, fmt.Errorf("failed to load edits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e Edit
		var op string
		var ts int64
		if err := rows.Scan(&e.Path, &op, &ts); err != nil {
			return Log{}, fmt.Errorf("failed to scan edit: %w", err)
		}
		e.Op = engine.Operation(op)
		e.At = time.Unix(ts, 0)
		log.Edits = append(log.Edits, e)
	}
	if err := rows.Err(); err != nil {
		return Log{}, err
	}

	checkRows, err := j.db.Query(
		`SELECT name FROM checks WHERE session_id = ? ORDER BY name ASC`,
		sessionID,
	)
	if err != nil {
		return Log{}, fmt.Errorf("failed to load checks: %w", err)
	}
	defer func() { _ = checkRows.Close() }()

	for checkRows.Next() {
		var name string
		if err := checkRows.Scan(&name); err != nil {
			return Log{}, fmt.Errorf("failed to scan check: %w", err)
		}
		log.PendingChecks = append(log.PendingChecks, name)
	}
	if err := checkRows.Err(); err != nil {
		return Log{}, err
	}

	var surfacedThrough int
	err = j.db.QueryRow(
		`SELECT surfaced_through FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&surfacedThrough)
	if err != nil && err != sql.ErrNoRows {
		return Log{}, fmt.Errorf("failed to load surfaced marker: %w", err)
	}
	if n := len(log.Edits) - surfacedThrough; n > 0 {
		log.SinceSurfaced = n
	}

	return log, nil
}

// ListSessions returns journaled sessions ordered by last activity
func (j *SQLiteJournal) ListSessions() ([]SessionInfo, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT s.session_id, s.started_at, s.last_edit_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN edits e ON e.session_id = s.session_id
		 GROUP BY s.session_id
		 ORDER BY s.last_edit_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started, last int64
		if err := rows.Scan(&info.SessionID, &started, &last, &info.Edits); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		info.StartedAt = time.Unix(started, 0)
		info.LastEditAt = time.Unix(last, 0)
		sessions = append(sessions, info)
	}

	return sessions, rows.Err()
}

// DeleteSession removes a session and its edits and checks
func (j *SQLiteJournal) DeleteSession(sessionID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM edits WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete edits: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM checks WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete checks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return tx.Commit()
}

// Close closes the journal database
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
