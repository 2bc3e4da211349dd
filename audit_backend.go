// audit_backend.go: Storage for the parameter change journal
//
// Two journal kinds exist. SQLite (WAL mode, versioned schema) is the
// default; a path ending in .jsonl keeps one JSON object per line. When
// the database cannot be opened the journal moves to a .jsonl file next
// to it.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// journalTimeLayout is fixed-width so stored timestamps sort as text.
const journalTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// changeJournal stores batches of audit events.
type changeJournal interface {
	Write(events []AuditEvent) error
	Flush() error
	Maintenance() error
	GetStats() (*AuditStats, error)
	Close() error
}

// AuditStats summarises an audit journal.
type AuditStats struct {
	TotalEvents    int64            `json:"total_events" yaml:"total_events"`
	Sessions       int64            `json:"sessions" yaml:"sessions"`
	EventsByLevel  map[string]int64 `json:"events_by_level" yaml:"events_by_level"`
	EventsByParam  map[string]int64 `json:"events_by_param" yaml:"events_by_param"`
	EventsBySource map[string]int64 `json:"events_by_source" yaml:"events_by_source"`
	OldestEvent    *time.Time       `json:"oldest_event,omitempty" yaml:"oldest_event,omitempty"`
	NewestEvent    *time.Time       `json:"newest_event,omitempty" yaml:"newest_event,omitempty"`
	DatabaseSize   int64            `json:"database_size_bytes" yaml:"database_size_bytes"`
	SchemaVersion  int              `json:"schema_version" yaml:"schema_version"`
}

func newAuditStats() *AuditStats {
	return &AuditStats{
		EventsByLevel:  make(map[string]int64),
		EventsByParam:  make(map[string]int64),
		EventsBySource: make(map[string]int64),
	}
}

// count adds one event to the per-column tallies.
func (s *AuditStats) count(ev AuditEvent) {
	s.TotalEvents++
	s.EventsByLevel[ev.Level.String()]++
	s.EventsByParam[ev.Param]++
	s.EventsBySource[ev.Source]++
}

// openJournal picks JSONL for .jsonl paths and SQLite otherwise.
func openJournal(config AuditConfig) (changeJournal, error) {
	if config.OutputFile != "" && filepath.Ext(config.OutputFile) == ".jsonl" {
		return openJSONLJournal(config.OutputFile)
	}

	journal, err := openSQLiteJournal(config)
	if err == nil {
		return journal, nil
	}

	dbPath := journalDBPath(config)
	fallback := strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".jsonl"
	logger().Warn("SQLite audit journal unavailable, using JSONL", "error", err, "path", fallback)
	lines, lineErr := openJSONLJournal(fallback)
	if lineErr != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "no audit journal could be opened").
			WithContext("sqlite_path", dbPath).
			WithContext("jsonl_error", lineErr.Error())
	}
	return lines, nil
}

// journalDBPath returns the database used for config.
func journalDBPath(config AuditConfig) string {
	if config.OutputFile != "" {
		return config.OutputFile
	}
	return DefaultAuditPath()
}

// sqliteJournal keeps events in an audit_events table.
type sqliteJournal struct {
	db            *sql.DB
	path          string
	retentionDays int
	insert        *sql.Stmt
	mu            sync.RWMutex
	closed        bool
}

func openSQLiteJournal(config AuditConfig) (*sqliteJournal, error) {
	path := journalDBPath(config)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot create audit journal directory").
			WithContext("path", path)
	}

	// WAL plus a busy timeout lets several processes share one journal.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite3", dsn)
	if err == nil {
		err = db.Ping()
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot open audit database").WithContext("path", path)
	}

	j := &sqliteJournal{db: db, path: path, retentionDays: config.RetentionDays}
	if j.retentionDays <= 0 {
		j.retentionDays = DefaultAuditConfig().RetentionDays
	}

	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot initialise audit schema").WithContext("path", path)
	}
	j.insert, err = db.Prepare(`
	INSERT INTO audit_events (
		timestamp, level, session_id, param, registry, source,
		setter, old_value, new_value, process_id, checksum
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot prepare audit insert").WithContext("path", path)
	}
	if err := j.expire(); err != nil {
		logger().Warn("audit journal maintenance failed", "path", path, "error", err)
	}
	return j, nil
}

const journalSchemaVersion = 2

// journalMigrations[i] brings the schema to version i+1.
//   - 1: audit_events with single column indexes
//   - 2: composite indexes for per-param and per-session history
var journalMigrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS audit_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			level TEXT NOT NULL,
			session_id TEXT NOT NULL,
			param TEXT NOT NULL,
			registry TEXT,
			source TEXT NOT NULL,
			setter TEXT,
			old_value TEXT,
			new_value TEXT,
			process_id INTEGER,
			checksum TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		"CREATE INDEX IF NOT EXISTS idx_events_timestamp ON audit_events(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_events_param ON audit_events(param)",
		"CREATE INDEX IF NOT EXISTS idx_events_source ON audit_events(source)",
		"CREATE INDEX IF NOT EXISTS idx_events_created ON audit_events(created_at)",
	},
	{
		"CREATE INDEX IF NOT EXISTS idx_events_param_ts ON audit_events(param, timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_events_session_ts ON audit_events(session_id, timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_events_level_created ON audit_events(level, created_at)",
	},
}

// migrate creates the schema or upgrades an older journal in one transaction.
func (j *sqliteJournal) migrate() error {
	if _, err := j.db.Exec(`CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER PRIMARY KEY,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return err
	}

	version, err := j.schemaVersion()
	if err != nil || version >= journalSchemaVersion {
		return err
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	for v := version; v < journalSchemaVersion; v++ {
		for _, stmt := range journalMigrations[v] {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration to v%d: %w", v+1, err)
			}
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_info (version, updated_at)
		VALUES (?, CURRENT_TIMESTAMP)`, journalSchemaVersion); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (j *sqliteJournal) schemaVersion() (int, error) {
	// MAX over an empty table is NULL.
	var v sql.NullInt64
	if err := j.db.QueryRow("SELECT MAX(version) FROM schema_info").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// expire deletes events older than the retention period and lets SQLite
// tidy up afterwards.
func (j *sqliteJournal) expire() error {
	result, err := j.db.Exec(`DELETE FROM audit_events
		WHERE created_at < datetime('now', '-' || ? || ' days')`, j.retentionDays)
	if err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot expire old audit events")
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		logger().Info("expired audit events removed", "count", n, "path", j.path)
	}

	for _, pragma := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(FULL)"} {
		if _, err := j.db.Exec(pragma); err != nil {
			logger().Debug("audit journal pragma failed", "pragma", pragma, "error", err)
		}
	}
	return nil
}

// Write stores events in a single transaction.
func (j *sqliteJournal) Write(events []AuditEvent) (err error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return errors.New(ErrCodeAuditError, "audit journal is closed").WithContext("path", j.path)
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot start audit transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt := tx.Stmt(j.insert)
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		if _, err = stmt.Exec(
			ev.Timestamp.UTC().Format(journalTimeLayout),
			ev.Level.String(), ev.SessionID, ev.Param, ev.Registry, ev.Source,
			ev.Setter, ev.OldValue, ev.NewValue, ev.ProcessID, ev.Checksum,
		); err != nil {
			return errors.Wrap(err, ErrCodeAuditError, "cannot store audit event").WithContext("param", ev.Param)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot commit audit events")
	}
	return nil
}

// Flush truncates the WAL into the main database file.
func (j *sqliteJournal) Flush() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil
	}
	if _, err := j.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot checkpoint audit journal")
	}
	return nil
}

func (j *sqliteJournal) Maintenance() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return errors.New(ErrCodeAuditError, "audit journal is closed").WithContext("path", j.path)
	}
	return j.expire()
}

func (j *sqliteJournal) GetStats() (*AuditStats, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, errors.New(ErrCodeAuditError, "audit journal is closed").WithContext("path", j.path)
	}

	stats := newAuditStats()
	var oldest, newest sql.NullString
	if err := j.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT session_id), MIN(timestamp), MAX(timestamp)
		FROM audit_events`).Scan(&stats.TotalEvents, &stats.Sessions, &oldest, &newest); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot summarise audit journal")
	}
	stats.OldestEvent = parseAuditTime(oldest)
	stats.NewestEvent = parseAuditTime(newest)

	for _, group := range []struct {
		column string
		into   map[string]int64
	}{
		{"level", stats.EventsByLevel},
		{"param", stats.EventsByParam},
		{"source", stats.EventsBySource},
	} {
		if err := j.tally(group.column, group.into); err != nil {
			return nil, errors.Wrap(err, ErrCodeAuditError, "cannot group audit events").
				WithContext("column", group.column)
		}
	}

	version, err := j.schemaVersion()
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot read audit schema version")
	}
	stats.SchemaVersion = version
	if info, err := os.Stat(j.path); err == nil {
		stats.DatabaseSize = info.Size()
	}
	return stats, nil
}

// tally fills into with event counts grouped by column. column is one of
// a fixed set of names, never user input.
func (j *sqliteJournal) tally(column string, into map[string]int64) error {
	rows, err := j.db.Query("SELECT " + column + ", COUNT(*) FROM audit_events GROUP BY " + column)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}

func parseAuditTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(journalTimeLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}

// Close checkpoints and closes the database. Closing twice is harmless.
func (j *sqliteJournal) Close() error {
	if err := j.Flush(); err != nil {
		logger().Warn("final audit checkpoint failed", "path", j.path, "error", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	var stmtErr error
	if j.insert != nil {
		stmtErr = j.insert.Close()
	}
	if err := j.db.Close(); err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot close audit database").WithContext("path", j.path)
	}
	if stmtErr != nil {
		return errors.Wrap(stmtErr, ErrCodeAuditError, "cannot release audit statement").WithContext("path", j.path)
	}
	return nil
}

// jsonlJournal appends one JSON object per event.
type jsonlJournal struct {
	file   *os.File
	path   string
	mu     sync.Mutex
	closed bool
}

func openJSONLJournal(path string) (*jsonlJournal, error) {
	if path == "" {
		return nil, errors.New(ErrCodeInvalidConfig, "JSONL audit journal needs a file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot create audit journal directory").
			WithContext("path", path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- audit path is configured by the application
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot open audit journal").WithContext("path", path)
	}
	return &jsonlJournal{file: file, path: path}, nil
}

func (j *jsonlJournal) Write(events []AuditEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return errors.New(ErrCodeAuditError, "audit journal is closed").WithContext("path", j.path)
	}

	w := bufio.NewWriter(j.file)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		// Encode terminates each object with '\n'.
		if err := enc.Encode(ev); err != nil {
			return errors.Wrap(err, ErrCodeAuditError, "cannot encode audit event").WithContext("param", ev.Param)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot append to audit journal").WithContext("path", j.path)
	}
	return nil
}

func (j *jsonlJournal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	if err := j.file.Sync(); err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot sync audit journal").WithContext("path", j.path)
	}
	return nil
}

// Maintenance does nothing; rotating JSONL journals is left to the host.
func (j *jsonlJournal) Maintenance() error { return nil }

// GetStats scans the whole file. Lines that do not decode are skipped.
func (j *jsonlJournal) GetStats() (*AuditStats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path) // #nosec G304 -- same path the journal writes to
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot read audit journal").WithContext("path", j.path)
	}
	defer func() { _ = f.Close() }()

	stats := newAuditStats()
	stats.SchemaVersion = 1
	if info, err := f.Stat(); err == nil {
		stats.DatabaseSize = info.Size()
	}

	sessions := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var ev AuditEvent
		if json.Unmarshal(scanner.Bytes(), &ev) != nil {
			continue
		}
		stats.count(ev)
		sessions[ev.SessionID] = struct{}{}
		if ts := ev.Timestamp; stats.OldestEvent == nil || ts.Before(*stats.OldestEvent) {
			stats.OldestEvent = &ts
		}
		if ts := ev.Timestamp; stats.NewestEvent == nil || ts.After(*stats.NewestEvent) {
			stats.NewestEvent = &ts
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot scan audit journal").WithContext("path", j.path)
	}
	stats.Sessions = int64(len(sessions))
	return stats, nil
}

func (j *jsonlJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
