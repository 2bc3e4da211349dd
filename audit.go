// audit.go: Journal of committed parameter changes
//
// An AuditLogger observes registries and records every committed change
// with its provenance: which parameter, old and new raw value, the source
// type and the setter parameter. Events are buffered and written in
// batches to a SQLite database or a JSONL file.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	"github.com/google/uuid"
)

// AuditLevel ranks audit events.
type AuditLevel int

const (
	AuditInfo AuditLevel = iota
	AuditWarn
	AuditCritical
)

func (al AuditLevel) String() string {
	switch al {
	case AuditInfo:
		return "INFO"
	case AuditWarn:
		return "WARN"
	case AuditCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// AuditEvent is one recorded parameter change.
type AuditEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Level     AuditLevel `json:"level"`
	SessionID string     `json:"session_id"`
	Param     string     `json:"param"`
	Registry  string     `json:"registry,omitempty"`
	Source    string     `json:"source"`
	Setter    string     `json:"setter,omitempty"`
	OldValue  string     `json:"old_value"`
	NewValue  string     `json:"new_value"`
	ProcessID int        `json:"process_id"`
	Checksum  string     `json:"checksum"`
}

// AuditConfig configures an AuditLogger.
type AuditConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// OutputFile selects the backend: a .jsonl path writes JSON lines,
	// anything else a SQLite database (the default path when empty).
	OutputFile    string     `json:"output_file" yaml:"output_file"`
	MinLevel      AuditLevel `json:"min_level" yaml:"min_level"`
	BufferSize    int        `json:"buffer_size" yaml:"buffer_size"`
	RetentionDays int        `json:"retention_days" yaml:"retention_days"`
}

// DefaultAuditConfig returns the default configuration: enabled, SQLite
// at DefaultAuditPath, 100 buffered events, 90 days retention.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       true,
		OutputFile:    "",
		MinLevel:      AuditInfo,
		BufferSize:    100,
		RetentionDays: 90,
	}
}

// DefaultAuditPath is the SQLite database used when AuditConfig.OutputFile is empty.
func DefaultAuditPath() string {
	return filepath.Join(os.TempDir(), "params", "audit.db")
}

// AuditLogger records parameter changes. It implements ChangeListener.
// Events are kept in memory until the buffer is full or Flush is called;
// nothing is written in the background.
type AuditLogger struct {
	config    AuditConfig
	journal   changeJournal
	mu        sync.Mutex
	pending   []AuditEvent
	sessionID string
	processID int
	lastErr   error
}

// NewAuditLogger creates an audit logger with a fresh session id.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultAuditConfig().BufferSize
	}
	journal, err := openJournal(config)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot start audit logger")
	}

	return &AuditLogger{
		config:    config,
		journal:   journal,
		pending:   make([]AuditEvent, 0, config.BufferSize),
		sessionID: uuid.New().String(),
		processID: os.Getpid(),
	}, nil
}

// SessionID identifies the events recorded by this logger.
func (al *AuditLogger) SessionID() string { return al.sessionID }

// Attach makes al the change listener of every given registry.
func (al *AuditLogger) Attach(registries ...*Registry) {
	for _, r := range registries {
		if r != nil {
			r.SetChangeListener(al)
		}
	}
}

// ParamChanged records ev.
func (al *AuditLogger) ParamChanged(ev ChangeEvent) {
	level := AuditInfo
	switch {
	case ev.Param.IsInit() && ev.Param.IsSet():
		level = AuditCritical
	case ev.Source == SourceBySnapshotRewind || ev.Source == SourceReset:
		level = AuditWarn
	}
	var setter string
	if ev.Setter != nil {
		setter = ev.Setter.Name()
	}
	al.Log(level, AuditEvent{
		Timestamp: ev.Time,
		Param:     ev.Param.Name(),
		Registry:  ev.Param.Owner().Title(),
		Source:    ev.Source.String(),
		Setter:    setter,
		OldValue:  ev.OldValue,
		NewValue:  ev.NewValue,
	})
}

// Log records event at level, filling in timestamp, session and checksum.
func (al *AuditLogger) Log(level AuditLevel, event AuditEvent) {
	if al == nil || al.journal == nil || !al.config.Enabled || level < al.config.MinLevel {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = timecache.CachedTime()
	}
	event.Level = level
	event.SessionID = al.sessionID
	event.ProcessID = al.processID
	event.Checksum = eventChecksum(event)

	al.mu.Lock()
	defer al.mu.Unlock()
	al.pending = append(al.pending, event)
	if len(al.pending) >= al.config.BufferSize {
		if err := al.flushLocked(); err != nil {
			al.lastErr = err
			logger().Error("failed to write audit events", "error", err)
		}
	}
}

// Pending returns the number of buffered events.
func (al *AuditLogger) Pending() int {
	al.mu.Lock()
	defer al.mu.Unlock()
	return len(al.pending)
}

// Err returns the last error raised by an automatic flush.
func (al *AuditLogger) Err() error {
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.lastErr
}

// Flush writes the buffered events and syncs the journal.
func (al *AuditLogger) Flush() error {
	al.mu.Lock()
	defer al.mu.Unlock()
	if err := al.flushLocked(); err != nil {
		return err
	}
	return al.journal.Flush()
}

// GetStats flushes pending events and summarises the journal.
func (al *AuditLogger) GetStats() (*AuditStats, error) {
	if err := al.Flush(); err != nil {
		return nil, err
	}
	return al.journal.GetStats()
}

// Maintenance drops events older than the retention period.
func (al *AuditLogger) Maintenance() error {
	return al.journal.Maintenance()
}

// Close flushes the remaining events and closes the journal.
func (al *AuditLogger) Close() error {
	flushErr := al.Flush()
	if err := al.journal.Close(); err != nil {
		return err
	}
	return flushErr
}

// flushLocked writes the pending events. al.mu must be held.
func (al *AuditLogger) flushLocked() error {
	if len(al.pending) == 0 {
		return nil
	}
	if err := al.journal.Write(al.pending); err != nil {
		return err
	}
	al.pending = al.pending[:0]
	return nil
}

// eventChecksum is the SHA-256 of the fields that identify a change.
func eventChecksum(event AuditEvent) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		event.Timestamp.Format(time.RFC3339Nano),
		event.SessionID, event.Param, event.Source, event.OldValue, event.NewValue,
	}, ":")))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether event still matches its checksum.
func VerifyChecksum(event AuditEvent) bool {
	return eventChecksum(event) == event.Checksum
}

// ReadAuditStats summarises an existing audit journal.
func ReadAuditStats(path string) (*AuditStats, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, ErrCodeNotFound, "audit journal not found").WithContext("path", path)
	}
	journal, err := openJournal(AuditConfig{OutputFile: path})
	if err != nil {
		return nil, err
	}
	defer func() { _ = journal.Close() }()
	return journal.GetStats()
}
