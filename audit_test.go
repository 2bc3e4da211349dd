// audit_test.go: Tests for the change audit journal
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestAuditLogger(t *testing.T, file string, bufferSize int) *AuditLogger {
	t.Helper()
	cfg := DefaultAuditConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), file)
	cfg.BufferSize = bufferSize
	al, err := NewAuditLogger(cfg)
	if err != nil {
		t.Fatalf("NewAuditLogger() error = %v", err)
	}
	t.Cleanup(func() { _ = al.Close() })
	return al
}

func readJSONLEvents(t *testing.T, path string) []AuditEvent {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	var events []AuditEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestAuditLevel_String(t *testing.T) {
	want := map[AuditLevel]string{AuditInfo: "INFO", AuditWarn: "WARN", AuditCritical: "CRITICAL", AuditLevel(42): "UNKNOWN"}
	for level, s := range want {
		if got := level.String(); got != s {
			t.Errorf("%d.String() = %q, want %q", int(level), got, s)
		}
	}
}

func TestAuditLogger_RecordsRegistryChanges(t *testing.T) {
	al := newTestAuditLogger(t, "audit.jsonl", 100)
	reg := NewOwningRegistry("global")
	width := NewIntParam(reg, "page_width", 80, "")
	origin := NewStringParam(reg, "origin", "", "")
	al.Attach(reg, nil)

	width.SetValue(132, SourceConfigFile, origin)
	width.SetValue(132, SourceConfigFile, nil)
	width.ResetToDefault(nil, SourceAssign)

	if al.Pending() != 2 {
		t.Fatalf("Expected 2 pending events, got %d", al.Pending())
	}
	if err := al.Flush(); err != nil {
		t.Fatal(err)
	}
	if al.Pending() != 0 {
		t.Error("Expected empty buffer after flush")
	}

	events := readJSONLEvents(t, al.config.OutputFile)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	first := events[0]
	if first.Param != "page_width" || first.Registry != "global" || first.Source != "config-file" ||
		first.Setter != "origin" || first.OldValue != "80" || first.NewValue != "132" {
		t.Errorf("Unexpected first event %+v", first)
	}
	if first.Level != AuditInfo || first.SessionID != al.SessionID() || first.ProcessID != os.Getpid() {
		t.Errorf("Unexpected event metadata %+v", first)
	}
	if !VerifyChecksum(first) {
		t.Error("Checksum does not verify")
	}
	if events[1].Level != AuditWarn || events[1].Source != "reset" {
		t.Errorf("Expected reset to be recorded as warning, got %+v", events[1])
	}
}

func TestAuditLogger_CriticalForInitParams(t *testing.T) {
	al := newTestAuditLogger(t, "audit.jsonl", 100)
	reg := NewOwningRegistry("global")
	lang := NewStringParam(reg, "lang", "eng", "", WithInit())
	al.Attach(reg)

	lang.Set("deu")
	lang.Set("fra")
	_ = al.Flush()

	events := readJSONLEvents(t, al.config.OutputFile)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Level != AuditInfo {
		t.Errorf("First write of an init parameter should be info, got %s", events[0].Level)
	}
	if events[1].Level != AuditCritical {
		t.Errorf("Changing an already set init parameter should be critical, got %s", events[1].Level)
	}
}

func TestAuditLogger_FlushesWhenBufferFull(t *testing.T) {
	al := newTestAuditLogger(t, "audit.jsonl", 2)
	al.Log(AuditInfo, AuditEvent{Param: "a", Source: "assign"})
	if al.Pending() != 1 {
		t.Fatalf("Expected 1 pending event, got %d", al.Pending())
	}
	al.Log(AuditInfo, AuditEvent{Param: "b", Source: "assign"})
	if al.Pending() != 0 {
		t.Errorf("Expected automatic flush, %d pending", al.Pending())
	}
	if al.Err() != nil {
		t.Errorf("Unexpected flush error %v", al.Err())
	}
	if n := len(readJSONLEvents(t, al.config.OutputFile)); n != 2 {
		t.Errorf("Expected 2 events on disk, got %d", n)
	}
}

func TestAuditLogger_MinLevelAndDisabled(t *testing.T) {
	cfg := DefaultAuditConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "audit.jsonl")
	cfg.MinLevel = AuditWarn
	al, err := NewAuditLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = al.Close() }()

	al.Log(AuditInfo, AuditEvent{Param: "quiet"})
	al.Log(AuditCritical, AuditEvent{Param: "loud"})
	if al.Pending() != 1 {
		t.Errorf("Expected only the critical event, got %d", al.Pending())
	}

	al.config.Enabled = false
	al.Log(AuditCritical, AuditEvent{Param: "ignored"})
	if al.Pending() != 1 {
		t.Error("Disabled logger must not record events")
	}

	var nilLogger *AuditLogger
	nilLogger.Log(AuditCritical, AuditEvent{})
}

func TestAuditLogger_Stats(t *testing.T) {
	al := newTestAuditLogger(t, "audit.jsonl", 100)
	now := time.Now()
	al.Log(AuditInfo, AuditEvent{Timestamp: now.Add(-time.Minute), Param: "a", Source: "assign"})
	al.Log(AuditWarn, AuditEvent{Timestamp: now, Param: "a", Source: "reset"})
	al.Log(AuditInfo, AuditEvent{Timestamp: now.Add(-2 * time.Minute), Param: "b", Source: "assign"})

	stats, err := al.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 3 || stats.Sessions != 1 {
		t.Errorf("Unexpected totals %+v", stats)
	}
	if stats.EventsByParam["a"] != 2 || stats.EventsByLevel["WARN"] != 1 || stats.EventsBySource["assign"] != 2 {
		t.Errorf("Unexpected breakdown %+v", stats)
	}
	if stats.OldestEvent == nil || !stats.OldestEvent.Equal(now.Add(-2*time.Minute)) {
		t.Errorf("Unexpected oldest event %v", stats.OldestEvent)
	}
	if stats.NewestEvent == nil || !stats.NewestEvent.Equal(now) {
		t.Errorf("Unexpected newest event %v", stats.NewestEvent)
	}
	if err := al.Maintenance(); err != nil {
		t.Errorf("Maintenance() error = %v", err)
	}
}

func TestVerifyChecksum_DetectsTampering(t *testing.T) {
	al := newTestAuditLogger(t, "audit.jsonl", 100)
	al.Log(AuditInfo, AuditEvent{Param: "x", OldValue: "1", NewValue: "2"})
	_ = al.Flush()

	ev := readJSONLEvents(t, al.config.OutputFile)[0]
	if !VerifyChecksum(ev) {
		t.Fatal("Expected checksum to verify")
	}
	ev.NewValue = "3"
	if VerifyChecksum(ev) {
		t.Error("Expected tampered event to fail verification")
	}
}

func TestReadAuditStats(t *testing.T) {
	if _, err := ReadAuditStats(filepath.Join(t.TempDir(), "none.jsonl")); GetErrorCode(err) != ErrCodeNotFound {
		t.Errorf("Expected not found, got %v", err)
	}

	al := newTestAuditLogger(t, "audit.jsonl", 100)
	al.Log(AuditInfo, AuditEvent{Param: "x"})
	if err := al.Close(); err != nil {
		t.Fatal(err)
	}
	stats, err := ReadAuditStats(al.config.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 1 {
		t.Errorf("Expected 1 event, got %d", stats.TotalEvents)
	}
}

func TestDefaultAuditConfig(t *testing.T) {
	cfg := DefaultAuditConfig()
	if !cfg.Enabled || cfg.BufferSize != 100 || cfg.RetentionDays != 90 || cfg.OutputFile != "" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if filepath.Base(DefaultAuditPath()) != "audit.db" {
		t.Errorf("Unexpected default path %q", DefaultAuditPath())
	}
}
